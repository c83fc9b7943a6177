package period

import (
	"fmt"
	"time"
)

// Kind selects the calendar window granularity for a rebuild.
type Kind string

const (
	Week  Kind = "week"
	Month Kind = "month"
)

// Zone is the fixed timezone all calendar math runs in. Daily stat date keys
// are written in UTC+9, so window boundaries must be derived in the same zone.
var Zone = time.FixedZone("UTC+9", 9*60*60)

// Period is a resolved calendar window with its storage identifier.
type Period struct {
	Kind  Kind
	ID    string
	Start time.Time
	End   time.Time
}

// ParseKind validates a kind string, defaulting empty input to Week.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", string(Week):
		return Week, nil
	case string(Month):
		return Month, nil
	default:
		return "", fmt.Errorf("unknown period kind: %q", s)
	}
}

// Previous resolves the most recently completed window of the given kind
// relative to now. Week is the previous Monday 00:00:00 through Sunday
// 23:59:59.999; Month is the previous full calendar month.
func Previous(kind Kind, now time.Time) Period {
	local := now.In(Zone)

	switch kind {
	case Week:
		// Walk back to this week's Monday, then one more week.
		weekday := int(local.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		thisMonday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone).
			AddDate(0, 0, -(weekday - 1))
		start := thisMonday.AddDate(0, 0, -7)
		end := thisMonday.Add(-time.Millisecond)
		year, week := start.ISOWeek()
		return Period{
			Kind:  Week,
			ID:    fmt.Sprintf("%04d-W%02d", year, week),
			Start: start,
			End:   end,
		}
	default:
		firstOfThis := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Zone)
		start := firstOfThis.AddDate(0, -1, 0)
		end := firstOfThis.Add(-time.Millisecond)
		return Period{
			Kind:  Month,
			ID:    start.Format("2006-01"),
			Start: start,
			End:   end,
		}
	}
}

// DateKey formats a timestamp as the YYYY-MM-DD key the daily stat store is
// keyed by. The shift into Zone must happen before formatting because range
// queries on the key are string comparisons, not timestamp comparisons.
func DateKey(t time.Time) string {
	return t.In(Zone).Format("2006-01-02")
}

// StartKey returns the inclusive lower date key of the window.
func (p Period) StartKey() string {
	return DateKey(p.Start)
}

// EndKey returns the inclusive upper date key of the window.
func (p Period) EndKey() string {
	return DateKey(p.End)
}
