package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrevious_Month(t *testing.T) {
	// Friday 2026-08-28 19:00 KST
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	p := Previous(Month, now)

	assert.Equal(t, "2026-07", p.ID)
	assert.Equal(t, "2026-07-01", p.StartKey())
	assert.Equal(t, "2026-07-31", p.EndKey())
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, Zone), p.Start)
	assert.True(t, p.End.Before(time.Date(2026, 8, 1, 0, 0, 0, 0, Zone)))
}

func TestPrevious_Month_KSTBoundary(t *testing.T) {
	// 16:00 UTC on Aug 31 is already Sep 1 in UTC+9, so the "previous
	// month" must be August even though UTC still says August.
	now := time.Date(2026, 8, 31, 16, 0, 0, 0, time.UTC)

	p := Previous(Month, now)

	assert.Equal(t, "2026-08", p.ID)
	assert.Equal(t, "2026-08-01", p.StartKey())
	assert.Equal(t, "2026-08-31", p.EndKey())
}

func TestPrevious_Week(t *testing.T) {
	// Friday 2026-08-28 KST; previous ISO week is Mon Aug 17 - Sun Aug 23
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	p := Previous(Week, now)

	assert.Equal(t, "2026-W34", p.ID)
	assert.Equal(t, "2026-08-17", p.StartKey())
	assert.Equal(t, "2026-08-23", p.EndKey())
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, Zone), p.Start)

	// End is the last millisecond of Sunday
	assert.Equal(t, time.Date(2026, 8, 23, 23, 59, 59, 999000000, Zone).Unix(), p.End.Unix())
}

func TestPrevious_Week_OnSunday(t *testing.T) {
	// Sunday belongs to the running week; previous week ends the Sunday before.
	now := time.Date(2026, 8, 23, 3, 0, 0, 0, Zone)

	p := Previous(Week, now)

	assert.Equal(t, "2026-08-10", p.StartKey())
	assert.Equal(t, "2026-08-16", p.EndKey())
}

func TestPrevious_Week_OnMonday(t *testing.T) {
	// Monday 05:00 KST, the scheduled trigger time: previous week is the
	// one that just ended.
	now := time.Date(2026, 8, 24, 5, 0, 0, 0, Zone)

	p := Previous(Week, now)

	assert.Equal(t, "2026-08-17", p.StartKey())
	assert.Equal(t, "2026-08-23", p.EndKey())
}

func TestPrevious_Month_AcrossYear(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, Zone)

	p := Previous(Month, now)

	assert.Equal(t, "2025-12", p.ID)
	assert.Equal(t, "2025-12-01", p.StartKey())
	assert.Equal(t, "2025-12-31", p.EndKey())
}

func TestDateKey_ShiftsToZone(t *testing.T) {
	// 23:00 UTC is already the next day in UTC+9
	ts := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-11", DateKey(ts))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Week, k)

	k, err = ParseKind("month")
	require.NoError(t, err)
	assert.Equal(t, Month, k)

	_, err = ParseKind("quarter")
	assert.Error(t, err)
}
