package models

// ScopeAll is the cross-league aggregate scope of a daily stat row. The
// settlement process writes one row per league a user posted in that day,
// plus one "all" row carrying the combined sums.
const ScopeAll = "all"

// DailyUserStat is one per-user-per-day outcome record produced by the
// settlement process. Rows are immutable once written and read-only to this
// engine. StatDate is a YYYY-MM-DD key in UTC+9; range queries compare it as
// a string.
type DailyUserStat struct {
	UID              string  `db:"uid"`
	StatDate         string  `db:"stat_date"`
	Scope            string  `db:"scope"`
	Posts            int     `db:"posts"`
	Wins             int     `db:"wins"`
	BrierSum         float64 `db:"brier_sum"`
	PrecisionSum     float64 `db:"precision_sum"`
	UpsetHit         int     `db:"upset_hit"`
	UpsetOpportunity int     `db:"upset_opportunity"`
	UpsetPick        int     `db:"upset_pick"`
}
