package models

import "time"

// LeaderboardSnapshot is the metadata document for one (kind, league, period)
// board. Its per-user rows live in a child table that is deleted and fully
// rewritten on every rebuild.
type LeaderboardSnapshot struct {
	DocID       string    `db:"doc_id"` // {kind}_{league}_{period_id}
	Kind        string    `db:"kind"`
	League      string    `db:"league"`
	PeriodID    string    `db:"period_id"`
	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`
	RebuiltAt   time.Time `db:"rebuilt_at"`
}

// LeaderboardRow is one ranked user on a board. Users below the board's
// minimum-post gate are never written, whatever their metric values.
type LeaderboardRow struct {
	BoardID      string  `db:"board_id"`
	UID          string  `db:"uid"`
	Rank         int     `db:"rank"`
	Posts        int     `db:"posts"`
	Wins         int     `db:"wins"`
	WinRate      float64 `db:"win_rate"`
	Accuracy     float64 `db:"accuracy"`
	AvgPrecision float64 `db:"avg_precision"`
	AvgUpset     float64 `db:"avg_upset"`
	Consistency  float64 `db:"consistency"`
}
