package models

import "time"

// Pick sides as recorded on a prediction post.
const (
	SideHome = "home"
	SideAway = "away"
)

// StatusFinal marks a post or game whose outcome has been settled.
const StatusFinal = "final"

// SettledPost is a finalized prediction post. The behavioral pass reads these
// grouped by author; the settlement process owns the rows.
type SettledPost struct {
	ID            int       `db:"id"`
	UID           string    `db:"uid"`
	League        string    `db:"league"`
	PickSide      string    `db:"pick_side"`
	PickTeamID    string    `db:"pick_team_id"`
	MajoritySide  string    `db:"majority_side"`
	MajorityRatio float64   `db:"majority_ratio"`
	IsWin         bool      `db:"is_win"`
	Status        string    `db:"status"`
	SettledAt     time.Time `db:"settled_at"`
}

// SettledGame is a finalized game used only for the league-wide upset
// occurrence rate; individual user picks do not contribute to it.
type SettledGame struct {
	ID        int       `db:"id"`
	GameID    string    `db:"game_id"`
	League    string    `db:"league"`
	IsUpset   bool      `db:"is_upset"`
	Status    string    `db:"status"`
	SettledAt time.Time `db:"settled_at"`
}
