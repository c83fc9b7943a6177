package models

import "time"

// Axis tier labels for the radar classification.
const (
	LevelStrong = "S"
	LevelMid    = "M"
	LevelWeak   = "W"
)

// RawStats holds the derived per-user metrics for a period.
type RawStats struct {
	Posts        int            `json:"posts"`
	Wins         int            `json:"wins"`
	WinRate      float64        `json:"winRate"`
	Accuracy     float64        `json:"accuracy"`
	AvgPrecision float64        `json:"avgPrecision"`
	AvgUpset     float64        `json:"avgUpset"`
	LeaguePosts  map[string]int `json:"leaguePosts"`
}

// Percentiles is the user's 0-100 standing per metric. LeagueVolume is ranked
// against users who posted in the same main league, not the global cohort.
type Percentiles struct {
	WinRate      int `json:"winRate"`
	Accuracy     int `json:"accuracy"`
	AvgPrecision int `json:"avgPrecision"`
	AvgUpset     int `json:"avgUpset"`
	LeagueVolume int `json:"leagueVolume"`
}

// Radar10 is the six-axis 0-10 normalized performance profile.
type Radar10 struct {
	WinRate   int `json:"winRate"`
	Accuracy  int `json:"accuracy"`
	Precision int `json:"precision"`
	Upset     int `json:"upset"`
	Streak    int `json:"streak"`
	Market    int `json:"market"`
}

// AxisLevels is the per-axis S/M/W tier classification of a Radar10 profile.
type AxisLevels struct {
	WinRate   string `json:"winRate"`
	Accuracy  string `json:"accuracy"`
	Precision string `json:"precision"`
	Upset     string `json:"upset"`
	Streak    string `json:"streak"`
	Market    string `json:"market"`
}

// SideStats is the per-side slice of a home/away split.
type SideStats struct {
	Posts   int     `json:"posts"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

// HomeAwaySplit is how a user's picks and wins divide between home and away.
type HomeAwaySplit struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
}

// MarketBias captures favorite-vs-underdog pick behavior. A pick is
// "favorite" when it matches the market-majority side recorded at posting
// time. AvgMajorityRatio averages the majority ratio over favorite picks.
type MarketBias struct {
	FavoritePicks    int     `json:"favoritePicks"`
	FavoriteWins     int     `json:"favoriteWins"`
	FavoriteWinRate  float64 `json:"favoriteWinRate"`
	UnderdogPicks    int     `json:"underdogPicks"`
	UnderdogWins     int     `json:"underdogWins"`
	UnderdogWinRate  float64 `json:"underdogWinRate"`
	AvgMajorityRatio float64 `json:"avgMajorityRatio"`
}

// TeamRecord is one team a user has picked, with their record on it.
type TeamRecord struct {
	TeamID  string  `json:"teamId"`
	Posts   int     `json:"posts"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

// TeamAffinity lists the user's best and worst teams. Only teams with at
// least five picks qualify, and the two lists never share a team id.
type TeamAffinity struct {
	Strong []TeamRecord `json:"strong"`
	Weak   []TeamRecord `json:"weak"`
}

// Streak holds the longest win and lose runs over chronologically ordered
// settled results.
type Streak struct {
	MaxWin  int `json:"maxWin"`
	MaxLose int `json:"maxLose"`
}

// MonthlyUserStat is the composite per-user document for one period. It is
// rebuilt from scratch and fully overwritten on every run, never patched.
type MonthlyUserStat struct {
	DocID          string        `db:"doc_id"` // {uid}_{period_id}
	UID            string        `db:"uid"`
	PeriodID       string        `db:"period_id"`
	MainLeague     string        `db:"main_league"`
	Raw            RawStats      `db:"raw"`
	Percentiles    Percentiles   `db:"percentiles"`
	Radar          Radar10       `db:"radar10"`
	Levels         AxisLevels    `db:"analysis_levels"`
	AnalysisTypeID string        `db:"analysis_type_id"`
	HomeAway       HomeAwaySplit `db:"home_away"`
	MarketBias     MarketBias    `db:"market_bias"`
	Teams          TeamAffinity  `db:"team_stats"`
	Streak         Streak        `db:"streak"`
	RebuiltAt      time.Time     `db:"rebuilt_at"`
}
