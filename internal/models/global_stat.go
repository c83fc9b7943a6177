package models

import "time"

// MetricSet is one average value per ranked metric.
type MetricSet struct {
	WinRate      float64 `json:"winRate"`
	Accuracy     float64 `json:"accuracy"`
	AvgPrecision float64 `json:"avgPrecision"`
	AvgUpset     float64 `json:"avgUpset"`
}

// MonthlyGlobalStat is the cohort-wide document for one period. TopDecile
// averages are computed per metric independently over eligible users (posts
// at or above the eligibility threshold); a user can sit in the winRate
// decile without sitting in any other.
type MonthlyGlobalStat struct {
	PeriodID      string    `db:"period_id"`
	CohortSize    int       `db:"cohort_size"`
	EligibleCount int       `db:"eligible_count"`
	Average       MetricSet `db:"average"`
	TopDecile     MetricSet `db:"top_decile"`
	SettledGames  int       `db:"settled_games"`
	UpsetGames    int       `db:"upset_games"`
	UpsetRate     float64   `db:"upset_rate"`
	RebuiltAt     time.Time `db:"rebuilt_at"`
}
