package aggregate

import (
	"math"

	"pickstats/rankings/internal/models"
)

// precisionScale maps avgPrecision onto the 0-10 radar range; 15 is the
// practical ceiling of the score-precision metric.
const precisionScale = 15.0

// NormalizeRadar maps six metrics onto the 0-10 radar profile via
// clamp-and-round. favoriteRatio is the share of market-majority picks among
// all favorite/underdog picks.
func NormalizeRadar(d Derived, streak models.Streak, favoriteRatio float64) models.Radar10 {
	streakScore := float64(streak.MaxWin) / float64(streak.MaxWin+streak.MaxLose+1)

	return models.Radar10{
		WinRate:   axis(d.WinRate * 10),
		Accuracy:  axis(d.Accuracy * 10),
		Precision: axis(d.AvgPrecision / precisionScale * 10),
		Upset:     axis(d.AvgUpset * 10),
		Streak:    axis(streakScore * 10),
		Market:    axis(favoriteRatio * 10),
	}
}

func axis(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return int(math.Round(v))
}

// ClassifyLevels tiers each radar axis: >=8 Strong, >=4 Mid, else Weak.
func ClassifyLevels(r models.Radar10) models.AxisLevels {
	return models.AxisLevels{
		WinRate:   level(r.WinRate),
		Accuracy:  level(r.Accuracy),
		Precision: level(r.Precision),
		Upset:     level(r.Upset),
		Streak:    level(r.Streak),
		Market:    level(r.Market),
	}
}

func level(v int) string {
	switch {
	case v >= 8:
		return models.LevelStrong
	case v >= 4:
		return models.LevelMid
	default:
		return models.LevelWeak
	}
}
