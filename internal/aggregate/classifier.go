package aggregate

import "pickstats/rankings/internal/models"

// TypeClassifier maps a user's per-axis tier pattern to a single
// analysis-type label. It is a pure lookup kept behind an interface so the
// rule table can be swapped without touching the aggregation core.
type TypeClassifier interface {
	Classify(levels models.AxisLevels) string
}

// Analysis type ids emitted by the default rule table.
const (
	TypeAllRoundAce = "allround_ace"
	TypeUpsetHunter = "upset_hunter"
	TypeTrendRider  = "trend_rider"
	TypeSpecialist  = "specialist"
	TypeSteady      = "steady"
	TypeDeveloping  = "developing"
	TypeBalanced    = "balanced"
)

type ruleTableClassifier struct{}

// NewRuleTableClassifier returns the default tier-count rule table.
func NewRuleTableClassifier() TypeClassifier {
	return ruleTableClassifier{}
}

func (ruleTableClassifier) Classify(levels models.AxisLevels) string {
	all := []string{
		levels.WinRate, levels.Accuracy, levels.Precision,
		levels.Upset, levels.Streak, levels.Market,
	}

	strong, weak := 0, 0
	for _, l := range all {
		switch l {
		case models.LevelStrong:
			strong++
		case models.LevelWeak:
			weak++
		}
	}

	switch {
	case strong >= 4:
		return TypeAllRoundAce
	case levels.Upset == models.LevelStrong && strong >= 2:
		return TypeUpsetHunter
	case levels.Market == models.LevelStrong && levels.Streak == models.LevelStrong:
		return TypeTrendRider
	case strong >= 2:
		return TypeSpecialist
	case weak >= 4:
		return TypeDeveloping
	case weak == 0:
		return TypeSteady
	default:
		return TypeBalanced
	}
}
