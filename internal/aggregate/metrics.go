package aggregate

// MinUpsetOpportunities is the floor below which avgUpset is forced to zero,
// whatever the hit count. Too small a sample says nothing about upset skill.
const MinUpsetOpportunities = 5

// Derived holds the rate/average metrics computed from one accumulator.
type Derived struct {
	WinRate      float64
	Accuracy     float64
	AvgPrecision float64
	AvgUpset     float64
}

// ComputeDerived converts raw sums into rates and averages. Callers must not
// pass a zero-post accumulator; zero-post users are excluded from the cohort
// before this point.
func ComputeDerived(acc *Accumulator) Derived {
	posts := float64(acc.Posts)

	d := Derived{
		WinRate:      float64(acc.Wins) / posts,
		Accuracy:     1 - acc.BrierSum/posts,
		AvgPrecision: acc.PrecisionSum / posts,
	}

	if acc.UpsetOpportunity >= MinUpsetOpportunities {
		d.AvgUpset = float64(acc.UpsetHit) / float64(acc.UpsetOpportunity)
	}

	return d
}

// Consistency is a Laplace-smoothed win rate, (wins+1)/(posts+2). It shrinks
// low-volume users toward 0.5 so a 2-for-2 week does not outrank a sustained
// record on leaderboards.
func Consistency(wins, posts int) float64 {
	return float64(wins+1) / float64(posts+2)
}
