package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDerived(t *testing.T) {
	acc := &Accumulator{
		Posts:            10,
		Wins:             6,
		BrierSum:         2.5,
		PrecisionSum:     84,
		UpsetHit:         3,
		UpsetOpportunity: 6,
	}

	d := ComputeDerived(acc)

	assert.InDelta(t, 0.6, d.WinRate, 1e-9)
	assert.InDelta(t, 0.75, d.Accuracy, 1e-9)
	assert.InDelta(t, 8.4, d.AvgPrecision, 1e-9)
	assert.InDelta(t, 0.5, d.AvgUpset, 1e-9)
}

func TestComputeDerived_UpsetGate(t *testing.T) {
	// Below five opportunities avgUpset is zero, even at a perfect hit rate.
	acc := &Accumulator{
		Posts:            8,
		Wins:             4,
		UpsetHit:         4,
		UpsetOpportunity: 4,
	}

	d := ComputeDerived(acc)
	assert.Zero(t, d.AvgUpset)

	acc.UpsetOpportunity = 5
	acc.UpsetHit = 5
	d = ComputeDerived(acc)
	assert.InDelta(t, 1.0, d.AvgUpset, 1e-9)
}

func TestConsistency(t *testing.T) {
	// Laplace smoothing pulls small samples toward 0.5
	assert.InDelta(t, 0.75, Consistency(2, 2), 1e-9)
	assert.InDelta(t, 0.5, Consistency(0, 0), 1e-9)

	// A long record dominates a lucky short one
	assert.Greater(t, Consistency(80, 100), Consistency(2, 2))
}
