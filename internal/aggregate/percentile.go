package aggregate

import (
	"math"
	"sort"
)

// Percentile ranks v against the cohort's ascending sorted values:
// round(((countBelow + countEqual*0.5) / n) * 100). The whole cohort must be
// materialized before any rank is computed; this cannot be streamed.
func Percentile(sorted []float64, v float64) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	below := sort.SearchFloat64s(sorted, v)
	upper := sort.Search(n, func(i int) bool { return sorted[i] > v })
	equal := upper - below

	return int(math.Round((float64(below) + float64(equal)*0.5) / float64(n) * 100))
}

// SortedValues extracts one metric across the cohort and sorts it ascending,
// ready for Percentile.
func SortedValues(accs map[string]*Accumulator, metric func(*Accumulator) float64) []float64 {
	values := make([]float64, 0, len(accs))
	for _, acc := range accs {
		values = append(values, metric(acc))
	}
	sort.Float64s(values)
	return values
}
