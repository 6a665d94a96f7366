package analytics

import "sort"

// Percentile is the continuous (linearly interpolated) percentile of
// sorted, matching SQL PERCENTILE_CONT. sorted must be ascending and
// non-empty; p is in [0, 1].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// distribution summarises values; every field is nil for an empty input.
func distribution(values []float64) (mean, min, max, p25, median, p75 *float64) {
	if len(values) == 0 {
		return
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	m := sum / float64(len(sorted))
	lo, hi := sorted[0], sorted[len(sorted)-1]
	q1, q2, q3 := Percentile(sorted, 0.25), Percentile(sorted, 0.5), Percentile(sorted, 0.75)
	return &m, &lo, &hi, &q1, &q2, &q3
}
