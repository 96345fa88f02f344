// Package corr computes pairwise correlation matrices over price series
package corr

import "math"

// Pearson computes the sample Pearson correlation coefficient between two
// equal-length series. It returns NaN when the series are empty, have
// mismatched lengths, or either has zero variance (a constant series has no
// defined correlation).
func Pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || len(b) != n {
		return math.NaN()
	}

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	den := math.Sqrt(varA * varB)
	if den == 0 {
		return math.NaN()
	}
	return cov / den
}

// TrailingAlign trims both series to the length of the shorter one by keeping
// each series' most recent points. Series are oldest-to-newest, so the trailing
// slice is the tail. Alignment is by recency, not by date.
func TrailingAlign(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}

// round2 rounds a correlation to 2 decimal places for display.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
