package assoc

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Pearson computes the product-moment correlation of two equal-length
// series. ok is false when fewer than 3 pairs are available or either
// series has zero variance; callers must exclude such pairs instead of
// letting NaN reach a sort.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 3 {
		return 0, false
	}
	x, y = x[:n], y[:n]

	// stats.Pearson returns (0, nil) on zero variance rather than NaN,
	// so constant series must be rejected before the library call.
	if isConstant(x) || isConstant(y) {
		return 0, false
	}

	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}

	// Clamp floating point drift.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
