package assoc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// MissingCategory is the sentinel level that missing cells map to when
// building contingency tables.
const MissingCategory = "(missing)"

// CramersVResult carries the normalized association plus the raw
// chi-square statistic and its p-value.
type CramersVResult struct {
	V      float64
	Chi2   float64
	PValue float64
	N      int
}

// CramersV measures association between two categorical series of
// equal length. ok is false below 5 paired observations or when either
// series has fewer than 2 distinct levels.
func CramersV(a, b []string) (CramersVResult, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 5 {
		return CramersVResult{}, false
	}
	a, b = a[:n], b[:n]

	aLevels := levelIndex(a)
	bLevels := levelIndex(b)
	if len(aLevels) < 2 || len(bLevels) < 2 {
		return CramersVResult{}, false
	}

	counts := make([][]int, len(aLevels))
	for i := range counts {
		counts[i] = make([]int, len(bLevels))
	}
	for i := 0; i < n; i++ {
		counts[aLevels[a[i]]][bLevels[b[i]]]++
	}

	rows := len(aLevels)
	cols := len(bLevels)
	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += counts[i][j]
			colTotals[j] += counts[i][j]
		}
	}

	chi2 := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(n)
			if expected > 0 {
				observed := float64(counts[i][j])
				chi2 += (observed - expected) * (observed - expected) / expected
			}
		}
	}

	minDim := math.Min(float64(rows-1), float64(cols-1))
	if minDim == 0 {
		return CramersVResult{}, false
	}

	v := math.Sqrt(chi2 / (float64(n) * minDim))
	if v > 1 {
		v = 1
	}

	df := float64((rows - 1) * (cols - 1))
	chiDist := distuv.ChiSquared{K: df}
	pValue := chiDist.Survival(chi2)

	return CramersVResult{V: v, Chi2: chi2, PValue: pValue, N: n}, true
}

// levelIndex assigns each distinct level an index in first-seen order.
func levelIndex(values []string) map[string]int {
	index := make(map[string]int)
	for _, v := range values {
		if _, ok := index[v]; !ok {
			index[v] = len(index)
		}
	}
	return index
}
