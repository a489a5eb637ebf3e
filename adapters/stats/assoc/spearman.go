package assoc

import (
	"sort"
)

// Spearman computes rank correlation as Pearson over average mid-ranks
// of each series ranked independently. Tie groups receive the mean of
// their 1-based rank positions, so the result is exact under ties
// (unlike the closed-form d² shortcut).
func Spearman(x, y []float64) (float64, bool) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 3 {
		return 0, false
	}
	return Pearson(Ranks(x[:n]), Ranks(y[:n]))
}

// Ranks converts values to 1-based ranks with ties averaged.
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}

	pairs := make([]pair, n)
	for i, val := range data {
		pairs[i] = pair{value: val, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].value < pairs[j].value
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		groupSize := j - i
		avgRank := float64(i+1) + float64(groupSize-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}

	return ranks
}
