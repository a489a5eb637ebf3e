package assoc

// EtaSquared computes the proportion of numeric variance explained by a
// categorical grouping: between-group sum of squares over total sum of
// squares around the grand mean. ok is false below 3 valid pairs or
// when the total sum of squares is zero.
func EtaSquared(groups []string, values []float64) (float64, bool) {
	n := len(groups)
	if len(values) < n {
		n = len(values)
	}
	if n < 3 {
		return 0, false
	}
	groups, values = groups[:n], values[:n]

	grandSum := 0.0
	for _, v := range values {
		grandSum += v
	}
	grandMean := grandSum / float64(n)

	ssTotal := 0.0
	for _, v := range values {
		d := v - grandMean
		ssTotal += d * d
	}
	if ssTotal == 0 {
		return 0, false
	}

	// First-seen group order keeps the floating-point accumulation
	// order fixed, so repeated calls return identical bits.
	groupSums := make(map[string]float64)
	groupCounts := make(map[string]int)
	order := make([]string, 0)
	for i, g := range groups {
		if _, ok := groupCounts[g]; !ok {
			order = append(order, g)
		}
		groupSums[g] += values[i]
		groupCounts[g]++
	}

	ssBetween := 0.0
	for _, g := range order {
		count := float64(groupCounts[g])
		mean := groupSums[g] / count
		d := mean - grandMean
		ssBetween += count * d * d
	}

	eta2 := ssBetween / ssTotal
	if eta2 < 0 {
		eta2 = 0
	} else if eta2 > 1 {
		eta2 = 1
	}
	return eta2, true
}
