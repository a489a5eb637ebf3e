package temporal

import (
	"datascope/domain/analysis"
)

// seasonality buckets the trend's (date, value) pairs by weekday and by
// calendar month and averages each bucket. Ties keep the lowest bucket
// index.
func (a *Analyzer) seasonality(points []Point) *analysis.Seasonality {
	if len(points) == 0 {
		return nil
	}

	weekdaySums := make([]float64, 7)
	weekdayCounts := make([]int, 7)
	monthSums := make([]float64, 12)
	monthCounts := make([]int, 12)
	for _, p := range points {
		weekdaySums[p.Weekday] += p.Value
		weekdayCounts[p.Weekday]++
		monthSums[p.Month] += p.Value
		monthCounts[p.Month]++
	}

	return &analysis.Seasonality{
		Weekday: bestWeekday(weekdaySums, weekdayCounts),
		Monthly: a.monthly(monthSums, monthCounts),
	}
}

func bestWeekday(sums []float64, counts []int) *analysis.WeekdaySeasonality {
	best := -1
	bestAvg := 0.0
	for d := 0; d < 7; d++ {
		if counts[d] == 0 {
			continue
		}
		avg := sums[d] / float64(counts[d])
		if best < 0 || avg > bestAvg {
			best = d
			bestAvg = avg
		}
	}
	if best < 0 {
		return nil
	}
	return &analysis.WeekdaySeasonality{BestWeekday: best, Avg: bestAvg}
}

func (a *Analyzer) monthly(sums []float64, counts []int) *analysis.MonthlySeasonality {
	peak, trough := -1, -1
	peakAvg, troughAvg := 0.0, 0.0
	avgSum := 0.0
	populated := 0
	for m := 0; m < 12; m++ {
		if counts[m] == 0 {
			continue
		}
		avg := sums[m] / float64(counts[m])
		avgSum += avg
		populated++
		if peak < 0 || avg > peakAvg {
			peak = m
			peakAvg = avg
		}
		if trough < 0 || avg < troughAvg {
			trough = m
			troughAvg = avg
		}
	}
	if peak < 0 {
		return nil
	}

	strong := false
	if mean := avgSum / float64(populated); mean != 0 {
		strong = (peakAvg-troughAvg)/mean >= a.config.SeasonalSpread
	}

	return &analysis.MonthlySeasonality{
		PeakMonth:   peak,
		TroughMonth: trough,
		PeakAvg:     peakAvg,
		TroughAvg:   troughAvg,
		Strong:      strong,
	}
}
