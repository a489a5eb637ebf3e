package temporal

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"datascope/adapters/stats/assoc"
	"datascope/domain/analysis"
	"datascope/domain/table"
)

// flatSlopeEpsilon separates flat trends from real ones.
const flatSlopeEpsilon = 1e-8

// Point is one (timestamp, value) observation of the analyzed pair.
type Point struct {
	Timestamp int64 // unix seconds
	Value     float64
	Weekday   int // 0 = Sunday
	Month     int // 0 = January
}

// Analyzer finds the first usable (date, numeric) column pair and
// derives trend, changepoint, anomalies, and seasonality from it.
// The regression runs against observation rank, not elapsed time:
// irregularly sampled series are treated as equally spaced.
type Analyzer struct {
	config Config
}

// Config holds the temporal detection thresholds.
type Config struct {
	MinPoints       int
	ChangepointGain float64 // minimum variance-reduction gain to report
	AnomalyZ        float64
	SeasonalSpread  float64 // peak-trough spread ratio for strong months
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MinPoints:       3,
		ChangepointGain: 0.30,
		AnomalyZ:        3,
		SeasonalSpread:  0.30,
	}
}

// NewAnalyzer creates a temporal analyzer
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze returns the trend and seasonality of the first (date, number)
// column pair, or nils when no usable pair or too few points exist.
// Absence is a normal outcome, not an error.
func (a *Analyzer) Analyze(tbl table.Table, types map[string]analysis.ColumnType) (*analysis.TrendResult, *analysis.Seasonality) {
	dateCol, numCol, ok := firstDateNumericPair(tbl.Columns, types)
	if !ok {
		return nil, nil
	}

	points := collectPoints(tbl, dateCol, numCol)
	if len(points) < a.config.MinPoints {
		return nil, nil
	}

	trend := a.trend(points, dateCol, numCol)
	trend.Changepoint = a.changepoint(points)
	trend.Anomalies = a.anomalies(points)

	return trend, a.seasonality(points)
}

func (a *Analyzer) trend(points []Point, dateCol, numCol string) *analysis.TrendResult {
	n := len(points)
	idx := make([]float64, n)
	values := make([]float64, n)
	for i, p := range points {
		idx[i] = float64(i)
		values[i] = p.Value
	}

	slope := olsSlope(idx, values)

	dir := analysis.TrendFlat
	if math.Abs(slope) >= flatSlopeEpsilon {
		if slope > 0 {
			dir = analysis.TrendUp
		} else {
			dir = analysis.TrendDown
		}
	}

	r2 := 0.0
	if r, ok := assoc.Pearson(idx, values); ok {
		// The intermediate r carries the slope's sign; only its square
		// is reported.
		signed := math.Abs(r) * sign(slope)
		r2 = round(signed*signed, 3)
	}

	return &analysis.TrendResult{
		DateCol: dateCol,
		NumCol:  numCol,
		Slope:   slope,
		R2:      r2,
		Dir:     dir,
	}
}

// changepoint scans candidate split positions from index 3 to len-3
// inclusive for the single best piecewise-constant two-segment fit.
func (a *Analyzer) changepoint(points []Point) *analysis.Changepoint {
	n := len(points)
	if n < 6 {
		return nil
	}

	values := make([]float64, n)
	for i, p := range points {
		values[i] = p.Value
	}

	sseFull := sse(values)
	if sseFull == 0 {
		return nil
	}

	bestGain := 0.0
	bestIndex := -1
	for split := 3; split <= n-3; split++ {
		gain := 1 - (sse(values[:split])+sse(values[split:]))/sseFull
		if gain > bestGain {
			bestGain = gain
			bestIndex = split
		}
	}

	if bestIndex < 0 || bestGain < a.config.ChangepointGain {
		return nil
	}
	return &analysis.Changepoint{
		AtIndex:     bestIndex,
		Improvement: round(bestGain, 2),
	}
}

// anomalies counts points whose global z-score exceeds the threshold;
// zero-stdev series have none.
func (a *Analyzer) anomalies(points []Point) int {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	mean, _ := stats.Mean(values)
	stdev := 0.0
	if len(values) > 1 {
		stdev, _ = stats.StandardDeviationSample(values)
	}
	if stdev == 0 {
		return 0
	}

	count := 0
	for _, v := range values {
		if math.Abs((v-mean)/stdev) > a.config.AnomalyZ {
			count++
		}
	}
	return count
}

func firstDateNumericPair(columns []string, types map[string]analysis.ColumnType) (string, string, bool) {
	dateCol, numCol := "", ""
	for _, col := range columns {
		switch types[col] {
		case analysis.TypeDate:
			if dateCol == "" {
				dateCol = col
			}
		case analysis.TypeNumber:
			if numCol == "" {
				numCol = col
			}
		}
	}
	return dateCol, numCol, dateCol != "" && numCol != ""
}

// collectPoints pairs valid dates with finite numbers and sorts them
// ascending by timestamp. The sort is stable so equal timestamps keep
// row order.
func collectPoints(tbl table.Table, dateCol, numCol string) []Point {
	points := make([]Point, 0, tbl.RowCount())
	for _, row := range tbl.Rows {
		d := row.Cell(dateCol)
		v := row.Cell(numCol)
		if !d.IsDate() || !v.IsNumber() || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			continue
		}
		points = append(points, Point{
			Timestamp: d.Date.Unix(),
			Value:     v.Num,
			Weekday:   int(d.Date.Weekday()),
			Month:     int(d.Date.Month()) - 1,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points
}

func olsSlope(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	sumX, sumY := 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	num, den := 0.0, 0.0
	for i := range x {
		dx := x[i] - meanX
		num += dx * (y[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func sse(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	total := 0.0
	for _, v := range values {
		d := v - mean
		total += d * d
	}
	return total
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
