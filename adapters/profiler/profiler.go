package profiler

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"datascope/domain/analysis"
	"datascope/domain/table"
)

// Profiler computes per-column descriptive statistics over a coerced
// table. It holds no state; repeated calls are bit-identical.
type Profiler struct{}

// New creates a profiler
func New() *Profiler {
	return &Profiler{}
}

// ProfileTable profiles every column in column order.
func (p *Profiler) ProfileTable(tbl table.Table, types map[string]analysis.ColumnType) []analysis.ColumnProfile {
	profiles := make([]analysis.ColumnProfile, len(tbl.Columns))
	for i, col := range tbl.Columns {
		profiles[i] = p.ProfileColumn(col, tbl.Column(col), types[col], tbl.RowCount())
	}
	return profiles
}

// ProfileColumn profiles one column. The numeric summary is present iff
// the inferred type is number; a numeric column where nothing parses
// still gets an all-zero summary.
func (p *Profiler) ProfileColumn(name string, cells []table.Cell, colType analysis.ColumnType, rowCount int) analysis.ColumnProfile {
	missing := 0
	distinct := make(map[string]struct{})
	for _, cell := range cells {
		if cell.IsMissing() {
			missing++
			continue
		}
		distinct[cell.Canonical()] = struct{}{}
	}

	profile := analysis.ColumnProfile{
		Name:       name,
		Type:       colType,
		MissingPct: math.Round(float64(missing) / math.Max(1, float64(rowCount)) * 100),
		Distinct:   len(distinct),
	}

	if colType == analysis.TypeNumber {
		summary := p.numericSummary(NumericValues(cells))
		profile.Numeric = &summary
	}

	return profile
}

func (p *Profiler) numericSummary(values []float64) analysis.NumericSummary {
	if len(values) == 0 {
		return analysis.NumericSummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(sorted)
	min, _ := stats.Min(sorted)
	max, _ := stats.Max(sorted)

	stdev := 0.0
	if len(sorted) > 1 {
		stdev, _ = stats.StandardDeviationSample(sorted)
	}

	q1 := Quantile(sorted, 0.25)
	median := Quantile(sorted, 0.5)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1

	lowFence := q1 - 1.5*iqr
	highFence := q3 + 1.5*iqr
	outliersIQR := 0
	outliersZ := 0
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			outliersIQR++
		}
		if stdev > 0 && math.Abs((v-mean)/stdev) > 3 {
			outliersZ++
		}
	}

	return analysis.NumericSummary{
		N:           len(sorted),
		Mean:        mean,
		Median:      median,
		Min:         min,
		Max:         max,
		StdDev:      stdev,
		Q1:          q1,
		Q3:          q3,
		IQR:         iqr,
		OutliersIQR: outliersIQR,
		OutliersZ:   outliersZ,
	}
}

// Quantile returns the linearly interpolated quantile of a sorted
// slice: position p = (m-1)*q, result = sorted[floor(p)] + frac(p) *
// (sorted[floor(p)+1] - sorted[floor(p)]). The final element is used
// when no successor exists. montanaflynn's Percentile uses a different
// positioning rule, so this stays hand-written to keep median and
// quartiles mutually consistent.
func Quantile(sorted []float64, q float64) float64 {
	m := len(sorted)
	if m == 0 {
		return 0
	}
	if m == 1 {
		return sorted[0]
	}

	pos := float64(m-1) * q
	lower := int(math.Floor(pos))
	if lower >= m-1 {
		return sorted[m-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// NumericValues extracts the finite numeric values of a column in row
// order.
func NumericValues(cells []table.Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell.IsNumber() && !math.IsInf(cell.Num, 0) && !math.IsNaN(cell.Num) {
			values = append(values, cell.Num)
		}
	}
	return values
}
