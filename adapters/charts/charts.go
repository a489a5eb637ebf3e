package charts

import (
	"math"
	"sort"
	"time"

	"datascope/adapters/profiler"
	"datascope/adapters/stats/assoc"
	"datascope/domain/analysis"
	"datascope/domain/table"
)

// Builder derives plotting-ready aggregates from a coerced table using
// the same type inference as the core. Rendering is someone else's
// problem; these are just numbers.
type Builder struct {
	histogramBins int // 0 selects the automatic bin rule
}

// NewBuilder creates a chart data builder
func NewBuilder(histogramBins int) *Builder {
	return &Builder{histogramBins: histogramBins}
}

// LinePoint is one (timestamp, value) observation.
type LinePoint struct {
	T time.Time `json:"t"`
	V float64   `json:"v"`
}

// Line pairs the first date column with the first numeric column,
// sorted by time. Nil when no such pair exists.
func (b *Builder) Line(tbl table.Table, types map[string]analysis.ColumnType) []LinePoint {
	dateCol, numCol := "", ""
	for _, col := range tbl.Columns {
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
	if dateCol == "" || numCol == "" {
		return nil
	}

	points := make([]LinePoint, 0, tbl.RowCount())
	for _, row := range tbl.Rows {
		d := row.Cell(dateCol)
		v := row.Cell(numCol)
		if !d.IsDate() || !v.IsNumber() {
			continue
		}
		points = append(points, LinePoint{T: d.Date, V: v.Num})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].T.Before(points[j].T)
	})
	return points
}

// BarSlice is one category with its row count.
type BarSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BarTopK counts values of a categorical column and returns the k most
// frequent, ties broken by first-seen order.
func (b *Builder) BarTopK(tbl table.Table, col string, k int) []BarSlice {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, row := range tbl.Rows {
		cell := row.Cell(col)
		if cell.IsMissing() {
			continue
		}
		key := cell.Canonical()
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}

	slices := make([]BarSlice, 0, len(order))
	for _, label := range order {
		slices = append(slices, BarSlice{Label: label, Count: counts[label]})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Count > slices[j].Count
	})
	if len(slices) > k {
		slices = slices[:k]
	}
	return slices
}

// ScatterPoint is one (x, y) observation.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scatter pairs two numeric columns row by row, skipping rows where
// either side is not a finite number.
func (b *Builder) Scatter(tbl table.Table, xCol, yCol string) []ScatterPoint {
	points := make([]ScatterPoint, 0, tbl.RowCount())
	for _, row := range tbl.Rows {
		x := row.Cell(xCol)
		y := row.Cell(yCol)
		if !x.IsNumber() || !y.IsNumber() {
			continue
		}
		points = append(points, ScatterPoint{X: x.Num, Y: y.Num})
	}
	return points
}

// Histogram holds equal-width bins described by their centers.
type Histogram struct {
	Centers []float64 `json:"centers"`
	Counts  []int     `json:"counts"`
	Width   float64   `json:"width"`
}

// HistogramFor bins a numeric column. The automatic rule is Sturges
// (ceil(log2 n)+1) clamped to [1, 30]; a degenerate range collapses to
// one bin.
func (b *Builder) HistogramFor(tbl table.Table, col string) *Histogram {
	values := profiler.NumericValues(tbl.Column(col))
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	bins := b.histogramBins
	if bins <= 0 {
		bins = int(math.Ceil(math.Log2(float64(len(values))))) + 1
		if bins < 1 {
			bins = 1
		}
		if bins > 30 {
			bins = 30
		}
	}
	if max == min {
		return &Histogram{Centers: []float64{min}, Counts: []int{len(values)}, Width: 0}
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	centers := make([]float64, bins)
	for i := range centers {
		centers[i] = min + (float64(i)+0.5)*width
	}
	return &Histogram{Centers: centers, Counts: counts, Width: width}
}

// BoxStats summarizes a numeric column for a box plot.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Box computes box-plot statistics with the same quantile rule as the
// profiler.
func (b *Builder) Box(tbl table.Table, col string) *BoxStats {
	values := profiler.NumericValues(tbl.Column(col))
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return &BoxStats{
		Min:    sorted[0],
		Q1:     profiler.Quantile(sorted, 0.25),
		Median: profiler.Quantile(sorted, 0.5),
		Q3:     profiler.Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// Bundle collects every chart aggregate for one table.
type Bundle struct {
	Line       []LinePoint           `json:"line,omitempty"`
	Bars       map[string][]BarSlice `json:"bars,omitempty"`
	Histograms map[string]*Histogram `json:"histograms,omitempty"`
	Boxes      map[string]*BoxStats  `json:"boxes,omitempty"`
	Matrix     *CorrelationMatrix    `json:"matrix,omitempty"`
}

// BuildAll assembles the full bundle: the timeline, a top-10 bar per
// string column, a histogram and box per numeric column, and the
// correlation matrix.
func (b *Builder) BuildAll(tbl table.Table, types map[string]analysis.ColumnType) *Bundle {
	bundle := &Bundle{
		Line:       b.Line(tbl, types),
		Bars:       make(map[string][]BarSlice),
		Histograms: make(map[string]*Histogram),
		Boxes:      make(map[string]*BoxStats),
		Matrix:     b.Matrix(tbl, types),
	}
	for _, col := range tbl.Columns {
		switch types[col] {
		case analysis.TypeString:
			bundle.Bars[col] = b.BarTopK(tbl, col, 10)
		case analysis.TypeNumber:
			bundle.Histograms[col] = b.HistogramFor(tbl, col)
			bundle.Boxes[col] = b.Box(tbl, col)
		}
	}
	return bundle
}

// MatrixCell is one entry of the correlation matrix. OK is false when
// the correlation is undefined; R is 0 there so the matrix stays
// finite.
type MatrixCell struct {
	R  float64 `json:"r"`
	OK bool    `json:"ok"`
}

// CorrelationMatrix computes Pearson over every numeric column pair.
type CorrelationMatrix struct {
	Columns []string       `json:"columns"`
	Cells   [][]MatrixCell `json:"cells"`
}

// Matrix builds the full correlation matrix for all numeric columns.
func (b *Builder) Matrix(tbl table.Table, types map[string]analysis.ColumnType) *CorrelationMatrix {
	numeric := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		if types[col] == analysis.TypeNumber {
			numeric = append(numeric, col)
		}
	}
	if len(numeric) == 0 {
		return nil
	}

	series := make([][]float64, len(numeric))
	for i, col := range numeric {
		series[i] = profiler.NumericValues(tbl.Column(col))
	}

	cells := make([][]MatrixCell, len(numeric))
	for i := range numeric {
		cells[i] = make([]MatrixCell, len(numeric))
		for j := range numeric {
			if i == j {
				cells[i][j] = MatrixCell{R: 1, OK: true}
				continue
			}
			if r, ok := assoc.Pearson(series[i], series[j]); ok {
				cells[i][j] = MatrixCell{R: r, OK: true}
			} else {
				cells[i][j] = MatrixCell{R: 0, OK: false}
			}
		}
	}
	return &CorrelationMatrix{Columns: numeric, Cells: cells}
}
