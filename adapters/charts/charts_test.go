package charts

import (
	"math"
	"testing"
	"time"

	"datascope/domain/analysis"
	"datascope/domain/table"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestLine_SortedByTime(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"when", "v"},
		Rows: []table.Row{
			{"when": table.NewDateCell(day(3)), "v": table.NewNumberCell(30)},
			{"when": table.NewDateCell(day(1)), "v": table.NewNumberCell(10)},
			{"when": table.NewDateCell(day(2)), "v": table.NewNumberCell(20)},
		},
	}
	types := map[string]analysis.ColumnType{
		"when": analysis.TypeDate,
		"v":    analysis.TypeNumber,
	}

	points := b.Line(tbl, types)
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	for i, want := range []float64{10, 20, 30} {
		if points[i].V != want {
			t.Errorf("points[%d].V = %f, want %f", i, points[i].V, want)
		}
	}
}

func TestLine_NoDateColumn(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"v"},
		Rows:    []table.Row{{"v": table.NewNumberCell(1)}},
	}
	types := map[string]analysis.ColumnType{"v": analysis.TypeNumber}

	if points := b.Line(tbl, types); points != nil {
		t.Errorf("expected nil, got %v", points)
	}
}

func TestBarTopK(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"cat"},
		Rows: []table.Row{
			{"cat": table.NewStringCell("a")},
			{"cat": table.NewStringCell("b")},
			{"cat": table.NewStringCell("b")},
			{"cat": table.NewStringCell("c")},
			{"cat": table.NewStringCell("c")},
			{"cat": table.NewStringCell("c")},
		},
	}

	slices := b.BarTopK(tbl, "cat", 2)
	if len(slices) != 2 {
		t.Fatalf("slices = %d, want 2", len(slices))
	}
	if slices[0].Label != "c" || slices[0].Count != 3 {
		t.Errorf("top slice = %+v, want c:3", slices[0])
	}
	if slices[1].Label != "b" || slices[1].Count != 2 {
		t.Errorf("second slice = %+v, want b:2", slices[1])
	}
}

func TestBarTopK_TieFirstSeen(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"cat"},
		Rows: []table.Row{
			{"cat": table.NewStringCell("z")},
			{"cat": table.NewStringCell("a")},
		},
	}

	slices := b.BarTopK(tbl, "cat", 2)
	if slices[0].Label != "z" {
		t.Errorf("tie must keep first-seen order, got %+v", slices)
	}
}

func TestScatter_SkipsIncompleteRows(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"x", "y"},
		Rows: []table.Row{
			{"x": table.NewNumberCell(1), "y": table.NewNumberCell(2)},
			{"x": table.NewNumberCell(3), "y": table.NewMissingCell()},
			{"x": table.NewStringCell("oops"), "y": table.NewNumberCell(4)},
		},
	}

	points := b.Scatter(tbl, "x", "y")
	if len(points) != 1 {
		t.Fatalf("points = %v, want one complete pair", points)
	}
	if points[0].X != 1 || points[0].Y != 2 {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestHistogram_SturgesBins(t *testing.T) {
	b := NewBuilder(0)
	rows := make([]table.Row, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, table.Row{"v": table.NewNumberCell(float64(i))})
	}
	tbl := table.Table{Columns: []string{"v"}, Rows: rows}

	h := b.HistogramFor(tbl, "v")
	if h == nil {
		t.Fatal("expected a histogram")
	}
	// ceil(log2 8) + 1 = 4
	if len(h.Counts) != 4 {
		t.Errorf("bins = %d, want 4", len(h.Counts))
	}
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != 8 {
		t.Errorf("counts sum = %d, want 8", total)
	}
}

func TestHistogram_FixedBins(t *testing.T) {
	b := NewBuilder(5)
	rows := make([]table.Row, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, table.Row{"v": table.NewNumberCell(float64(i))})
	}
	tbl := table.Table{Columns: []string{"v"}, Rows: rows}

	h := b.HistogramFor(tbl, "v")
	if len(h.Counts) != 5 {
		t.Errorf("bins = %d, want the configured 5", len(h.Counts))
	}
	if math.Abs(h.Width-19.8) > 1e-9 {
		t.Errorf("width = %f, want 19.8", h.Width)
	}
}

func TestHistogram_DegenerateRange(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"v"},
		Rows: []table.Row{
			{"v": table.NewNumberCell(7)},
			{"v": table.NewNumberCell(7)},
		},
	}

	h := b.HistogramFor(tbl, "v")
	if len(h.Counts) != 1 || h.Counts[0] != 2 {
		t.Errorf("histogram = %+v, want a single bin of 2", h)
	}
	if h.Centers[0] != 7 {
		t.Errorf("center = %f, want 7", h.Centers[0])
	}
}

func TestBox(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"v"},
		Rows: []table.Row{
			{"v": table.NewNumberCell(5)},
			{"v": table.NewNumberCell(1)},
			{"v": table.NewNumberCell(3)},
			{"v": table.NewNumberCell(2)},
			{"v": table.NewNumberCell(4)},
		},
	}

	box := b.Box(tbl, "v")
	if box == nil {
		t.Fatal("expected box stats")
	}
	if box.Min != 1 || box.Max != 5 || box.Median != 3 {
		t.Errorf("box = %+v", box)
	}
	if box.Q1 != 2 || box.Q3 != 4 {
		t.Errorf("quartiles = %f, %f, want 2 and 4", box.Q1, box.Q3)
	}
}

func TestBuildAll(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"when", "v", "cat"},
		Rows: []table.Row{
			{"when": table.NewDateCell(day(1)), "v": table.NewNumberCell(1), "cat": table.NewStringCell("a")},
			{"when": table.NewDateCell(day(2)), "v": table.NewNumberCell(2), "cat": table.NewStringCell("a")},
			{"when": table.NewDateCell(day(3)), "v": table.NewNumberCell(3), "cat": table.NewStringCell("b")},
		},
	}
	types := map[string]analysis.ColumnType{
		"when": analysis.TypeDate,
		"v":    analysis.TypeNumber,
		"cat":  analysis.TypeString,
	}

	bundle := b.BuildAll(tbl, types)
	if len(bundle.Line) != 3 {
		t.Errorf("line points = %d, want 3", len(bundle.Line))
	}
	if len(bundle.Bars["cat"]) != 2 {
		t.Errorf("bars[cat] = %v, want two slices", bundle.Bars["cat"])
	}
	if bundle.Histograms["v"] == nil || bundle.Boxes["v"] == nil {
		t.Error("numeric column must get a histogram and a box")
	}
	if bundle.Matrix == nil || len(bundle.Matrix.Columns) != 1 {
		t.Errorf("matrix = %+v, want single numeric column", bundle.Matrix)
	}
}

func TestMatrix(t *testing.T) {
	b := NewBuilder(0)
	tbl := table.Table{
		Columns: []string{"x", "y", "c"},
		Rows: []table.Row{
			{"x": table.NewNumberCell(1), "y": table.NewNumberCell(2), "c": table.NewNumberCell(5)},
			{"x": table.NewNumberCell(2), "y": table.NewNumberCell(4), "c": table.NewNumberCell(5)},
			{"x": table.NewNumberCell(3), "y": table.NewNumberCell(6), "c": table.NewNumberCell(5)},
		},
	}
	types := map[string]analysis.ColumnType{
		"x": analysis.TypeNumber,
		"y": analysis.TypeNumber,
		"c": analysis.TypeNumber,
	}

	m := b.Matrix(tbl, types)
	if m == nil || len(m.Columns) != 3 {
		t.Fatalf("matrix = %+v", m)
	}
	for i := range m.Columns {
		if !m.Cells[i][i].OK || m.Cells[i][i].R != 1 {
			t.Errorf("diagonal [%d][%d] = %+v, want r=1", i, i, m.Cells[i][i])
		}
	}
	if !m.Cells[0][1].OK || math.Abs(m.Cells[0][1].R-1) > 1e-9 {
		t.Errorf("x-y cell = %+v, want perfect correlation", m.Cells[0][1])
	}
	// Constant column has zero variance; the correlation is undefined.
	if m.Cells[0][2].OK {
		t.Errorf("x-c cell = %+v, want undefined", m.Cells[0][2])
	}
}
