package profiler

import (
	"math"
	"sort"
	"testing"

	"datascope/domain/analysis"
	"datascope/domain/table"
)

func numberCells(values ...float64) []table.Cell {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.NewNumberCell(v)
	}
	return cells
}

func TestQuantile_MatchesDirectMedian(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3, 4, 5},       // odd
		{1, 2, 3, 4},          // even
		{7},                   // singleton
		{2, 2, 9, 14, 20, 30}, // even, uneven spacing
	}

	for _, values := range cases {
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)

		var direct float64
		m := len(sorted)
		if m%2 == 1 {
			direct = sorted[m/2]
		} else {
			direct = (sorted[m/2-1] + sorted[m/2]) / 2
		}

		if got := Quantile(sorted, 0.5); math.Abs(got-direct) > 1e-12 {
			t.Errorf("Quantile(%v, 0.5) = %f, direct median = %f", values, got, direct)
		}
	}
}

func TestQuantile_Interpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	// pos = 3*0.25 = 0.75 -> 1 + 0.75*(2-1)
	if got := Quantile(sorted, 0.25); math.Abs(got-1.75) > 1e-12 {
		t.Errorf("q1 = %f, want 1.75", got)
	}
	if got := Quantile(sorted, 1); got != 4 {
		t.Errorf("q=1 must return the last element, got %f", got)
	}
}

func TestProfileColumn_MissingPctAndDistinct(t *testing.T) {
	p := New()
	cells := []table.Cell{
		table.NewNumberCell(1),
		table.NewNumberCell(1),
		table.NewMissingCell(),
		table.NewNumberCell(2),
	}

	profile := p.ProfileColumn("x", cells, analysis.TypeNumber, 4)
	if profile.MissingPct != 25 {
		t.Errorf("missingPct = %f, want 25", profile.MissingPct)
	}
	if profile.Distinct != 2 {
		t.Errorf("distinct = %d, want 2", profile.Distinct)
	}
}

func TestProfileColumn_DistinctDeduplicatesRepresentations(t *testing.T) {
	p := New()
	// "1.0" does not match the integer/decimal coercion outcome of 1
	// textually, but both canonicalize through the numeric value.
	cells := []table.Cell{
		table.NewNumberCell(1),
		table.NewNumberCell(1.0),
		table.NewStringCell("one"),
	}

	profile := p.ProfileColumn("x", cells, analysis.TypeNumber, 3)
	if profile.Distinct != 2 {
		t.Errorf("distinct = %d, want 2", profile.Distinct)
	}
}

func TestNumericSummary_OutlierFences(t *testing.T) {
	p := New()
	profile := p.ProfileColumn("x", numberCells(1, 2, 3, 4, 5, 100), analysis.TypeNumber, 6)

	if profile.Numeric == nil {
		t.Fatal("numeric summary expected")
	}
	if profile.Numeric.OutliersIQR != 1 {
		t.Errorf("outliersIqr = %d, want 1 (the value 100)", profile.Numeric.OutliersIQR)
	}
}

func TestNumericSummary_ZeroStdev(t *testing.T) {
	p := New()
	profile := p.ProfileColumn("x", numberCells(5, 5, 5, 5), analysis.TypeNumber, 4)

	n := profile.Numeric
	if n == nil {
		t.Fatal("numeric summary expected")
	}
	if n.StdDev != 0 {
		t.Errorf("stdev = %f, want 0", n.StdDev)
	}
	if n.OutliersZ != 0 {
		t.Errorf("outliersZ = %d, want 0 when stdev is 0", n.OutliersZ)
	}
}

func TestNumericSummary_SampleStdev(t *testing.T) {
	p := New()
	profile := p.ProfileColumn("x", numberCells(2, 4, 4, 4, 5, 5, 7, 9), analysis.TypeNumber, 8)

	// Sample variance of this well-known series is 32/7.
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(profile.Numeric.StdDev-want) > 1e-9 {
		t.Errorf("stdev = %f, want %f", profile.Numeric.StdDev, want)
	}
}

func TestNumericSummary_EmptyNumericColumn(t *testing.T) {
	p := New()
	// Inferred numeric but nothing parses: all-zero summary, not nil.
	profile := p.ProfileColumn("x", []table.Cell{table.NewMissingCell()}, analysis.TypeNumber, 1)

	if profile.Numeric == nil {
		t.Fatal("numeric summary must be present for numeric columns")
	}
	if *profile.Numeric != (analysis.NumericSummary{}) {
		t.Errorf("expected all-zero summary, got %+v", *profile.Numeric)
	}
}

func TestProfileTable_MissingRecount(t *testing.T) {
	p := New()
	tbl := table.Table{
		Columns: []string{"a", "b"},
		Rows: []table.Row{
			{"a": table.NewNumberCell(1), "b": table.NewMissingCell()},
			{"a": table.NewMissingCell(), "b": table.NewMissingCell()},
			{"a": table.NewNumberCell(3), "b": table.NewStringCell("x")},
			{"a": table.NewNumberCell(4), "b": table.NewStringCell("y")},
		},
	}
	types := map[string]analysis.ColumnType{"a": analysis.TypeNumber, "b": analysis.TypeString}

	profiles := p.ProfileTable(tbl, types)

	// Direct recount of null cells per column.
	for _, profile := range profiles {
		missing := 0
		for _, row := range tbl.Rows {
			if row.Cell(profile.Name).IsMissing() {
				missing++
			}
		}
		want := math.Round(float64(missing) / 4 * 100)
		if profile.MissingPct != want {
			t.Errorf("column %s: missingPct = %f, recount says %f", profile.Name, profile.MissingPct, want)
		}
	}
}
