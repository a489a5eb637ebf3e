package quality

import (
	"math"

	"datascope/domain/analysis"
	"datascope/domain/core"
	"datascope/domain/table"
)

// Checker runs dataset-level quality checks: duplicate rows and
// category imbalance.
type Checker struct{}

// New creates a quality checker
func New() *Checker {
	return &Checker{}
}

// Check runs all quality checks over a coerced table.
func (c *Checker) Check(tbl table.Table, types map[string]analysis.ColumnType) analysis.QualityReport {
	return analysis.QualityReport{
		DuplicateRows: c.CountDuplicates(tbl),
		Imbalance:     c.DetectImbalance(tbl, types),
	}
}

// CountDuplicates counts rows whose canonical key has been seen before.
// The first occurrence of a row is not a duplicate; each later
// identical row is.
func (c *Checker) CountDuplicates(tbl table.Table) int {
	seen := make(map[core.RowHash]struct{}, len(tbl.Rows))
	duplicates := 0
	for _, row := range tbl.Rows {
		key := core.ComputeRowHash(tbl.Columns, row)
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates
}

// DetectImbalance reports the dominant value of the first
// string-inferred column as a share of total rows (1 decimal).
// No string column means no result.
func (c *Checker) DetectImbalance(tbl table.Table, types map[string]analysis.ColumnType) *analysis.Imbalance {
	col := ""
	for _, name := range tbl.Columns {
		if types[name] == analysis.TypeString {
			col = name
			break
		}
	}
	if col == "" || tbl.RowCount() == 0 {
		return nil
	}

	// Insertion order decides ties deterministically.
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
	if len(order) == 0 {
		return nil
	}

	top := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[top] {
			top = key
		}
	}

	share := float64(counts[top]) / float64(tbl.RowCount()) * 100
	return &analysis.Imbalance{
		Column:      col,
		TopCategory: top,
		TopShare:    math.Round(share*10) / 10,
	}
}
