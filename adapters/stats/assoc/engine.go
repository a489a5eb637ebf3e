package assoc

import (
	"math"
	"sort"

	"datascope/domain/analysis"
	"datascope/domain/table"
)

// Config bounds the ranked outputs.
type Config struct {
	TopCorrelations int
	TopCategorical  int
	TopCatNumeric   int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TopCorrelations: 5,
		TopCategorical:  2,
		TopCatNumeric:   2,
	}
}

// Engine computes pairwise associations over a coerced table. Undefined
// results (insufficient data, zero variance) are silently excluded,
// never errors and never NaN entries in ranked output.
type Engine struct {
	config Config
}

// NewEngine creates an association engine
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// TopCorrelations enumerates all numeric column pairs, computes both
// Pearson and Spearman for each, and returns the k strongest finite
// results by absolute value. Ties keep enumeration order.
func (e *Engine) TopCorrelations(tbl table.Table, types map[string]analysis.ColumnType) []analysis.Correlation {
	numeric := columnsOfType(tbl.Columns, types, analysis.TypeNumber)

	results := make([]analysis.Correlation, 0)
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x := numericColumn(tbl, numeric[i])
			y := numericColumn(tbl, numeric[j])

			if r, ok := Pearson(x, y); ok {
				results = append(results, analysis.Correlation{
					A: numeric[i], B: numeric[j], R: r, Kind: analysis.KindPearson,
				})
			}
			if rho, ok := Spearman(x, y); ok {
				results = append(results, analysis.Correlation{
					A: numeric[i], B: numeric[j], R: rho, Kind: analysis.KindSpearman,
				})
			}
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return math.Abs(results[a].R) > math.Abs(results[b].R)
	})
	return truncCorrelations(results, e.config.TopCorrelations)
}

// TopCategorical ranks Cramér's V over all string column pairs.
func (e *Engine) TopCategorical(tbl table.Table, types map[string]analysis.ColumnType) []analysis.CategoricalAssociation {
	categorical := columnsOfType(tbl.Columns, types, analysis.TypeString)

	results := make([]analysis.CategoricalAssociation, 0)
	for i := 0; i < len(categorical); i++ {
		for j := i + 1; j < len(categorical); j++ {
			a := categoryColumn(tbl, categorical[i])
			b := categoryColumn(tbl, categorical[j])
			if res, ok := CramersV(a, b); ok {
				results = append(results, analysis.CategoricalAssociation{
					A: categorical[i], B: categorical[j], V: res.V, PValue: res.PValue,
				})
			}
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].V > results[b].V
	})
	if len(results) > e.config.TopCategorical {
		results = results[:e.config.TopCategorical]
	}
	return results
}

// TopCatNumeric ranks eta squared over all (string, number) column
// pairs.
func (e *Engine) TopCatNumeric(tbl table.Table, types map[string]analysis.ColumnType) []analysis.CatNumericAssociation {
	categorical := columnsOfType(tbl.Columns, types, analysis.TypeString)
	numeric := columnsOfType(tbl.Columns, types, analysis.TypeNumber)

	results := make([]analysis.CatNumericAssociation, 0)
	for _, cat := range categorical {
		for _, num := range numeric {
			groups, values := pairedGroupValues(tbl, cat, num)
			if eta2, ok := EtaSquared(groups, values); ok {
				results = append(results, analysis.CatNumericAssociation{
					Cat: cat, Num: num, Eta2: eta2,
				})
			}
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Eta2 > results[b].Eta2
	})
	if len(results) > e.config.TopCatNumeric {
		results = results[:e.config.TopCatNumeric]
	}
	return results
}

func truncCorrelations(results []analysis.Correlation, k int) []analysis.Correlation {
	if len(results) > k {
		return results[:k]
	}
	return results
}

func columnsOfType(columns []string, types map[string]analysis.ColumnType, want analysis.ColumnType) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if types[col] == want {
			out = append(out, col)
		}
	}
	return out
}

// numericColumn extracts finite numeric values in row order.
func numericColumn(tbl table.Table, col string) []float64 {
	values := make([]float64, 0, tbl.RowCount())
	for _, row := range tbl.Rows {
		cell := row.Cell(col)
		if cell.IsNumber() && !math.IsNaN(cell.Num) && !math.IsInf(cell.Num, 0) {
			values = append(values, cell.Num)
		}
	}
	return values
}

// categoryColumn extracts the canonical string of every row, mapping
// missing cells to the sentinel category.
func categoryColumn(tbl table.Table, col string) []string {
	values := make([]string, tbl.RowCount())
	for i, row := range tbl.Rows {
		cell := row.Cell(col)
		if cell.IsMissing() {
			values[i] = MissingCategory
		} else {
			values[i] = cell.Canonical()
		}
	}
	return values
}

// pairedGroupValues collects rows where the group is present and the
// value is a finite number.
func pairedGroupValues(tbl table.Table, cat, num string) ([]string, []float64) {
	groups := make([]string, 0, tbl.RowCount())
	values := make([]float64, 0, tbl.RowCount())
	for _, row := range tbl.Rows {
		g := row.Cell(cat)
		v := row.Cell(num)
		if g.IsMissing() || !v.IsNumber() || math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			continue
		}
		groups = append(groups, g.Canonical())
		values = append(values, v.Num)
	}
	return groups, values
}
