package coercer

import (
	"datascope/domain/analysis"
	"datascope/domain/table"
)

// InferColumnType classifies a column by majority vote over its coerced
// cells, skipping missing values. Numeric-looking counts number cells
// plus strings matching the numeric pattern; date-looking counts date
// cells plus date-parseable strings; everything else counts as string.
// Equal counts resolve number > date > string. An entirely missing
// column is unknown.
func (c *Coercer) InferColumnType(cells []table.Cell) analysis.ColumnType {
	numeric, date, str := 0, 0, 0

	for _, cell := range cells {
		switch cell.Kind {
		case table.KindMissing:
			continue
		case table.KindNumber:
			numeric++
		case table.KindDate:
			date++
		case table.KindString:
			if numericPattern.MatchString(cell.Str) {
				numeric++
			} else if _, ok := parseDate(cell.Str); ok {
				date++
			} else {
				str++
			}
		}
	}

	if numeric == 0 && date == 0 && str == 0 {
		return analysis.TypeUnknown
	}
	// >= keeps the number > date > string priority on ties.
	if numeric >= date && numeric >= str {
		return analysis.TypeNumber
	}
	if date >= str {
		return analysis.TypeDate
	}
	return analysis.TypeString
}

// InferTypes classifies every column of a coerced table.
func (c *Coercer) InferTypes(tbl table.Table) map[string]analysis.ColumnType {
	types := make(map[string]analysis.ColumnType, len(tbl.Columns))
	for _, col := range tbl.Columns {
		types[col] = c.InferColumnType(tbl.Column(col))
	}
	return types
}
