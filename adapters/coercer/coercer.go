package coercer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"datascope/domain/table"
)

// numericPattern accepts plain integers and decimals, optionally signed.
// Thousands separators and currency symbols deliberately do not match:
// such strings fall through to date parsing and finally stay strings.
var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// dateFormats are tried in order during coercion and date sniffing.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// Coercer normalizes raw cell values into tagged cells and infers
// column types over the normalized result. It never fails: anything
// unrecognized stays a string.
type Coercer struct{}

// New creates a coercer
func New() *Coercer {
	return &Coercer{}
}

// CoerceValue converts one raw value into a tagged cell. Rules, in
// order: nil/empty string -> missing; finite number -> number; string
// matching the numeric pattern -> parsed number; date-parseable string
// -> date; anything else -> the original string.
func (c *Coercer) CoerceValue(raw any) table.Cell {
	if raw == nil {
		return table.NewMissingCell()
	}

	switch v := raw.(type) {
	case float64:
		return numberOrMissing(v)
	case float32:
		return numberOrMissing(float64(v))
	case int:
		return table.NewNumberCell(float64(v))
	case int32:
		return table.NewNumberCell(float64(v))
	case int64:
		return table.NewNumberCell(float64(v))
	case time.Time:
		if v.IsZero() {
			return table.NewMissingCell()
		}
		return table.NewDateCell(v)
	case string:
		return c.coerceString(v)
	default:
		// Booleans and anything exotic keep their printed form.
		return c.coerceString(fmt.Sprintf("%v", v))
	}
}

func (c *Coercer) coerceString(s string) table.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return table.NewMissingCell()
	}

	if numericPattern.MatchString(trimmed) {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return table.NewNumberCell(n)
		}
	}

	if t, ok := parseDate(trimmed); ok {
		return table.NewDateCell(t)
	}

	return table.NewStringCell(s)
}

// CoerceTable normalizes a raw source into a coerced table. Columns
// keep their given order; the input is never mutated.
func (c *Coercer) CoerceTable(src table.Source) table.Table {
	rows := make([]table.Row, len(src.Rows))
	for i, raw := range src.Rows {
		row := make(table.Row, len(src.Columns))
		for _, col := range src.Columns {
			if v, ok := raw[col]; ok {
				row[col] = c.CoerceValue(v)
			} else {
				row[col] = table.NewMissingCell()
			}
		}
		rows[i] = row
	}
	return table.Table{Columns: append([]string(nil), src.Columns...), Rows: rows}
}

func numberOrMissing(v float64) table.Cell {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return table.NewMissingCell()
	}
	return table.NewNumberCell(v)
}

func parseDate(s string) (time.Time, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
