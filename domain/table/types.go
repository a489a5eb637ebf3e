package table

import (
	"strconv"
	"time"
)

// CellKind is the closed set of types a coerced cell can hold.
type CellKind string

const (
	KindNumber  CellKind = "number"
	KindString  CellKind = "string"
	KindDate    CellKind = "date"
	KindMissing CellKind = "missing"
)

// Cell is a tagged value: exactly one of the typed fields is meaningful,
// selected by Kind. Downstream code switches over Kind instead of doing
// runtime type inspection.
type Cell struct {
	Kind CellKind  `json:"kind"`
	Num  float64   `json:"num,omitempty"`
	Str  string    `json:"str,omitempty"`
	Date time.Time `json:"date,omitempty"`
}

// NewNumberCell creates a numeric cell
func NewNumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, Num: n}
}

// NewStringCell creates a string cell
func NewStringCell(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// NewDateCell creates a date cell
func NewDateCell(t time.Time) Cell {
	return Cell{Kind: KindDate, Date: t}
}

// NewMissingCell creates a missing cell
func NewMissingCell() Cell {
	return Cell{Kind: KindMissing}
}

// IsMissing returns true when the cell holds no value
func (c Cell) IsMissing() bool {
	return c.Kind == KindMissing
}

// IsNumber returns true for numeric cells
func (c Cell) IsNumber() bool {
	return c.Kind == KindNumber
}

// IsDate returns true for date cells
func (c Cell) IsDate() bool {
	return c.Kind == KindDate
}

// IsString returns true for string cells
func (c Cell) IsString() bool {
	return c.Kind == KindString
}

// Canonical returns a stable string key for the cell, used for distinct
// counting and duplicate-row hashing. Numerically equal values of
// different source representations map to the same key.
func (c Cell) Canonical() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindDate:
		return c.Date.UTC().Format(time.RFC3339)
	case KindString:
		return c.Str
	default:
		return ""
	}
}

// Row maps column names to coerced cells. A column absent from the map
// is treated as missing.
type Row map[string]Cell

// Cell returns the cell for a column, or a missing cell when absent.
func (r Row) Cell(col string) Cell {
	if c, ok := r[col]; ok {
		return c
	}
	return NewMissingCell()
}

// Table is a fully coerced, in-memory dataset: ordered unique column
// names plus rows keyed by column name. Analyses never mutate it.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// RowCount returns the number of rows
func (t Table) RowCount() int {
	return len(t.Rows)
}

// Column returns all cells of one column in row order.
func (t Table) Column(name string) []Cell {
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row.Cell(name)
	}
	return cells
}

// Source is the raw shape ingestion adapters deliver: ordered unique
// column names (first-seen order) plus uncoerced rows. Values may be
// numbers, strings, dates, or nil.
type Source struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
