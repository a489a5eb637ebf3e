package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"datascope/domain/table"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// RowHash is the canonical identity of one row's coerced contents.
type RowHash Hash

// String returns the string representation
func (h RowHash) String() string { return Hash(h).String() }

// ComputeRowHash serializes a row with stable field order (the table's
// column order) and hashes it. Rows with identical coerced contents get
// identical hashes regardless of source representation.
func ComputeRowHash(columns []string, row table.Row) RowHash {
	var data strings.Builder
	for _, col := range columns {
		cell := row.Cell(col)
		data.WriteString(col)
		data.WriteString("\x1f")
		data.WriteString(string(cell.Kind))
		data.WriteString("\x1f")
		data.WriteString(cell.Canonical())
		data.WriteString("\x1e")
	}
	return RowHash(NewHash([]byte(data.String())))
}
