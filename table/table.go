// Package table holds the grid model the pipeline reshapes between steps and
// the deterministic operations applied to it: markdown parsing and
// rendering, column selection and splitting, concatenation, fuzzy header
// matching and the row normalization battery.
//
// Operations never retry. They fail with ErrColumnNotFound or
// ErrShapeMismatch on malformed input.
package table

import (
	"errors"
	"fmt"
	"slices"
)

// Missing is the canonical token for an absent value.
const Missing = "N/A"

var (
	// ErrColumnNotFound indicates a referenced column does not exist.
	ErrColumnNotFound = errors.New("table: column not found")

	// ErrShapeMismatch indicates tables that cannot be combined.
	ErrShapeMismatch = errors.New("table: shape mismatch")

	// ErrEmpty indicates a table with no header.
	ErrEmpty = errors.New("table: empty table")
)

// Table is a header row plus data rows. Every row has len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New creates a table, padding short rows with Missing and truncating long
// ones so the result is rectangular.
func New(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: slices.Clone(columns),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, fit(r, len(columns)))
	}
	return t
}

func fit(row []string, width int) []string {
	out := make([]string, width)
	for i := range out {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = Missing
		}
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return New(t.Columns, t.Rows)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Index returns the position of the first column named col, or -1.
func (t *Table) Index(col string) int {
	return slices.Index(t.Columns, col)
}

// Column returns the cells of the named column.
func (t *Table) Column(col string) ([]string, error) {
	i := t.Index(col)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Row returns a copy of row r.
func (t *Table) Row(r int) []string {
	return slices.Clone(t.Rows[r])
}

// AddColumn appends a column. values must have one cell per row.
func (t *Table) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("%w: column %q has %d values for %d rows", ErrShapeMismatch, name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}
