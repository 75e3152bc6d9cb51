// Package table models the two-dimensional data that a cleanser operates on, along with CSV loading and saving.
package table

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrRowLength is returned when a row does not have exactly one cell per column.
var ErrRowLength = errors.New("wrong number of cells in row")

// Cell is a single value in a Table. Only cells holding a string are considered for redaction; all other values
// (int64, float64, bool, nil, ...) are carried through unchanged.
type Cell = any

// Table is a rectangular grid of cells with named columns. Every row must have exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// New returns an empty table with the given column names.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table. It returns an error, and leaves the table unchanged, if the row has the wrong number
// of cells.
func (t *Table) Append(cells ...Cell) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("%w: row has %d cells, expected %d", ErrRowLength, len(cells), len(t.Columns))
	}
	row := make([]Cell, len(cells))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// Shape returns the number of rows and columns.
func (t *Table) Shape() (rows, cols int) {
	return len(t.Rows), len(t.Columns)
}

// At returns the cell at row i, column j.
func (t *Table) At(i, j int) Cell {
	return t.Rows[i][j]
}

// Validate returns an error if any row does not have one cell per column.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRowLength, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Clone returns a copy of the table that shares no slices with the original.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	copy(c.Columns, t.Columns)
	for i, row := range t.Rows {
		c.Rows[i] = make([]Cell, len(row))
		copy(c.Rows[i], row)
	}
	return c
}

// Equal reports whether both tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if len(t.Rows[i]) != len(o.Rows[i]) {
			return false
		}
		for j := range t.Rows[i] {
			if !reflect.DeepEqual(t.Rows[i][j], o.Rows[i][j]) {
				return false
			}
		}
	}
	return true
}
