package table

import (
	"math"
	"strconv"
	"strings"
)

// Cell is a single priority cell. Valid is false for empty cells and for
// anything that does not parse as a finite real number.
type Cell struct {
	Value float64
	Valid bool
}

// Missing is the zero Cell, i.e. an unranked pair.
var Missing = Cell{}

// Number returns a valid cell holding v.
func Number(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// ParseCell judges a raw text value. It never fails: anything that is not a
// finite real number becomes Missing.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}

	return Number(v)
}

// RawTable is a row/column labeled table of priorities as delivered by the
// reader. Rows are usually topics and columns students.
//
// A well-formed table has unique labels on each axis and exactly
// len(ColLabels) cells in every row; Validate checks this.
type RawTable struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]Cell
}

// Rows returns the number of rows.
func (t *RawTable) Rows() int { return len(t.RowLabels) }

// Cols returns the number of columns.
func (t *RawTable) Cols() int { return len(t.ColLabels) }

// Transpose returns a new table with rows and columns swapped.
func (t *RawTable) Transpose() *RawTable {
	out := &RawTable{
		RowLabels: append([]string(nil), t.ColLabels...),
		ColLabels: append([]string(nil), t.RowLabels...),
		Cells:     make([][]Cell, len(t.ColLabels)),
	}

	for j := range t.ColLabels {
		row := make([]Cell, len(t.RowLabels))
		for i := range t.RowLabels {
			if j < len(t.Cells[i]) {
				row[i] = t.Cells[i][j]
			}
		}

		out.Cells[j] = row
	}

	return out
}

// NumericCount returns how many cells hold a valid number.
func (t *RawTable) NumericCount() int {
	n := 0

	for _, row := range t.Cells {
		for _, c := range row {
			if c.Valid {
				n++
			}
		}
	}

	return n
}
