package matrix

import (
	"fmt"
	"math"

	"topic-allocator/internal/table"
)

// Normalize converts a raw priority table into a cost matrix.
//
// Numeric cells are copied as-is. Missing cells all receive the same fill
// priority, one more than the largest numeric cell anywhere in the table, so
// an unranked pair is always worse than every ranked one. Row and column order
// is preserved.
//
// The table is assumed to be well-formed (see table.Validate); a ragged table
// yields ErrShape. A table with cells but no numeric cell yields
// ErrNoNumericData. A table without rows or columns normalizes to an empty
// matrix.
//
// For very large priorities, where adding one does not change the value, the
// fill is the next representable number above the maximum. A table whose
// maximum is math.MaxFloat64 and that has missing cells yields ErrNonFinite.
func Normalize(t *table.RawTable) (*CostMatrix, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrShape)
	}

	if len(t.Cells) != len(t.RowLabels) {
		return nil, fmt.Errorf("%w: %d cell rows for %d row labels", ErrShape, len(t.Cells), len(t.RowLabels))
	}

	m := newEmpty(t.RowLabels, t.ColLabels)
	if m.Rows() == 0 || m.Cols() == 0 {
		return m, nil
	}

	highest, found := math.Inf(-1), false

	for i, row := range t.Cells {
		if len(row) != m.Cols() {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrShape, i, len(row), m.Cols())
		}

		for _, c := range row {
			if numeric(c) && c.Value > highest {
				highest, found = c.Value, true
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("%w: %d×%d table has no numeric cell", ErrNoNumericData, m.Rows(), m.Cols())
	}

	m.fill = highest + 1
	if m.fill <= highest {
		// Beyond 2^53 adding one is lost to rounding.
		m.fill = math.Nextafter(highest, math.Inf(1))
	}

	if math.IsInf(m.fill, 0) {
		return nil, fmt.Errorf("%w: no finite priority above %g", ErrNonFinite, highest)
	}

	for i, row := range t.Cells {
		for j, c := range row {
			v := c.Value
			if !numeric(c) {
				v = m.fill
				m.filled++
			}

			m.values[i*m.Cols()+j] = v
		}
	}

	return m, nil
}

// numeric also guards against hand-built cells marked valid with a NaN or
// infinite value, which would break the finite-matrix invariant.
func numeric(c table.Cell) bool {
	return c.Valid && !math.IsNaN(c.Value) && !math.IsInf(c.Value, 0)
}
