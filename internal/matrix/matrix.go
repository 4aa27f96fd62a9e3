package matrix

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoNumericData is returned when a table has cells but none of them is
	// numeric, so no fill priority can be derived.
	ErrNoNumericData = errors.New("matrix: no numeric data")

	// ErrShape is returned when labels and values disagree on dimensions.
	ErrShape = errors.New("matrix: inconsistent shape")

	// ErrNonFinite is returned by New for NaN or infinite values.
	ErrNonFinite = errors.New("matrix: non-finite value")
)

// CostMatrix is a dense, immutable R×C matrix of finite costs with the row
// and column labels it was built from. Cell (i, j) is the cost of pairing
// row label i with column label j.
type CostMatrix struct {
	rowLabels []string
	colLabels []string
	values    []float64 // row-major

	fill   float64
	filled int
}

// New builds a CostMatrix from dense values. Values and labels are copied.
func New(rowLabels, colLabels []string, values [][]float64) (*CostMatrix, error) {
	if len(values) != len(rowLabels) {
		return nil, fmt.Errorf("%w: %d value rows for %d row labels", ErrShape, len(values), len(rowLabels))
	}

	m := newEmpty(rowLabels, colLabels)

	for i, row := range values {
		if len(row) != len(colLabels) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrShape, i, len(row), len(colLabels))
		}

		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: cell (%d,%d) is %v", ErrNonFinite, i, j, v)
			}

			m.values[i*len(colLabels)+j] = v
		}
	}

	return m, nil
}

func newEmpty(rowLabels, colLabels []string) *CostMatrix {
	return &CostMatrix{
		rowLabels: append([]string(nil), rowLabels...),
		colLabels: append([]string(nil), colLabels...),
		values:    make([]float64, len(rowLabels)*len(colLabels)),
	}
}

// Rows returns the number of rows.
func (m *CostMatrix) Rows() int { return len(m.rowLabels) }

// Cols returns the number of columns.
func (m *CostMatrix) Cols() int { return len(m.colLabels) }

// At returns the cost of cell (i, j).
func (m *CostMatrix) At(i, j int) float64 {
	return m.values[i*len(m.colLabels)+j]
}

// RowLabel returns the label of row i.
func (m *CostMatrix) RowLabel(i int) string { return m.rowLabels[i] }

// ColLabel returns the label of column j.
func (m *CostMatrix) ColLabel(j int) string { return m.colLabels[j] }

// RowLabels returns a copy of the row labels.
func (m *CostMatrix) RowLabels() []string { return append([]string(nil), m.rowLabels...) }

// ColLabels returns a copy of the column labels.
func (m *CostMatrix) ColLabels() []string { return append([]string(nil), m.colLabels...) }

// Fill returns the fill priority derived during normalization (largest
// numeric cell plus one). Matrices built with New, and empty ones, report 0.
func (m *CostMatrix) Fill() float64 { return m.fill }

// Filled returns how many cells were replaced with Fill.
func (m *CostMatrix) Filled() int { return m.filled }

// Values returns a copy of the matrix as rows of costs.
func (m *CostMatrix) Values() [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = append([]float64(nil), m.values[i*m.Cols():(i+1)*m.Cols()]...)
	}

	return out
}
