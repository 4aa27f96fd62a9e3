package assign

import (
	"errors"
	"math"
)

// ErrInvalidMatrix is returned when a cost matrix contains a NaN or infinite
// cell, or when a Dense matrix is ragged.
var ErrInvalidMatrix = errors.New("assign: invalid cost matrix")

// Costs is the read-only view of a cost matrix the solver works on.
// *matrix.CostMatrix satisfies it.
type Costs interface {
	Rows() int
	Cols() int
	At(i, j int) float64
}

// Dense adapts a plain [][]float64 to Costs. The column count is taken from
// the first row; Solve rejects ragged input.
type Dense [][]float64

// Rows implements Costs.
func (d Dense) Rows() int { return len(d) }

// Cols implements Costs.
func (d Dense) Cols() int {
	if len(d) == 0 {
		return 0
	}

	return len(d[0])
}

// At implements Costs.
func (d Dense) At(i, j int) float64 { return d[i][j] }

// Pair is one matched (row, column) with the cost of that cell.
type Pair struct {
	Row  int
	Col  int
	Cost float64
}

// Assignment is the list of matched pairs ordered by row index. Every row
// and column index appears at most once.
type Assignment []Pair

// Total returns the summed cost of all pairs.
func (a Assignment) Total() float64 {
	var sum float64
	for _, p := range a {
		sum += p.Cost
	}

	return sum
}

// ColOf returns the column matched to row i, or -1.
func (a Assignment) ColOf(i int) int {
	for _, p := range a {
		if p.Row == i {
			return p.Col
		}
	}

	return -1
}

// RowOf returns the row matched to column j, or -1.
func (a Assignment) RowOf(j int) int {
	for _, p := range a {
		if p.Col == j {
			return p.Row
		}
	}

	return -1
}

// MeanCost returns the arithmetic mean of the assigned costs. ok is false for
// an empty assignment, whose mean is undefined.
func MeanCost(a Assignment) (mean float64, ok bool) {
	if len(a) == 0 {
		return math.NaN(), false
	}

	return a.Total() / float64(len(a)), true
}
