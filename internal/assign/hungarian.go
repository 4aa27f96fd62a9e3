package assign

import (
	"context"
	"fmt"
	"math"
)

// Solve computes a minimum-total-cost one-to-one assignment between the rows
// and columns of c. The result has min(Rows, Cols) pairs ordered by row.
// An empty matrix yields an empty assignment and no error.
func Solve(c Costs) (Assignment, error) {
	return SolveContext(context.Background(), c)
}

// SolveContext is Solve with cancellation. The context is checked once per
// outer iteration, i.e. before each row is inserted into the matching.
//
// The solver is the O(n³) primal-dual Hungarian method with row/column
// potentials and shortest augmenting paths, where n = max(Rows, Cols). A
// rectangular matrix is padded to n×n with zero-cost dummy cells; pairs that
// touch a dummy row or column are dropped from the result.
//
// Ties between equally optimal assignments are broken deterministically:
// rows enter the matching in ascending index order and, when several columns
// share the smallest reduced cost, the lowest column index is taken.
func SolveContext(ctx context.Context, c Costs) (Assignment, error) {
	rows, cols, err := validate(c)
	if err != nil {
		return nil, err
	}

	if rows == 0 || cols == 0 {
		return Assignment{}, nil
	}

	n := max(rows, cols)

	a := make([]float64, n*n)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a[i*n+j] = c.At(i, j)
		}
	}

	// 1-indexed; index 0 is the virtual column that roots each search.
	var (
		u    = make([]float64, n+1) // row potentials
		v    = make([]float64, n+1) // column potentials
		p    = make([]int, n+1)     // p[j]: row matched to column j, 0 if free
		way  = make([]int, n+1)     // way[j]: previous column on the alternating path
		minv = make([]float64, n+1) // smallest reduced cost seen per column
		used = make([]bool, n+1)
		inf  = math.Inf(1)
	)

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p[0] = i
		j0 := 0

		for j := range minv {
			minv[j] = inf
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta, j1 := inf, 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}

				cur := a[(i0-1)*n+j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}

				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			if j1 == 0 {
				return nil, fmt.Errorf("%w: reduced costs overflowed while inserting row %d", ErrInvalidMatrix, i-1)
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			prev := way[j0]
			p[j0] = p[prev]
			j0 = prev
		}
	}

	colOf := make([]int, rows)
	for i := range colOf {
		colOf[i] = -1
	}

	for j := 1; j <= cols; j++ {
		if i := p[j]; i >= 1 && i <= rows {
			colOf[i-1] = j - 1
		}
	}

	out := make(Assignment, 0, min(rows, cols))
	for i, j := range colOf {
		if j >= 0 {
			out = append(out, Pair{Row: i, Col: j, Cost: c.At(i, j)})
		}
	}

	return out, nil
}

// validate checks the precondition independently of whoever built the
// matrix: every cell must be finite and a Dense matrix must be rectangular.
func validate(c Costs) (rows, cols int, err error) {
	if c == nil {
		return 0, 0, fmt.Errorf("%w: nil matrix", ErrInvalidMatrix)
	}

	rows, cols = c.Rows(), c.Cols()

	if d, ok := c.(Dense); ok {
		for i, row := range d {
			if len(row) != cols {
				return 0, 0, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidMatrix, i, len(row), cols)
			}
		}
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := c.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, fmt.Errorf("%w: cell (%d,%d) is %v", ErrInvalidMatrix, i, j, v)
			}
		}
	}

	return rows, cols, nil
}
