package allocate

import (
	"fmt"

	"topic-allocator/internal/assign"
	"topic-allocator/internal/diagnostic"
	"topic-allocator/internal/matrix"
)

// Pair is one allocated (row label, column label) with its priority.
type Pair struct {
	Row    string  `json:"row" yaml:"row"`
	Column string  `json:"column" yaml:"column"`
	Cost   float64 `json:"cost" yaml:"cost"`
}

// Stats summarizes the priorities of an allocation. It is always derived
// from pairs and never stored on its own.
type Stats struct {
	Count int     `json:"count" yaml:"count"`
	Total float64 `json:"total" yaml:"total"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// HasMean reports whether Mean is defined (at least one pair).
func (s Stats) HasMean() bool { return s.Count > 0 }

// StatsOf computes summary statistics for pairs. For no pairs every field
// is zero and HasMean is false.
func StatsOf(pairs []Pair) Stats {
	if len(pairs) == 0 {
		return Stats{}
	}

	s := Stats{Count: len(pairs), Min: pairs[0].Cost, Max: pairs[0].Cost}
	for _, p := range pairs {
		s.Total += p.Cost
		s.Min = min(s.Min, p.Cost)
		s.Max = max(s.Max, p.Cost)
	}

	s.Mean = s.Total / float64(s.Count)

	return s
}

// Result is the outcome of one allocation request.
type Result struct {
	// Source names the input, usually a file path.
	Source string `json:"source" yaml:"source"`
	// Rows and Cols are the dimensions of the cost matrix.
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
	// Pairs are ordered by row index of the input.
	Pairs []Pair `json:"pairs" yaml:"pairs"`
	Stats Stats  `json:"stats" yaml:"stats"`
	// UnassignedRows and UnassignedCols list labels left without a partner
	// because the table was not square.
	UnassignedRows []string `json:"unassigned_rows,omitempty" yaml:"unassigned_rows,omitempty"`
	UnassignedCols []string `json:"unassigned_cols,omitempty" yaml:"unassigned_cols,omitempty"`
	// Fill is the priority given to unranked pairs; Filled counts them.
	Fill   float64 `json:"fill" yaml:"fill"`
	Filled int     `json:"filled" yaml:"filled"`

	Diagnostics diagnostic.Diagnostics `json:"-" yaml:"-"`
}

// NewResult maps an index assignment back through the labels of m.
func NewResult(source string, m *matrix.CostMatrix, asg assign.Assignment) *Result {
	res := &Result{
		Source: source,
		Rows:   m.Rows(),
		Cols:   m.Cols(),
		Pairs:  make([]Pair, 0, len(asg)),
		Fill:   m.Fill(),
		Filled: m.Filled(),
	}

	rowUsed := make([]bool, m.Rows())
	colUsed := make([]bool, m.Cols())

	for _, p := range asg {
		res.Pairs = append(res.Pairs, Pair{
			Row:    m.RowLabel(p.Row),
			Column: m.ColLabel(p.Col),
			Cost:   p.Cost,
		})
		rowUsed[p.Row] = true
		colUsed[p.Col] = true
	}

	res.Stats = StatsOf(res.Pairs)

	if m.Filled() > 0 {
		res.Diagnostics.AddWarning(diagnostic.CodeMissingCells,
			fmt.Sprintf("%d unranked pairs were given priority %g", m.Filled(), m.Fill()),
			source, "")
	}

	for i, used := range rowUsed {
		if !used {
			res.UnassignedRows = append(res.UnassignedRows, m.RowLabel(i))
			res.Diagnostics.AddInfo(diagnostic.CodeUnassignedRow,
				fmt.Sprintf("%q has no partner", m.RowLabel(i)), source, fmt.Sprintf("row %d", i+1))
		}
	}

	for j, used := range colUsed {
		if !used {
			res.UnassignedCols = append(res.UnassignedCols, m.ColLabel(j))
			res.Diagnostics.AddInfo(diagnostic.CodeUnassignedColumn,
				fmt.Sprintf("%q has no partner", m.ColLabel(j)), source, fmt.Sprintf("column %d", j+1))
		}
	}

	return res
}
