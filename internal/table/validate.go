package table

import (
	"fmt"

	"topic-allocator/internal/diagnostic"
	"topic-allocator/internal/match"
)

// similarLabelDistance is the edit distance under which two labels of one
// axis are reported as a probable typo.
const similarLabelDistance = 1

// Validate checks the structural preconditions the normalizer relies on:
// unique non-empty labels per axis and one cell per column in every row.
// source is only used to annotate diagnostics.
func Validate(t *RawTable, source string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if t == nil {
		res.AddError(diagnostic.CodeNilTable, "table is nil", source, "")
		return res
	}

	checkLabels(res, t.RowLabels, "row", diagnostic.CodeDuplicateRowLabel, source)
	checkLabels(res, t.ColLabels, "column", diagnostic.CodeDuplicateColumnLabel, source)

	if len(t.Cells) != len(t.RowLabels) {
		res.AddError(diagnostic.CodeRaggedRow,
			fmt.Sprintf("%d rows of cells for %d row labels", len(t.Cells), len(t.RowLabels)),
			source, "")
	}

	for i, row := range t.Cells {
		if len(row) != len(t.ColLabels) {
			res.AddError(diagnostic.CodeRaggedRow,
				fmt.Sprintf("row has %d cells, expected %d", len(row), len(t.ColLabels)),
				source, fmt.Sprintf("row %d", i+1))
		}
	}

	if len(t.RowLabels) == 0 || len(t.ColLabels) == 0 {
		res.AddWarning(diagnostic.CodeEmptyTable,
			fmt.Sprintf("table has %d rows and %d columns", len(t.RowLabels), len(t.ColLabels)),
			source, "")
	}

	return res
}

func checkLabels(res *diagnostic.Diagnostics, labels []string, axis, dupCode, source string) {
	seen := make(map[string]int, len(labels))

	for i, label := range labels {
		loc := fmt.Sprintf("%s %d", axis, i+1)
		if label == "" {
			res.AddError(diagnostic.CodeEmptyLabel, fmt.Sprintf("empty %s label", axis), source, loc)
			continue
		}

		if first, ok := seen[label]; ok {
			res.AddError(dupCode,
				fmt.Sprintf("duplicate %s label %q (first seen at %s %d)", axis, label, axis, first+1),
				source, loc)

			continue
		}

		seen[label] = i
	}

	for _, n := range match.NearDuplicates(labels, similarLabelDistance) {
		res.AddWarning(diagnostic.CodeSimilarLabels,
			fmt.Sprintf("%s labels %q and %q look like the same entry", axis, labels[n.I], labels[n.J]),
			source, fmt.Sprintf("%s %d", axis, n.J+1))
	}
}
