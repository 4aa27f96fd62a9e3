package diagnostic

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Severity -linecomment -output=severity_string.go

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityInfo    Severity = iota // info
	SeverityWarning                 // warning
	SeverityError                   // error
)

// Codes shared across packages.
const (
	CodeNilTable             = "nil_table"
	CodeDuplicateRowLabel    = "duplicate_row_label"
	CodeDuplicateColumnLabel = "duplicate_column_label"
	CodeEmptyLabel           = "empty_label"
	CodeSimilarLabels        = "similar_labels"
	CodeRaggedRow            = "ragged_row"
	CodeEmptyTable           = "empty_table"
	CodeMissingCells         = "missing_cells"
	CodeUnassignedRow        = "unassigned_row"
	CodeUnassignedColumn     = "unassigned_column"
)

// Diagnostic is one finding about an input table.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	// Source names the input, usually a file path.
	Source string
	// Location points into the input, e.g. "row 3" or "column 2".
	Location string
}

// String formats d as "source: location: [code] message", leaving out
// empty parts.
func (d Diagnostic) String() string {
	var b strings.Builder

	for _, part := range []string{d.Source, d.Location} {
		if part != "" {
			b.WriteString(part)
			b.WriteString(": ")
		}
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	return b.String()
}

// Diagnostics collects findings grouped by severity. The zero value is
// ready to use.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) add(sev Severity, code, message, source, location string) {
	diag := Diagnostic{Severity: sev, Code: code, Message: message, Source: source, Location: location}

	switch sev {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError records a finding that makes the input unusable.
func (d *Diagnostics) AddError(code, message, source, location string) {
	d.add(SeverityError, code, message, source, location)
}

// AddWarning records a finding the allocation worked around.
func (d *Diagnostics) AddWarning(code, message, source, location string) {
	d.add(SeverityWarning, code, message, source, location)
}

// AddInfo records a note about the outcome.
func (d *Diagnostics) AddInfo(code, message, source, location string) {
	d.add(SeverityInfo, code, message, source, location)
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }

// IsValid is the negation of HasErrors.
func (d *Diagnostics) IsValid() bool { return !d.HasErrors() }

// Merge appends every finding of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns every finding, errors first.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Summary counts findings per severity, e.g. "1 error, 2 warnings".
// Severities without findings are left out; no findings gives "clean".
func (d *Diagnostics) Summary() string {
	var parts []string

	for _, c := range []struct {
		n    int
		name string
	}{
		{len(d.Errors), SeverityError.String()},
		{len(d.Warnings), SeverityWarning.String()},
		{len(d.Infos), SeverityInfo.String()},
	} {
		switch {
		case c.n == 1:
			parts = append(parts, "1 "+c.name)
		case c.n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", c.n, c.name))
		}
	}

	if len(parts) == 0 {
		return "clean"
	}

	return strings.Join(parts, ", ")
}

// Err returns the recorded errors as an *Error, or nil when there are none.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	return &Error{Diagnostics: append([]Diagnostic(nil), d.Errors...)}
}

// Error carries the error diagnostics of a rejected input. Use errors.As
// to reach the individual findings.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}

	return strings.Join(msgs, "; ")
}
