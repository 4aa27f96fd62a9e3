package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"topic-allocator/internal/allocate"
)

// Options controls rendering.
type Options struct {
	Format Format
	// Precision is the number of decimals for the mean line of text output.
	Precision int
	// Headers name the row label, column label and cost columns.
	Headers [3]string
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Format:    FormatText,
		Precision: 2,
		Headers:   [3]string{"Topic", "Student", "Priority"},
	}
}

// Transposed returns a copy of o with the label headers swapped, for tables
// read with rows and columns exchanged.
func (o Options) Transposed() Options {
	o.Headers[0], o.Headers[1] = o.Headers[1], o.Headers[0]
	return o
}

// Render writes res to w in the requested format.
func Render(w io.Writer, res *allocate.Result, opts Options) error {
	if res.Pairs == nil && (opts.Format == FormatJSON || opts.Format == FormatYAML) {
		cp := *res
		cp.Pairs = []allocate.Pair{}
		res = &cp
	}

	switch opts.Format {
	case FormatText:
		return renderText(w, res, opts)
	case FormatCSV:
		return renderCSV(w, res, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(res); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, opts.Format)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderText(w io.Writer, res *allocate.Result, opts Options) error {
	rows := make([][]string, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		rows = append(rows, []string{p.Row, p.Column, formatCost(p.Cost)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(opts.Headers[:]...).
		Rows(rows...)

	var b strings.Builder

	b.WriteString(t.Render())
	b.WriteString("\n")

	if res.Stats.HasMean() {
		fmt.Fprintf(&b, "Mean assigned %s: %.*f\n", strings.ToLower(opts.Headers[2]), opts.Precision, res.Stats.Mean)
	} else {
		fmt.Fprintf(&b, "Mean assigned %s: n/a\n", strings.ToLower(opts.Headers[2]))
	}

	if len(res.UnassignedRows) > 0 {
		fmt.Fprintf(&b, "Unassigned %s: %s\n", strings.ToLower(opts.Headers[0]), strings.Join(res.UnassignedRows, ", "))
	}

	if len(res.UnassignedCols) > 0 {
		fmt.Fprintf(&b, "Unassigned %s: %s\n", strings.ToLower(opts.Headers[1]), strings.Join(res.UnassignedCols, ", "))
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func renderCSV(w io.Writer, res *allocate.Result, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(opts.Headers[:]); err != nil {
		return err
	}

	for _, p := range res.Pairs {
		if err := cw.Write([]string{p.Row, p.Column, formatCost(p.Cost)}); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
