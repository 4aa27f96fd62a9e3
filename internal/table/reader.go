package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// DefaultDelimiter matches the spreadsheet exports the tool is fed with.
const DefaultDelimiter = ';'

// ErrMalformed is returned when the input cannot be read as a labeled table.
var ErrMalformed = errors.New("table: malformed input")

// Options controls how a delimited file is read.
type Options struct {
	// Delimiter separates cells. If 0, it is detected from the header line
	// among ';', ',' and '\t'.
	Delimiter rune
	// Transpose swaps rows and columns after reading.
	Transpose bool
}

// DefaultOptions returns the reader defaults.
func DefaultOptions() Options {
	return Options{Delimiter: DefaultDelimiter}
}

// ReadFile loads a priority table from the given path.
func ReadFile(path string, opts Options) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	return t, nil
}

// Read parses a delimited table. The header row supplies column labels and
// the first column supplies row labels; the header's first cell is ignored.
// Cells are judged with ParseCell, so unparseable values become Missing
// instead of failing the read.
func Read(r io.Reader, opts Options) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = !unicode.IsSpace(delim)
	// A stray quote inside a cell is kept as text so the cell parses as Missing.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	t := &RawTable{ColLabels: trimAll(header[1:])}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		if isBlank(rec) {
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(rec)-1 > len(t.ColLabels) {
			return nil, fmt.Errorf("%w: line %d has %d cells, header has %d",
				ErrMalformed, line, len(rec)-1, len(t.ColLabels))
		}

		row := make([]Cell, len(t.ColLabels))
		for j, raw := range rec[1:] {
			row[j] = ParseCell(raw)
		}

		t.RowLabels = append(t.RowLabels, strings.TrimSpace(rec[0]))
		t.Cells = append(t.Cells, row)
	}

	if opts.Transpose {
		t = t.Transpose()
	}

	return t, nil
}

// DetectDelimiter picks the most frequent candidate delimiter on the first
// line, falling back to DefaultDelimiter.
func DetectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}

	best, bestCount := DefaultDelimiter, 0
	for _, c := range []rune{';', ',', '\t'} {
		if n := bytes.Count(first, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}

	return out
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}

	return true
}
