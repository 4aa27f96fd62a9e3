package report

import (
	"errors"
	"fmt"
	"strings"

	"topic-allocator/internal/match"
)

//go:generate go tool stringer -type=Format -linecomment -output=format_string.go

// Format selects how a result is rendered.
type Format int

const (
	_ Format = iota // skip zero value, it marks an unset format

	FormatText // text
	FormatCSV  // csv
	FormatJSON // json
	FormatYAML // yaml
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("report: unknown format")

// Formats lists every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatJSON, FormatYAML}
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats() {
		if f.String() == name {
			return f, nil
		}
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, f.String())
	}

	if hint, ok := match.Suggest(name, names); ok {
		return 0, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownFormat, s, hint)
	}

	return 0, fmt.Errorf("%w %q (valid: %v)", ErrUnknownFormat, s, Formats())
}
