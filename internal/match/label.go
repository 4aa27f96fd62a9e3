package match

import (
	"strings"
	"unicode"
)

// NormalizeLabel folds a label for comparison: lower case, punctuation
// dropped, runs of whitespace and separators collapsed to one space.
func NormalizeLabel(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}

			space = false

			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '_' || r == '-' || r == '.':
			space = true
		}
	}

	return b.String()
}

// Near is a pair of label indexes that look like the same entry.
type Near struct {
	I, J     int
	Distance int
}

// NearDuplicates reports label pairs whose normalized forms are within
// maxDist edits of each other, ordered by (I, J). Labels are expected to be
// distinct; pairs with equal raw labels are skipped. Labels shorter than
// four runes after normalization only match when their normalized forms
// are equal, so short codes like "A1" and "A2" are not flagged.
func NearDuplicates(labels []string, maxDist int) []Near {
	norm := make([]string, len(labels))
	for i, l := range labels {
		norm[i] = NormalizeLabel(l)
	}

	var out []Near

	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if labels[i] == labels[j] || norm[i] == "" || norm[j] == "" {
				continue
			}

			limit := maxDist
			if len([]rune(norm[i])) < 4 || len([]rune(norm[j])) < 4 {
				limit = 0
			}

			// Lengths alone can rule a pair out.
			if abs(len([]rune(norm[i]))-len([]rune(norm[j]))) > limit {
				continue
			}

			if d := Distance(norm[i], norm[j]); d <= limit {
				out = append(out, Near{I: i, J: j, Distance: d})
			}
		}
	}

	return out
}

// Suggest returns the option closest to input when it is similar enough
// to be a plausible typo.
func Suggest(input string, options []string) (string, bool) {
	in := NormalizeLabel(input)
	if in == "" {
		return "", false
	}

	best, bestDist := "", -1
	for _, opt := range options {
		d := Distance(in, NormalizeLabel(opt))
		if bestDist < 0 || d < bestDist {
			best, bestDist = opt, d
		}
	}

	if bestDist < 0 || bestDist > max(1, len([]rune(in))/3) {
		return "", false
	}

	return best, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
