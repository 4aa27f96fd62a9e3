package match

// Distance returns the Levenshtein distance between a and b counted in
// runes: the minimum number of single-rune insertions, deletions or
// substitutions turning one into the other.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)

	// Keep the row over the shorter string.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(ra); i++ {
			sub := diag
			if ra[i-1] != rb[j-1] {
				sub++
			}

			diag = row[i]
			row[i] = min(row[i]+1, row[i-1]+1, sub)
		}
	}

	return row[len(ra)]
}

// Similarity maps Distance onto [0, 1]; 1 means equal.
func Similarity(a, b string) float64 {
	n := max(len([]rune(a)), len([]rune(b)))
	if n == 0 {
		return 1
	}

	return 1 - float64(Distance(a, b))/float64(n)
}
