// Package match provides fuzzy comparison of short human-entered labels:
// edit distance, label normalization, near-duplicate detection and
// "did you mean" suggestions.
package match
