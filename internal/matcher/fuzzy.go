package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

const (
	// minFuzzyLength is the shortest string length at which approximate matching applies.
	minFuzzyLength = 5
	// maxFuzzyDistance is the largest edit distance accepted regardless of length.
	maxFuzzyDistance = 2
	// minFuzzySimilarity is the exclusive similarity bound for longer strings.
	minFuzzySimilarity = 0.85
)

// Normalize lower-cases and trims a diagnosis string for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FuzzyMatch reports whether a and b name the same diagnosis allowing small spelling
// differences. Strings shorter than five characters only match exactly.
func FuzzyMatch(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if a == b {
		return true
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen < minFuzzyLength {
		return false
	}
	dist := levenshtein.Distance(a, b, nil)
	if dist <= maxFuzzyDistance {
		return true
	}
	return 1-float64(dist)/float64(maxLen) > minFuzzySimilarity
}
