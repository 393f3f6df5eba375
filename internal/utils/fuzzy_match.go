package utils

import (
	"strings"
	"unicode"
)

// NormalizeName lower-cases a hotel name, drops punctuation and collapses spaces
func NormalizeName(name string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// FuzzyMatchName reports whether a user-supplied hotel name refers to candidate.
// It matches on normalized substring, or when every query word appears in the candidate.
func FuzzyMatchName(query, candidate string) bool {
	q := NormalizeName(query)
	c := NormalizeName(candidate)
	if q == "" || c == "" {
		return false
	}
	if strings.Contains(c, q) {
		return true
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(c) {
		words[w] = true
	}
	for _, w := range strings.Fields(q) {
		if !words[w] {
			return false
		}
	}
	return true
}
