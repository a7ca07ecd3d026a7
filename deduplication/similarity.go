package deduplication

import (
	"strings"
)

// NormalizeTitle lower-cases the title, turns every character outside [a-z0-9\s] into a
// separator and keeps the distinct tokens longer than two characters.
func NormalizeTitle(t string) map[string]struct{} {
	t = strings.ToLower(t)

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(b.String()) {
		if len(field) > 2 {
			tokens[field] = struct{}{}
		}
	}
	return tokens
}

// Similarity is the Jaccard index of the two normalized token sets.
// A title that normalizes to nothing never matches anything.
func Similarity(a, b string) float64 {
	setA := NormalizeTitle(a)
	setB := NormalizeTitle(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// exactMatch compares titles ignoring case and surrounding whitespace
func exactMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
