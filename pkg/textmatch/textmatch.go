// Package textmatch scores the similarity of two free-form address strings.
//
// The score blends token-set overlap with containment so that minor
// formatting differences ("St" vs "Street", reordered components) still score
// high, while unrelated addresses score low. It is a pure function: no I/O,
// and malformed or empty input degrades to 0 instead of failing.
package textmatch

import (
	"math"
	"strings"
	"unicode"
)

// Score returns a similarity score in [0,100] for two address strings.
//
// Contracts:
//   - Score(a, a) == 100 for any non-empty a
//   - Score(a, "") == 0
//   - Score(a, b) == Score(b, a)
func Score(a, b string) int {
	na := normalize(a)
	nb := normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	setA := tokenSet(na)
	setB := tokenSet(nb)

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}

	jaccard := float64(shared) / float64(union)

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	containment := float64(shared) / float64(smaller)
	// One normalized string fully containing the other is the strongest
	// containment signal regardless of token counts.
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		containment = 1
	}

	return int(math.Round(100 * (0.6*jaccard + 0.4*containment)))
}

// normalize lowercases, strips punctuation, and collapses whitespace.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
