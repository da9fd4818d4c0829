package similarity

import (
	"math"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Score returns a normalized similarity between two strings on a 0-100
// scale: 100 for equal strings (case-insensitive, whitespace-trimmed),
// degrading with edit distance normalized by the longer string's length.
// Empty input on either side scores 0.
func Score(a, b string) int {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 100
	}

	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	dist := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	score := 100 - int(math.Round(float64(dist)/float64(maxLen)*100))
	if score < 0 {
		return 0
	}
	return score
}
