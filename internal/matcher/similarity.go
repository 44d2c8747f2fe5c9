package matcher

import "github.com/agnivade/levenshtein"

// Similarity scores two strings in [0, 1] as 1 - levenshtein/maxLen, counted in runes.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(max(la, lb))
}
