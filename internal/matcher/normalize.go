package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key of a title: NFKC folded, lowercased,
// with everything except letters, digits and whitespace removed and
// whitespace runs collapsed to single spaces. Stripping can leave composable
// runes adjacent, so the result is composed again.
func Normalize(title string) string {
	if title == "" {
		return ""
	}

	lowered := strings.ToLower(norm.NFKC.String(title))
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, lowered)

	return strings.Join(strings.Fields(norm.NFKC.String(kept)), " ")
}

func words(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
