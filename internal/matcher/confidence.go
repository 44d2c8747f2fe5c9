package matcher

import "strings"

// Scoring constants. Changing any of them changes result rankings.
const (
	primaryBoost     = 1.1
	alternatePenalty = 0.95
	partialPenalty   = 0.7
	substringBonus   = 0.15
	wordOverlapScale = 0.8
)

// Confidence scores how likely input refers to candidate, a title of the given kind.
// The substring bonus needs both normalized strings to be non-empty, so an
// empty side scores 0 unless both are empty.
func Confidence(input, candidate string, kind TitleKind) float64 {
	a, b := Normalize(input), Normalize(candidate)
	if a == b {
		return 1
	}

	score := Similarity(a, b)

	switch kind {
	case TitleKindPrimary:
		score = min(1, score*primaryBoost)
	case TitleKindAlternate:
		score *= alternatePenalty
	case TitleKindPartial:
		score *= partialPenalty
	}

	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		score = min(1, score+substringBonus)
	}

	if overlap := wordOverlap(a, b); overlap > 0 {
		score = max(score, overlap*wordOverlapScale)
	}

	return clamp(score)
}

// wordOverlap is |shared words| / max(|words a|, |words b|).
func wordOverlap(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(shared) / float64(max(len(wa), len(wb)))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
