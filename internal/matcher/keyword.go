package matcher

import (
	"sort"
	"strings"
)

// Keyword browse weights.
const (
	exactTitleScore     = 100
	titleSubstringScore = 50
	sharedWordScore     = 10
	alternateHitScore   = 25
)

// Search scores every catalog record against query by plain keyword overlap
// on titles and descriptions. It does not use the title index.
// Records scoring zero are left out; limit <= 0 means the default of 10.
func (m *Matcher) Search(query string, limit int) []SearchResult {
	out := []SearchResult{}

	q := Normalize(query)
	if q == "" {
		return out
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	queryWords := words(q)

	for _, rec := range m.catalog.Records() {
		title := Normalize(rec.Title)

		var score float64
		switch {
		case title == q:
			score += exactTitleScore
		case strings.Contains(title, q):
			score += titleSubstringScore
		}

		vocabulary := words(title + " " + Normalize(rec.Description))
		for w := range queryWords {
			if _, ok := vocabulary[w]; ok {
				score += sharedWordScore
			}
		}

		for _, alt := range rec.AlternateTitles {
			if strings.Contains(Normalize(alt), q) {
				score += alternateHitScore
				break
			}
		}

		if score == 0 {
			continue
		}
		out = append(out, SearchResult{
			Code:  rec.Code,
			Title: rec.Title,
			Group: rec.Group,
			Score: score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
