package matcher

// TitleKind tells where an indexed title came from.
type TitleKind string

const (
	TitleKindPrimary   TitleKind = "primary"
	TitleKindAlternate TitleKind = "alternate"
	// TitleKindPartial marks a segment of a longer primary title.
	TitleKindPartial TitleKind = "partial"
)

// MatchType describes how a match was found.
type MatchType string

const (
	MatchTypeExact     MatchType = "exact"
	MatchTypePrimary   MatchType = "primary"
	MatchTypeAlternate MatchType = "alternate"
	MatchTypePartial   MatchType = "partial"
	// MatchTypeFuzzy marks suggestions that did not come from lexical scoring.
	MatchTypeFuzzy MatchType = "fuzzy"
)

// OccupationMatch is one ranked candidate for a query.
type OccupationMatch struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	Group      string    `json:"group,omitempty"`
	Confidence float64   `json:"confidence"`
	MatchedOn  string    `json:"matched_on"`
	MatchType  MatchType `json:"match_type"`
}

// Options tunes Match. The zero value is not the default: it drops
// occupations without wages and keeps every score above 0. Start from
// DefaultOptions and override fields. Only MaxResults <= 0 falls back to 5.
type Options struct {
	MaxResults          int
	MinConfidence       float64
	IncludeWithoutWages bool
	PreferredGroups     []string
}

const (
	defaultMaxResults    = 5
	defaultMinConfidence = 0.3
	defaultSearchLimit   = 10
)

// DefaultOptions returns the options used when the caller has no preference.
func DefaultOptions() Options {
	return Options{
		MaxResults:          defaultMaxResults,
		MinConfidence:       defaultMinConfidence,
		IncludeWithoutWages: true,
	}
}

// SearchResult is one hit of the keyword browse.
type SearchResult struct {
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Group string  `json:"group,omitempty"`
	Score float64 `json:"score"`
}
