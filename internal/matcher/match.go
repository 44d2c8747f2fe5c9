package matcher

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/occupation"
)

// Results whose confidences differ by no more than this are ranked as equal.
const tieTolerance = 0.01

// Matcher ranks catalog occupations against free-text job titles.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	catalog *occupation.Catalog
	index   *TitleIndex
	logger  *zap.Logger
}

// New binds a matcher to a catalog and its title index. A nil index is built
// from the catalog with default options.
func New(catalog *occupation.Catalog, index *TitleIndex, log *zap.Logger) *Matcher {
	if index == nil {
		index = BuildIndex(catalog, IndexOptions{})
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{
		catalog: catalog,
		index:   index,
		logger:  log,
	}
}

func (m *Matcher) Catalog() *occupation.Catalog { return m.catalog }

func (m *Matcher) Index() *TitleIndex { return m.index }

// Match returns the occupations that best fit query, best first.
// No match above opts.MinConfidence is a normal outcome and yields an empty slice.
func (m *Matcher) Match(query string, opts Options) []OccupationMatch {
	results := []OccupationMatch{}

	q := Normalize(query)
	if q == "" {
		return results
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultMaxResults
	}

	emitted := make(map[string]struct{})

	for _, entry := range m.index.Lookup(q) {
		if entry.Kind != TitleKindPrimary {
			continue
		}
		if _, done := emitted[entry.Code]; done {
			continue
		}
		rec, ok := m.eligible(entry.Code, opts)
		if !ok {
			continue
		}
		emitted[entry.Code] = struct{}{}
		results = append(results, OccupationMatch{
			Code:       rec.Code,
			Title:      rec.Title,
			Group:      rec.Group,
			Confidence: 1,
			MatchedOn:  entry.MatchedTitle,
			MatchType:  MatchTypeExact,
		})
	}

	// Best scoring entry per code; codes keep the order they first qualified in.
	best := make(map[string]OccupationMatch)
	var order []string
	scored := 0

	for _, key := range m.index.keys {
		for _, entry := range m.index.buckets[key] {
			if _, done := emitted[entry.Code]; done {
				continue
			}
			rec, ok := m.eligible(entry.Code, opts)
			if !ok {
				continue
			}

			scored++
			confidence := Confidence(q, key, entry.Kind)
			if confidence < opts.MinConfidence {
				continue
			}

			prev, seen := best[entry.Code]
			if seen && prev.Confidence >= confidence {
				continue
			}
			if !seen {
				order = append(order, entry.Code)
			}
			best[entry.Code] = OccupationMatch{
				Code:       rec.Code,
				Title:      rec.Title,
				Group:      rec.Group,
				Confidence: confidence,
				MatchedOn:  entry.MatchedTitle,
				MatchType:  matchTypeOf(entry.Kind),
			}
		}
	}

	for _, code := range order {
		results = append(results, best[code])
	}

	rank(results, opts.PreferredGroups)

	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}

	m.logger.Debug("matched occupation title",
		append(logger.QueryFields(query, q),
			zap.Int("exact", len(emitted)),
			zap.Int("scored_entries", scored),
			zap.Int("returned", len(results)),
		)...,
	)

	return results
}

func (m *Matcher) eligible(code string, opts Options) (*occupation.Record, bool) {
	rec, ok := m.catalog.Get(code)
	if !ok {
		return nil, false
	}
	if !opts.IncludeWithoutWages && !rec.HasWages() {
		return nil, false
	}
	return rec, true
}

func matchTypeOf(kind TitleKind) MatchType {
	switch kind {
	case TitleKindPrimary:
		return MatchTypePrimary
	case TitleKindAlternate:
		return MatchTypeAlternate
	case TitleKindPartial:
		return MatchTypePartial
	default:
		return MatchTypeFuzzy
	}
}

// rank orders by confidence, descending. Results within tieTolerance of the
// first result of their run form a tie group, and preferred groups move to the
// front of it.
func rank(results []OccupationMatch, preferredGroups []string) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	preferred := make(map[string]struct{}, len(preferredGroups))
	for _, g := range preferredGroups {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			preferred[g] = struct{}{}
		}
	}
	isPreferred := func(m OccupationMatch) bool {
		_, ok := preferred[strings.ToLower(strings.TrimSpace(m.Group))]
		return ok
	}

	if len(preferred) == 0 {
		return
	}

	for start := 0; start < len(results); {
		end := start + 1
		for end < len(results) && results[start].Confidence-results[end].Confidence <= tieTolerance {
			end++
		}
		group := results[start:end]
		sort.SliceStable(group, func(i, j int) bool {
			return isPreferred(group[i]) && !isPreferred(group[j])
		})
		start = end
	}
}
