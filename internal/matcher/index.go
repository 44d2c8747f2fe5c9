package matcher

import (
	"strings"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

// IndexEntry points from a normalized title back to an occupation.
type IndexEntry struct {
	Code         string    `json:"code"`
	MatchedTitle string    `json:"matched_title"`
	Kind         TitleKind `json:"kind"`
}

// TitleIndex maps normalized titles to the occupations carrying them.
// Buckets are iterated in the order they were first created, so results do
// not depend on map ordering. The index is read-only once built.
type TitleIndex struct {
	buckets map[string][]IndexEntry
	keys    []string
}

// IndexOptions controls BuildIndex.
type IndexOptions struct {
	// PartialTitles also indexes the comma, slash or semicolon separated
	// segments of primary titles.
	PartialTitles bool
}

// BuildIndex indexes every primary and alternate title of the catalog.
func BuildIndex(catalog *occupation.Catalog, opts IndexOptions) *TitleIndex {
	idx := &TitleIndex{buckets: make(map[string][]IndexEntry)}
	if catalog == nil {
		return idx
	}

	for _, rec := range catalog.Records() {
		idx.add(rec.Code, rec.Title, TitleKindPrimary)
		for _, alt := range rec.AlternateTitles {
			idx.add(rec.Code, alt, TitleKindAlternate)
		}
		if opts.PartialTitles {
			for _, segment := range titleSegments(rec.Title) {
				idx.add(rec.Code, segment, TitleKindPartial)
			}
		}
	}

	return idx
}

func (idx *TitleIndex) add(code, title string, kind TitleKind) {
	key := Normalize(title)
	if key == "" {
		return
	}

	bucket, exists := idx.buckets[key]
	if !exists {
		idx.keys = append(idx.keys, key)
	}
	for _, e := range bucket {
		if e.Code == code && e.Kind == kind {
			return
		}
	}
	idx.buckets[key] = append(bucket, IndexEntry{
		Code:         code,
		MatchedTitle: strings.TrimSpace(title),
		Kind:         kind,
	})
}

// Lookup returns the entries of the bucket keyed by an already normalized title.
func (idx *TitleIndex) Lookup(key string) []IndexEntry {
	return idx.buckets[key]
}

// Keys returns bucket keys in insertion order.
func (idx *TitleIndex) Keys() []string {
	out := make([]string, len(idx.keys))
	copy(out, idx.keys)
	return out
}

// Len returns the number of buckets.
func (idx *TitleIndex) Len() int {
	return len(idx.keys)
}

// titleSegments splits "Sales Representatives, Wholesale and Manufacturing"
// style titles into their separated parts. Titles without separators yield nothing.
func titleSegments(title string) []string {
	parts := strings.FieldsFunc(title, func(r rune) bool {
		return r == ',' || r == '/' || r == ';'
	})
	if len(parts) < 2 {
		return nil
	}

	whole := Normalize(title)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if n := Normalize(p); n == "" || n == whole {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}
