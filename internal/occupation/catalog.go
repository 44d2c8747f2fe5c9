package occupation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyCatalog is returned when no usable record is left.
	ErrEmptyCatalog = errors.New("occupation catalog is empty")
	// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Catalog is the immutable set of known occupations. It is safe for concurrent reads.
type Catalog struct {
	records []*Record
	byCode  map[string]*Record
}

// NewCatalog builds a catalog from already validated records. Records are
// copied, so later changes to the input do not leak into the catalog.
// The first record wins when codes repeat.
func NewCatalog(records *Records) (*Catalog, error) {
	if records == nil || records.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		records: make([]*Record, 0, records.Len()),
		byCode:  make(map[string]*Record, records.Len()),
	}
	for _, rec := range records.Items {
		if rec == nil {
			continue
		}
		if _, exists := c.byCode[rec.Code]; exists {
			continue
		}
		cp := rec.clone()
		c.records = append(c.records, cp)
		c.byCode[cp.Code] = cp
	}

	if len(c.records) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// Get returns the record for code. The returned record must not be modified.
func (c *Catalog) Get(code string) (*Record, bool) {
	rec, ok := c.byCode[code]
	return rec, ok
}

// Records returns records in catalog order. The records must not be modified.
func (c *Catalog) Records() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// LoadFile reads raw occupation records from a JSON or YAML file.
//
// The file holds either a list of records or an object keyed by occupation
// code. Records are not validated here; run them through the filtering steps
// before building a Catalog.
func LoadFile(path string) (*Records, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var raw any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	return Decode(raw)
}

// Decode converts loosely typed catalog data into records.
func Decode(raw any) (*Records, error) {
	var entries []any
	switch typed := raw.(type) {
	case nil:
		return &Records{}, nil
	case []any:
		entries = typed
	case map[string]any:
		entries = keyedEntries(typed)
	default:
		return nil, fmt.Errorf("%w: top level must be a list or an object, got %T", ErrUnsupportedFormat, raw)
	}

	records := &Records{Items: make([]*Record, 0, len(entries))}
	for i, entry := range entries {
		rec := &Record{}
		cfg := &mapstructure.DecoderConfig{
			Result:           rec,
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(entry); err != nil {
			return nil, fmt.Errorf("decoding catalog entry %d: %w", i, err)
		}
		rec.Code = strings.TrimSpace(rec.Code)
		rec.Title = strings.TrimSpace(rec.Title)
		records.Items = append(records.Items, rec)
	}

	return records, nil
}

// keyedEntries flattens a code-keyed object into a list sorted by code,
// filling missing codes from the keys.
func keyedEntries(m map[string]any) []any {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	entries := make([]any, 0, len(codes))
	for _, code := range codes {
		entry, ok := m[code].(map[string]any)
		if !ok {
			// let mapstructure report the type error with the entry index
			entries = append(entries, m[code])
			continue
		}
		if c, _ := entry["code"].(string); strings.TrimSpace(c) == "" {
			entry["code"] = code
		}
		entries = append(entries, entry)
	}
	return entries
}
