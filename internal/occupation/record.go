package occupation

import (
	"slices"
	"strings"
)

// WageFigures holds one series of wage statistics. Zero means the figure is unknown.
type WageFigures struct {
	P10    float64 `json:"p10,omitempty" yaml:"p10,omitempty" mapstructure:"p10"`
	P25    float64 `json:"p25,omitempty" yaml:"p25,omitempty" mapstructure:"p25"`
	P50    float64 `json:"p50,omitempty" yaml:"p50,omitempty" mapstructure:"p50"`
	P75    float64 `json:"p75,omitempty" yaml:"p75,omitempty" mapstructure:"p75"`
	P90    float64 `json:"p90,omitempty" yaml:"p90,omitempty" mapstructure:"p90"`
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty" mapstructure:"mean"`
	Median float64 `json:"median,omitempty" yaml:"median,omitempty" mapstructure:"median"`
}

// IsZero reports whether no figure is known.
func (w WageFigures) IsZero() bool {
	return w == WageFigures{}
}

// WageStatistics describes the wage distribution of an occupation.
type WageStatistics struct {
	Hourly     WageFigures `json:"hourly" yaml:"hourly" mapstructure:"hourly"`
	Annual     WageFigures `json:"annual" yaml:"annual" mapstructure:"annual"`
	Employment int         `json:"employment,omitempty" yaml:"employment,omitempty" mapstructure:"employment"`
}

// Record is a single occupation of the catalog.
type Record struct {
	Code            string          `json:"code" yaml:"code" mapstructure:"code"`
	Title           string          `json:"title" yaml:"title" mapstructure:"title"`
	AlternateTitles []string        `json:"alternate_titles,omitempty" yaml:"alternate_titles,omitempty" mapstructure:"alternate_titles"`
	Group           string          `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
	Description     string          `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Wages           *WageStatistics `json:"wages,omitempty" yaml:"wages,omitempty" mapstructure:"wages"`
}

// HasWages reports whether the record carries any wage statistics.
func (r *Record) HasWages() bool {
	if r == nil || r.Wages == nil {
		return false
	}
	return !r.Wages.Hourly.IsZero() || !r.Wages.Annual.IsZero()
}

func (r *Record) clone() *Record {
	out := *r
	out.AlternateTitles = slices.Clone(r.AlternateTitles)
	if r.Wages != nil {
		w := *r.Wages
		out.Wages = &w
	}
	return &out
}

// Records is a mutable list of records used while a catalog is being assembled.
type Records struct {
	Items []*Record
}

func (r *Records) Len() int {
	return len(r.Items)
}

// Codes returns the codes of all records in order.
func (r *Records) Codes() []string {
	codes := make([]string, 0, len(r.Items))
	for _, rec := range r.Items {
		codes = append(codes, rec.Code)
	}
	return codes
}

// Filter keeps the records for which keep returns true, preserving order.
// It returns the codes of the dropped records.
func (r *Records) Filter(keep func(*Record) bool) []string {
	var dropped []string
	kept := r.Items[:0]
	for _, rec := range r.Items {
		if keep(rec) {
			kept = append(kept, rec)
			continue
		}
		if rec == nil {
			dropped = append(dropped, "")
			continue
		}
		dropped = append(dropped, strings.TrimSpace(rec.Code))
	}
	clear(r.Items[len(kept):])
	r.Items = kept
	return dropped
}

// Exclude drops records whose code is in codes, and nil records.
func (r *Records) Exclude(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[strings.TrimSpace(c)] = struct{}{}
	}
	return r.Filter(func(rec *Record) bool {
		if rec == nil {
			return false
		}
		_, found := set[rec.Code]
		return !found
	})
}
