package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

// ExcludedCode is one entry of an exclude file.
type ExcludedCode struct {
	Code       string    `json:"code"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

// ExcludedCodes is the content of an exclude file: a JSON list of entries.
type ExcludedCodes struct {
	Items []*ExcludedCode
}

// LoadExcludedCodes reads an exclude file. A missing or empty file yields an empty list.
func LoadExcludedCodes(path string) (*ExcludedCodes, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCodes{}, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return &ExcludedCodes{}, nil
	}

	var items []*ExcludedCode
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding exclude file %q: %w", path, err)
	}
	return &ExcludedCodes{Items: items}, nil
}

// Add appends codes not yet listed and returns how many were new.
func (e *ExcludedCodes) Add(reason string, at time.Time, codes ...string) int {
	known := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		known[item.Code] = struct{}{}
	}

	added := 0
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := known[code]; ok {
			continue
		}
		known[code] = struct{}{}
		e.Items = append(e.Items, &ExcludedCode{Code: code, Reason: reason, ExcludedAt: at.UTC()})
		added++
	}
	return added
}

// Codes returns the excluded codes in file order.
func (e *ExcludedCodes) Codes() []string {
	codes := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		codes = append(codes, item.Code)
	}
	return codes
}

// ToFile writes the list to path, replacing previous content.
func (e *ExcludedCodes) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	items := e.Items
	if items == nil {
		items = []*ExcludedCode{}
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes occupations listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, r *occupation.Records) (*occupation.Records, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded, err := LoadExcludedCodes(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded codes from file: %w", err)
	}

	removed := r.Exclude(excluded.Codes())
	if len(removed) > 0 {
		deps.Logger.Info("excluding occupations based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_codes", removed),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
