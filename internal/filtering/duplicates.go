package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

type duplicatesFilter struct {
	toggle
}

// NewDuplicates creates a filter that keeps only the first record of each code.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, r *occupation.Records) (*occupation.Records, Step, error) {
	initial := r.Len()
	seen := make(map[string]struct{}, initial)
	dropped := r.Filter(func(rec *occupation.Record) bool {
		if _, dup := seen[rec.Code]; dup {
			return false
		}
		seen[rec.Code] = struct{}{}
		return true
	})
	if len(dropped) > 0 {
		deps.Logger.Warn("dropping duplicate occupation codes",
			zap.Strings("codes", dropped),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
