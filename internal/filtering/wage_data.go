package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

const wageDataName = "wage_data"

type wageDataFilter struct {
	toggle
}

// NewWageData creates a filter that drops records without wage statistics.
func NewWageData() Filter {
	return &wageDataFilter{}
}

func (f *wageDataFilter) Name() string { return wageDataName }

func (f *wageDataFilter) Validate(*Config) error { return nil }

func (f *wageDataFilter) Apply(_ context.Context, deps Deps, r *occupation.Records) (*occupation.Records, Step, error) {
	initial := r.Len()
	dropped := r.Filter((*occupation.Record).HasWages)
	if len(dropped) > 0 {
		deps.Logger.Info("dropping occupations without wage data",
			zap.Int("dropped", len(dropped)),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *wageDataFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
