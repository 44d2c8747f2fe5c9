package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

type requiredFieldsFilter struct {
	toggle
}

// NewRequiredFields creates a filter that drops records without a code or title.
func NewRequiredFields() Filter {
	return &requiredFieldsFilter{}
}

func (f *requiredFieldsFilter) Name() string { return "required_fields" }

func (f *requiredFieldsFilter) Validate(*Config) error { return nil }

func (f *requiredFieldsFilter) Apply(_ context.Context, deps Deps, r *occupation.Records) (*occupation.Records, Step, error) {
	initial := r.Len()
	dropped := r.Filter(func(rec *occupation.Record) bool {
		return rec != nil && strings.TrimSpace(rec.Code) != "" && strings.TrimSpace(rec.Title) != ""
	})
	if len(dropped) > 0 {
		deps.Logger.Warn("dropping catalog records without code or title",
			zap.Strings("codes", dropped),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *requiredFieldsFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
