package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

// Filter is a single step of the catalog load pipeline.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, r *occupation.Records) (*occupation.Records, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains the catalog settings consumed by the filters.
type Config struct {
	ExcludeFile  string
	RequireWages bool
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the catalog pipeline in execution order. The wage filter
// is disabled unless cfg asks for wage data.
func Default(cfg *Config) []Filter {
	steps := []Filter{
		NewRequiredFields(),
		NewDuplicates(),
		NewExcludeFile(),
		NewWageData(),
	}
	if cfg == nil || !cfg.RequireWages {
		DisableByName(steps, wageDataName, "catalog.require-wages is off")
	}
	return steps
}

// DisableByName marks a filter as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter and then applies them in order.
// The returned Step summarizes the whole pipeline.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, r *occupation.Records) (*occupation.Records, Step, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, Step{}, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	total := Step{Initial: r.Len()}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, Step{}, err
		}

		if !step.IsEnabled() {
			deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, r)
		if err != nil {
			return nil, Step{}, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		r = next
		total.Dropped += info.Dropped
	}
	total.Left = r.Len()

	return r, total, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// toggle carries the enable state shared by all filters.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }
