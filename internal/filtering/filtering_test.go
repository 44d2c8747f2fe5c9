package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/occupation-matcher/internal/occupation"
)

func sampleRecords() *occupation.Records {
	wages := &occupation.WageStatistics{Annual: occupation.WageFigures{P50: 50000}}
	return &occupation.Records{Items: []*occupation.Record{
		{Code: "15-1252", Title: "Software Developers", Wages: wages},
		{Code: "", Title: "No Code"},
		{Code: "29-1141", Title: "Registered Nurses"},
		{Code: "15-1252", Title: "Duplicate Developers", Wages: wages},
		nil,
		{Code: "35-2014", Title: "  ", Wages: wages},
		{Code: "35-2021", Title: "Food Preparation Workers", Wages: wages},
	}}
}

func TestRun_Default(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	cfg := &Config{}

	records, step, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(cfg), sampleRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	codes := records.Codes()
	expect := []string{"15-1252", "29-1141", "35-2021"}
	if len(codes) != len(expect) {
		t.Fatalf("expected %v, got %v", expect, codes)
	}
	for i := range expect {
		if codes[i] != expect[i] {
			t.Fatalf("expected %v, got %v", expect, codes)
		}
	}
	if records.Items[0].Title != "Software Developers" {
		t.Fatalf("expected first duplicate to win, got %q", records.Items[0].Title)
	}

	if step != (Step{Initial: 7, Dropped: 4, Left: 3}) {
		t.Fatalf("unexpected summary: %+v", step)
	}

	if n := observed.FilterMessage("filter disabled").Len(); n != 1 {
		t.Fatalf("expected the wage filter to be reported disabled once, got %d", n)
	}
	if n := observed.FilterMessage("filter step").Len(); n != 3 {
		t.Fatalf("expected 3 applied steps, got %d", n)
	}
}

func TestRun_RequireWagesAndExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	excluded := &ExcludedCodes{}
	excluded.Add("not hiring", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "35-2021")
	if err := excluded.ToFile(path); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{ExcludeFile: path, RequireWages: true}
	records, step, err := Run(context.Background(), cfg, Deps{}, Default(cfg), sampleRecords())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	codes := records.Codes()
	if len(codes) != 1 || codes[0] != "15-1252" {
		t.Fatalf("expected only 15-1252, got %v", codes)
	}
	if step.Dropped != 6 || step.Left != 1 {
		t.Fatalf("unexpected summary: %+v", step)
	}
}

type failingFilter struct {
	toggle
	validateErr error
	applied     bool
}

func (f *failingFilter) Name() string { return "failing" }

func (f *failingFilter) Validate(*Config) error { return f.validateErr }

func (f *failingFilter) Apply(_ context.Context, _ Deps, r *occupation.Records) (*occupation.Records, Step, error) {
	f.applied = true
	return r, Step{Initial: r.Len(), Left: r.Len()}, nil
}

func TestRun_ValidationFailsBeforeApply(t *testing.T) {
	boom := errors.New("boom")
	first := &failingFilter{}
	second := &failingFilter{validateErr: boom}

	_, _, err := Run(context.Background(), nil, Deps{}, []Filter{first, second}, sampleRecords())
	if !errors.Is(err, boom) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if first.applied {
		t.Fatalf("no filter must run when validation fails")
	}

	second.Disable("not needed")
	if _, _, err := Run(context.Background(), nil, Deps{}, []Filter{first, second}, sampleRecords()); err != nil {
		t.Fatalf("disabled filters must not be validated: %v", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := Run(ctx, nil, Deps{}, Default(nil), sampleRecords()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	cfg := &Config{ExcludeFile: "exclude.json"}
	steps := Default(cfg)
	for _, step := range steps {
		if step.IsEnabled() {
			if err := step.Validate(cfg); err != nil {
				t.Fatal(err)
			}
		}
	}

	statuses := Describe(steps)
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}

	byName := map[string]Status{}
	for _, s := range statuses {
		byName[s.Name] = s
	}
	if s := byName["wage_data"]; s.Enabled || s.Reason == "" {
		t.Fatalf("expected disabled wage filter with reason, got %+v", s)
	}
	if s := byName["exclude_file"]; !s.Enabled || s.Details["path"] != "exclude.json" {
		t.Fatalf("unexpected exclude_file status: %+v", s)
	}
}

func TestExcludedCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	missing, err := LoadExcludedCodes(path)
	if err != nil || len(missing.Items) != 0 {
		t.Fatalf("expected empty list for missing file, got %+v, %v", missing, err)
	}

	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if added := missing.Add("seasonal", at, "15-1252", " 15-1252 ", "", "29-1141"); added != 2 {
		t.Fatalf("expected 2 new codes, got %d", added)
	}
	if err := missing.ToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadExcludedCodes(path)
	if err != nil {
		t.Fatalf("LoadExcludedCodes: %v", err)
	}
	codes := loaded.Codes()
	if len(codes) != 2 || codes[0] != "15-1252" || codes[1] != "29-1141" {
		t.Fatalf("unexpected codes: %v", codes)
	}
	if loaded.Items[0].Reason != "seasonal" || !loaded.Items[0].ExcludedAt.Equal(at) {
		t.Fatalf("unexpected entry: %+v", loaded.Items[0])
	}

	// Shrinking the list must not leave stale bytes behind.
	loaded.Items = loaded.Items[:1]
	if err := loaded.ToFile(path); err != nil {
		t.Fatal(err)
	}
	again, err := LoadExcludedCodes(path)
	if err != nil || len(again.Items) != 1 {
		t.Fatalf("expected 1 entry after rewrite, got %+v, %v", again, err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadExcludedCodes(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
