package gemini

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/ai"
	"github.com/spigell/occupation-matcher/internal/occupation"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func candidates() []*occupation.Record {
	return []*occupation.Record{
		{Code: "15-1252", Title: "Software Developers", AlternateTitles: []string{"Programmer"}, Group: "Computer and Mathematical"},
		{Code: "35-2014", Title: "Cooks, Restaurant"},
	}
}

func TestResolverResolve(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"code\": \"15-1252\", \"confidence\": \"0.82\", \"reason\": \"Writes code\"}\n```"}
	resolver := NewResolver(stub, zap.NewNop(), 0.5, 0)

	suggestion, err := resolver.Resolve(context.Background(), "code ninja", candidates())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if !suggestion.Accepted || suggestion.Code != "15-1252" || suggestion.Title != "Software Developers" {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}
	if suggestion.Confidence != 0.82 || suggestion.Reason != "Writes code" {
		t.Fatalf("unexpected confidence or reason: %+v", suggestion)
	}
	if suggestion.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemPrompt || !strings.Contains(stub.lastSystem, "Never invent a code") {
		t.Fatalf("expected embedded prompt as system instruction")
	}
	for _, want := range []string{`"query": "code ninja"`, `"code": "35-2014"`, `"Programmer"`} {
		if !strings.Contains(stub.lastMessage, want) {
			t.Fatalf("expected message to contain %s, got %s", want, stub.lastMessage)
		}
	}

	match := suggestion.Match(candidates()[0])
	if match.MatchType != "fuzzy" || match.Confidence != 0.82 {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestResolverThresholdAndNoFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		accepted bool
		code     string
	}{
		{name: "below threshold", response: `{"code": "35-2014", "confidence": 0.4}`, code: "35-2014"},
		{name: "percent confidence", response: `{"code": "35-2014", "confidence": "75%"}`, code: "35-2014", accepted: true},
		{name: "no fit", response: `{"code": "", "confidence": 0}`},
		{name: "none code", response: `{"code": "none", "confidence": 0.9}`},
		{name: "missing confidence", response: `{"code": "35-2014"}`, code: "35-2014"},
		{name: "bare percentage below threshold", response: `{"code": "35-2014", "confidence": 40}`, code: "35-2014"},
		{name: "out of range confidence", response: `{"code": "35-2014", "confidence": 250}`, code: "35-2014"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resolver := NewResolver(&stubGenerator{response: tt.response}, nil, 0.5, 10)

			suggestion, err := resolver.Resolve(context.Background(), "cook", candidates())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if suggestion.Accepted != tt.accepted || suggestion.Code != tt.code {
				t.Fatalf("unexpected suggestion: %+v", suggestion)
			}
		})
	}
}

func TestResolverErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	tests := []struct {
		name      string
		generator *stubGenerator
		query     string
		records   []*occupation.Record
		check     func(error) bool
	}{
		{
			name:      "unknown code",
			generator: &stubGenerator{response: `{"code": "99-9999", "confidence": 1}`},
			query:     "cook",
			records:   candidates(),
			check:     func(err error) bool { return errors.Is(err, ai.ErrUnknownCode) },
		},
		{
			name:      "generator failure",
			generator: &stubGenerator{err: boom},
			query:     "cook",
			records:   candidates(),
			check:     func(err error) bool { return errors.Is(err, boom) },
		},
		{
			name:      "not json",
			generator: &stubGenerator{response: "I think it is a cook"},
			query:     "cook",
			records:   candidates(),
			check:     func(err error) bool { return err != nil && strings.Contains(err.Error(), "parse gemini response") },
		},
		{
			name:      "empty query",
			generator: &stubGenerator{},
			query:     " ",
			records:   candidates(),
			check:     func(err error) bool { return err != nil },
		},
		{
			name:      "no candidates",
			generator: &stubGenerator{},
			query:     "cook",
			check:     func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resolver := NewResolver(tt.generator, nil, 0.5, 0)
			if _, err := resolver.Resolve(context.Background(), tt.query, tt.records); !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseResponseConfidenceScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect float64
	}{
		{name: "fraction", raw: `{"confidence": 0.85}`, expect: 0.85},
		{name: "one", raw: `{"confidence": 1}`, expect: 1},
		{name: "bare percentage", raw: `{"confidence": 85}`, expect: 0.85},
		{name: "percent string", raw: `{"confidence": "85%"}`, expect: 0.85},
		{name: "plain string percentage", raw: `{"confidence": "85"}`, expect: 0.85},
		{name: "above hundred", raw: `{"confidence": 250}`, expect: 0},
		{name: "negative", raw: `{"confidence": -0.3}`, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			suggestion, err := parseResponse(tt.raw)
			if err != nil {
				t.Fatalf("parseResponse: %v", err)
			}
			if math.Abs(suggestion.Confidence-tt.expect) > 1e-9 {
				t.Fatalf("expected confidence %v, got %v", tt.expect, suggestion.Confidence)
			}
		})
	}
}
