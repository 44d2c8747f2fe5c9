// Package ai resolves job titles the lexical matcher cannot place by asking
// a language model to choose among candidate occupations.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/occupation-matcher/internal/matcher"
	"github.com/spigell/occupation-matcher/internal/occupation"
)

// ErrUnknownCode is returned when a model answers with a code that was not offered.
var ErrUnknownCode = errors.New("suggested code is not among the candidates")

// Suggestion is a model's pick for a job title.
type Suggestion struct {
	Code       string
	Title      string
	Confidence float64
	Reason     string
	// Accepted is false when the model found no fit or its confidence is
	// under the configured minimum.
	Accepted bool
	Raw      string
}

// Resolver picks the candidate occupation that best fits query.
type Resolver interface {
	Resolve(ctx context.Context, query string, candidates []*occupation.Record) (*Suggestion, error)
}

// Match converts an accepted suggestion into a fuzzy match result.
func (s *Suggestion) Match(rec *occupation.Record) matcher.OccupationMatch {
	return matcher.OccupationMatch{
		Code:       rec.Code,
		Title:      rec.Title,
		Group:      rec.Group,
		Confidence: s.Confidence,
		MatchedOn:  rec.Title,
		MatchType:  matcher.MatchTypeFuzzy,
	}
}
