package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/ai"
	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/occupation"
	"github.com/spigell/occupation-matcher/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
)

//go:embed prompt.md
var systemPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Resolver asks Gemini to choose among candidate occupations.
type Resolver struct {
	generator     contentGenerator
	minConfidence float64
	logger        *zap.Logger
	maxLogLen     int
}

var _ ai.Resolver = (*Resolver)(nil)

func NewResolver(generator contentGenerator, log *zap.Logger, minConfidence float64, maxLogLength int) *Resolver {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Resolver{
		generator:     generator,
		minConfidence: minConfidence,
		logger:        logger.WithCommonFields(log, providerName, generator.Model()),
		maxLogLen:     maxLogLength,
	}
}

type candidatePayload struct {
	Code            string   `json:"code"`
	Title           string   `json:"title"`
	AlternateTitles []string `json:"alternate_titles,omitempty"`
	Group           string   `json:"group,omitempty"`
}

type requestPayload struct {
	Query      string             `json:"query"`
	Candidates []candidatePayload `json:"candidates"`
}

func (r *Resolver) Resolve(ctx context.Context, query string, candidates []*occupation.Record) (*ai.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if len(candidates) == 0 {
		return nil, errors.New("at least one candidate is required")
	}

	byCode := make(map[string]*occupation.Record, len(candidates))
	payload := requestPayload{Query: query, Candidates: make([]candidatePayload, 0, len(candidates))}
	for _, rec := range candidates {
		byCode[rec.Code] = rec
		payload.Candidates = append(payload.Candidates, candidatePayload{
			Code:            rec.Code,
			Title:           rec.Title,
			AlternateTitles: rec.AlternateTitles,
			Group:           rec.Group,
		})
	}

	message, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	r.logger.Debug("gemini resolve request",
		zap.String(logger.FieldQuery, query),
		zap.Int("candidates", len(candidates)),
		zap.Int("message_length", utf8.RuneCount(message)),
		zap.String("message_preview", utils.TruncateForLog(string(message), r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemPrompt, string(message))
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini resolve response",
		zap.String(logger.FieldQuery, query),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	suggestion, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	suggestion.Raw = raw

	if suggestion.Code == "" {
		return suggestion, nil
	}

	rec, ok := byCode[suggestion.Code]
	if !ok {
		return nil, fmt.Errorf("%q: %w", suggestion.Code, ai.ErrUnknownCode)
	}
	suggestion.Title = rec.Title
	suggestion.Accepted = suggestion.Confidence >= r.minConfidence && suggestion.Confidence > 0

	if !suggestion.Accepted {
		r.logger.Debug("suggestion below confidence threshold",
			zap.String(logger.FieldCode, suggestion.Code),
			zap.Float64("confidence", suggestion.Confidence),
			zap.Float64("threshold", r.minConfidence),
		)
	}

	return suggestion, nil
}

func parseResponse(raw string) (*ai.Suggestion, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	confidence := coerceFloat(data["confidence"])
	if math.IsNaN(confidence) {
		confidence = 0
	}
	confidence = math.Max(0, math.Min(1, confidence))

	code := coerceString(data["code"])
	if strings.EqualFold(code, "none") || strings.EqualFold(code, "null") {
		code = ""
	}

	return &ai.Suggestion{
		Code:       code,
		Confidence: confidence,
		Reason:     coerceString(data["reason"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// coerceFloat reads a confidence. Values in (1, 100] are percentages and values
// above 100 are invalid, so 85 and "85%" both read as 0.85.
func coerceFloat(v any) float64 {
	f := rawFloat(v)
	switch {
	case f > 100:
		return math.NaN()
	case f > 1:
		return f / 100
	default:
		return f
	}
}

func rawFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		if strings.HasSuffix(strings.TrimSpace(val), "%") {
			f /= 100
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
