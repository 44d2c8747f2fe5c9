package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/ai"
	"github.com/spigell/occupation-matcher/internal/ai/gemini"
	"github.com/spigell/occupation-matcher/internal/filtering"
	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/matcher"
	"github.com/spigell/occupation-matcher/internal/occupation"
	"github.com/spigell/occupation-matcher/internal/secrets"
)

// session bundles what every command needs after startup.
type session struct {
	ctx     context.Context
	config  *Config
	logger  *zap.Logger
	matcher *matcher.Matcher
}

// startup builds the logger, reads the config and loads the catalog.
// Fatal problems end the process, the same way for every command.
func startup(ctx context.Context) *session {
	zl, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Debug("starting", zap.String("version", version), zap.Any("config", config))

	m, step, err := loadMatcher(ctx, config.Catalog, zl)
	if err != nil {
		zl.Fatal("loading the occupation catalog",
			zap.Error(err),
			zap.String(logger.FieldCatalog, config.Catalog.Path),
			zap.String("hint", "set catalog.path in the config file or pass --catalog"),
		)
	}

	zl.Info("catalog loaded",
		zap.String(logger.FieldCatalog, config.Catalog.Path),
		zap.Int("occupations", m.Catalog().Len()),
		zap.Int("dropped", step.Dropped),
		zap.Int("indexed_titles", m.Index().Len()),
	)

	return &session{ctx: ctx, config: config, logger: zl, matcher: m}
}

func newLogger() (*zap.Logger, error) {
	return logger.New(viper.GetBool("json"), viper.GetBool("debug"))
}

// loadMatcher reads the catalog file, runs the load pipeline and indexes the result.
func loadMatcher(ctx context.Context, cfg *CatalogConfig, log *zap.Logger) (*matcher.Matcher, filtering.Step, error) {
	records, err := occupation.LoadFile(cfg.Path)
	if err != nil {
		return nil, filtering.Step{}, err
	}

	filterCfg := filterConfig(cfg)
	records, step, err := filtering.Run(ctx, filterCfg, filtering.Deps{Logger: log}, filtering.Default(filterCfg), records)
	if err != nil {
		return nil, filtering.Step{}, fmt.Errorf("filtering catalog: %w", err)
	}

	catalog, err := occupation.NewCatalog(records)
	if err != nil {
		return nil, step, err
	}

	index := matcher.BuildIndex(catalog, matcher.IndexOptions{PartialTitles: cfg.PartialTitles})
	return matcher.New(catalog, index, log), step, nil
}

func filterConfig(cfg *CatalogConfig) *filtering.Config {
	return &filtering.Config{
		ExcludeFile:  cfg.ExcludeFile,
		RequireWages: cfg.RequireWages,
	}
}

func matchOptions(cfg *MatchConfig) matcher.Options {
	opts := matcher.DefaultOptions()
	if cfg == nil {
		return opts
	}
	opts.MaxResults = cfg.MaxResults
	opts.MinConfidence = cfg.MinConfidence
	opts.IncludeWithoutWages = cfg.IncludeWithoutWages
	opts.PreferredGroups = cfg.PreferredGroups
	return opts
}

// newResolver returns nil when AI fallback is switched off.
func newResolver(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Resolver, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini section is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.WithCommonFields(log, "gemini", cfg.Gemini.Model))
	if err != nil {
		return nil, err
	}

	minConfidence := cfg.MinimumConfidence
	if minConfidence < 0 {
		minConfidence = 0
	}

	return gemini.NewResolver(generator, log, minConfidence, cfg.Gemini.MaxLogLength), nil
}

// resolveWithAI offers the closest lexical candidates to resolver and
// returns the accepted suggestion as a single fuzzy match.
func resolveWithAI(ctx context.Context, m *matcher.Matcher, resolver ai.Resolver, cfg *AIConfig, query string, opts matcher.Options, log *zap.Logger) ([]matcher.OccupationMatch, error) {
	limit := cfg.MaxCandidates
	if limit <= 0 {
		limit = 25
	}

	loose := opts
	loose.MinConfidence = 0
	loose.MaxResults = limit

	candidates := make([]*occupation.Record, 0, limit)
	for _, c := range m.Match(query, loose) {
		if rec, ok := m.Catalog().Get(c.Code); ok {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return []matcher.OccupationMatch{}, nil
	}

	suggestion, err := resolver.Resolve(ctx, query, candidates)
	if err != nil {
		return nil, err
	}
	if !suggestion.Accepted {
		log.Info("AI suggestion rejected",
			zap.String(logger.FieldQuery, query),
			zap.String(logger.FieldCode, suggestion.Code),
			zap.Float64("confidence", suggestion.Confidence),
			zap.String("reason", suggestion.Reason),
		)
		return []matcher.OccupationMatch{}, nil
	}

	rec, _ := m.Catalog().Get(suggestion.Code)
	log.Info("AI suggestion accepted",
		zap.String(logger.FieldQuery, query),
		zap.String(logger.FieldCode, suggestion.Code),
		zap.Float64("confidence", suggestion.Confidence),
		zap.String("reason", suggestion.Reason),
	)
	return []matcher.OccupationMatch{suggestion.Match(rec)}, nil
}

func queryFromArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
