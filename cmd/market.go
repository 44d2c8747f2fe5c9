package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/market"
	"github.com/spigell/occupation-matcher/internal/matcher"
	"github.com/spigell/occupation-matcher/internal/occupation"
	"github.com/spigell/occupation-matcher/internal/salary"
	"github.com/spigell/occupation-matcher/internal/secrets"
)

var marketCmd = &cobra.Command{
	Use:   "market TITLE...",
	Short: "Compare catalog wages of the matched occupation with live vacancy salaries",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMarket(cmd, queryFromArgs(args))
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)

	marketCmd.Flags().Bool("use-query", false, "search vacancies by the typed title instead of the occupation title")
	marketCmd.Flags().IntSlice("area", nil, "vacancy area ids (default from market.area)")
}

type marketReport struct {
	Occupation matcher.OccupationMatch `json:"occupation"`
	SearchText string                  `json:"search_text"`
	Currency   string                  `json:"currency"`
	Vacancies  int                     `json:"vacancies"`
	Samples    int                     `json:"samples"`
	Areas      map[string]int          `json:"areas,omitempty"`
	Market     *occupation.WageFigures `json:"market,omitempty"`
	Catalog    *occupation.WageFigures `json:"catalog,omitempty"`
	// MarketMedianPercentile places the market median on the catalog curve.
	MarketMedianPercentile *float64 `json:"market_median_percentile,omitempty"`
}

func runMarket(cmd *cobra.Command, query string) {
	s := startup(context.Background())
	cfg := s.config.Market

	results, err := matchWithFallback(s, query, matchOptions(s.config.Match))
	if err != nil {
		s.logger.Fatal("matching title", zap.Error(err), zap.String(logger.FieldQuery, query))
	}
	if len(results) == 0 {
		s.logger.Info("exiting", zap.String("reason", "no occupation matched"), zap.String(logger.FieldQuery, query))
		return
	}
	top := results[0]

	token, err := secrets.Load(secrets.Source{
		Name:     "market api token",
		File:     cfg.TokenFile,
		Optional: true,
	})
	if err != nil {
		s.logger.Fatal("loading market api token", zap.Error(err))
	}

	client := market.New(s.logger, market.Options{
		APIURL:    cfg.APIURL,
		Token:     token,
		UserAgent: cfg.UserAgent,
		PageDelay: cfg.PageDelay,
	})

	params := &market.SearchParams{
		Text:           top.Title,
		SearchField:    "name",
		Currency:       cfg.Currency,
		OnlyWithSalary: true,
	}
	if useQuery, _ := cmd.Flags().GetBool("use-query"); useQuery {
		params.Text = query
	}
	if areas, _ := cmd.Flags().GetIntSlice("area"); len(areas) > 0 {
		params.Areas = areas
	} else if cfg.Area > 0 {
		params.Areas = []int{cfg.Area}
	}

	s.logger.Info("searching vacancies", zap.String("text", params.Text), zap.String(logger.FieldCode, top.Code))

	vacancies, err := client.Search(s.ctx, params)
	if err != nil {
		s.logger.Fatal("searching vacancies", zap.Error(err))
	}

	rec, _ := s.matcher.Catalog().Get(top.Code)
	report, err := compareMarket(top, rec, params.Text, cfg.Currency, vacancies)
	if err != nil {
		s.logger.Fatal("comparing salaries", zap.Error(err))
	}

	if err := printJSON(cmd.OutOrStdout(), report); err != nil {
		s.logger.Fatal("writing results", zap.Error(err))
	}
}

func compareMarket(match matcher.OccupationMatch, rec *occupation.Record, text, currency string, vacancies *market.Vacancies) (*marketReport, error) {
	samples := vacancies.SalarySamples(currency)
	report := &marketReport{
		Occupation: match,
		SearchText: text,
		Currency:   currency,
		Vacancies:  vacancies.Len(),
		Samples:    len(samples),
		Areas:      vacancies.ByArea(),
	}

	if rec.HasWages() {
		catalog := rec.Wages.Annual
		report.Catalog = &catalog
	}

	figures, err := salary.Percentiles(samples)
	if errors.Is(err, salary.ErrInsufficientWageData) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.Market = &figures

	if report.Catalog != nil {
		p, err := salary.PercentileOf(figures.Median, *report.Catalog)
		if err == nil {
			report.MarketMedianPercentile = &p
		}
	}

	return report, nil
}
