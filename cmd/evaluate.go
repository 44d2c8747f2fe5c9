package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/matcher"
	"github.com/spigell/occupation-matcher/internal/occupation"
	"github.com/spigell/occupation-matcher/internal/salary"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate TITLE...",
	Short: "Place an offered wage against the wage statistics of the matched occupation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runEvaluate(cmd, queryFromArgs(args))
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().Float64P("wage", "w", 0, "offered wage")
	evaluateCmd.Flags().Bool("hourly", false, "the wage is hourly rather than annual")
	evaluateCmd.Flags().Float64("revenue", 0, "annual revenue of the business, enables payroll checks")
	evaluateCmd.Flags().Float64("payroll", 0, "current annual payroll of the business")
	evaluateCmd.Flags().BoolP("yes", "y", false, "take the best match without asking")
}

type evaluationInput struct {
	Wage     float64
	Hourly   bool
	Business salary.Input
}

type evaluation struct {
	Occupation    matcher.OccupationMatch `json:"occupation"`
	Wage          float64                 `json:"wage"`
	Basis         string                  `json:"basis"`
	Percentile    *float64                `json:"percentile,omitempty"`
	Median        float64                 `json:"median,omitempty"`
	MinimumAnnual float64                 `json:"minimum_annual"`
	BelowMinimum  bool                    `json:"below_minimum"`

	PayrollNow       *salary.Classification `json:"payroll_now,omitempty"`
	PayrollAfterHire *salary.Classification `json:"payroll_after_hire,omitempty"`
	Affordable       *salary.Range          `json:"affordable,omitempty"`
}

func runEvaluate(cmd *cobra.Command, query string) {
	s := startup(context.Background())

	in := evaluationInput{}
	in.Wage, _ = cmd.Flags().GetFloat64("wage")
	in.Hourly, _ = cmd.Flags().GetBool("hourly")
	in.Business.AnnualRevenue, _ = cmd.Flags().GetFloat64("revenue")
	in.Business.CurrentPayroll, _ = cmd.Flags().GetFloat64("payroll")

	if in.Wage <= 0 {
		s.logger.Fatal("a positive --wage is required")
	}

	opts := matchOptions(s.config.Match)
	opts.IncludeWithoutWages = false

	results, err := matchWithFallback(s, query, opts)
	if err != nil {
		s.logger.Fatal("matching title", zap.Error(err), zap.String(logger.FieldQuery, query))
	}
	if len(results) == 0 {
		s.logger.Info("exiting", zap.String("reason", "no occupation with wage data matched"), zap.String(logger.FieldQuery, query))
		return
	}

	chosen := results[0]
	if autoApprove, _ := cmd.Flags().GetBool("yes"); !autoApprove && len(results) > 1 {
		chosen, err = selectMatch(results)
		if errors.Is(err, errNoSelection) {
			s.logger.Info("exiting", zap.String("reason", "no candidate selected"))
			return
		}
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
	}

	rec, _ := s.matcher.Catalog().Get(chosen.Code)
	report, err := evaluate(rec, chosen, in, *s.config.Salary)
	if err != nil {
		s.logger.Fatal("evaluating wage", zap.Error(err), zap.String(logger.FieldCode, chosen.Code))
	}

	if err := printJSON(cmd.OutOrStdout(), report); err != nil {
		s.logger.Fatal("writing results", zap.Error(err))
	}
}

func evaluate(rec *occupation.Record, match matcher.OccupationMatch, in evaluationInput, policy salary.Policy) (*evaluation, error) {
	if rec == nil || !rec.HasWages() {
		return nil, fmt.Errorf("occupation %s has no wage data: %w", match.Code, salary.ErrInsufficientWageData)
	}

	report := &evaluation{
		Occupation:    match,
		Wage:          in.Wage,
		Basis:         "annual",
		MinimumAnnual: salary.MinimumAnnual(policy.MinimumHourlyWage, policy.HoursPerYear),
	}

	figures := rec.Wages.Annual
	annualWage := in.Wage
	if in.Hourly {
		report.Basis = "hourly"
		figures = rec.Wages.Hourly
		annualWage = in.Wage * policy.HoursPerYear
	}
	report.BelowMinimum = annualWage < report.MinimumAnnual

	report.Median = figures.P50
	if report.Median == 0 {
		report.Median = figures.Median
	}

	percentile, err := salary.PercentileOf(in.Wage, figures)
	switch {
	case err == nil:
		report.Percentile = &percentile
	case errors.Is(err, salary.ErrInsufficientWageData):
		// The report still carries the payroll figures.
	default:
		return nil, err
	}

	if in.Business.AnnualRevenue > 0 {
		th := salary.DefaultThresholds()
		now := salary.ClassifyPayrollRatio(in.Business.CurrentPayroll, in.Business.AnnualRevenue, th)
		after := salary.ClassifyPayrollRatio(in.Business.CurrentPayroll+annualWage, in.Business.AnnualRevenue, th)
		report.PayrollNow = &now
		report.PayrollAfterHire = &after

		affordable, err := salary.Affordable(in.Business, policy)
		if err != nil {
			return nil, err
		}
		report.Affordable = &affordable
	}

	return report, nil
}
