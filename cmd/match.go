package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/logger"
	"github.com/spigell/occupation-matcher/internal/matcher"
)

const PromptNone = "None of these"

var errNoSelection = errors.New("no occupation selected")

var matchCmd = &cobra.Command{
	Use:   "match TITLE...",
	Short: "Match a job title to catalog occupations",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, queryFromArgs(args))
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("yes", "y", false, "do not ask which candidate to keep, print all of them")
	matchCmd.Flags().IntP("max-results", "n", 0, "maximum number of candidates (default from match.max-results)")
	matchCmd.Flags().Float64("min-confidence", 0, "minimum confidence (default from match.min-confidence)")
	matchCmd.Flags().StringSlice("preferred-group", nil, "occupation groups to favour on ties")
	matchCmd.Flags().Bool("with-wages", false, "skip occupations without wage data")

	viper.BindPFlag("match.max-results", matchCmd.Flags().Lookup("max-results"))
	viper.BindPFlag("match.min-confidence", matchCmd.Flags().Lookup("min-confidence"))
	viper.BindPFlag("match.preferred-groups", matchCmd.Flags().Lookup("preferred-group"))
}

func runMatch(cmd *cobra.Command, query string) {
	s := startup(context.Background())

	opts := matchOptions(s.config.Match)
	if withWages, _ := cmd.Flags().GetBool("with-wages"); withWages {
		opts.IncludeWithoutWages = false
	}

	results, err := matchWithFallback(s, query, opts)
	if err != nil {
		s.logger.Fatal("matching title", zap.Error(err), zap.String(logger.FieldQuery, query))
	}

	if len(results) == 0 {
		s.logger.Info("exiting", zap.String("reason", "no occupation matched"), zap.String(logger.FieldQuery, query))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("yes")
	if autoApprove || len(results) == 1 {
		if err := printJSON(cmd.OutOrStdout(), results); err != nil {
			s.logger.Fatal("writing results", zap.Error(err))
		}
		return
	}

	selected, err := selectMatch(results)
	if errors.Is(err, errNoSelection) {
		s.logger.Info("exiting", zap.String("reason", "no candidate selected"))
		return
	}
	if err != nil {
		s.logger.Fatal("exiting", zap.Error(err))
	}

	if err := printJSON(cmd.OutOrStdout(), selected); err != nil {
		s.logger.Fatal("writing results", zap.Error(err))
	}
}

// matchWithFallback runs the lexical matcher and, when it finds nothing,
// the AI resolver if one is configured.
func matchWithFallback(s *session, query string, opts matcher.Options) ([]matcher.OccupationMatch, error) {
	results := s.matcher.Match(query, opts)
	if len(results) > 0 {
		return results, nil
	}

	resolver, err := newResolver(s.ctx, s.config.AI, s.logger)
	if err != nil {
		s.logger.Warn("skipping AI fallback", zap.Error(err))
		return results, nil
	}
	if resolver == nil {
		return results, nil
	}

	return resolveWithAI(s.ctx, s.matcher, resolver, s.config.AI, query, opts, s.logger)
}

func matchLabel(m matcher.OccupationMatch) string {
	return fmt.Sprintf("%s %s (%.2f, %s on %q)", m.Code, m.Title, m.Confidence, m.MatchType, m.MatchedOn)
}

func selectMatch(results []matcher.OccupationMatch) (matcher.OccupationMatch, error) {
	items := make([]string, 0, len(results)+1)
	for _, r := range results {
		items = append(items, matchLabel(r))
	}

	prompt := promptui.Select{
		Label: "Choose an occupation and press ENTER",
		Items: append(items, PromptNone),
		Size:  len(items) + 1,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return matcher.OccupationMatch{}, err
	}
	if idx >= len(results) {
		return matcher.OccupationMatch{}, errNoSelection
	}
	return results[idx], nil
}
