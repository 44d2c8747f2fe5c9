package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/logger"
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORDS...",
	Short: "Browse catalog occupations by keyword",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := startup(context.Background())
		query := queryFromArgs(args)
		limit, _ := cmd.Flags().GetInt("limit")

		results := s.matcher.Search(query, limit)
		s.logger.Debug("keyword search", zap.String(logger.FieldQuery, query), zap.Int("found", len(results)))

		if err := printJSON(cmd.OutOrStdout(), results); err != nil {
			s.logger.Fatal("writing results", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "l", 10, "maximum number of occupations to list")
}
