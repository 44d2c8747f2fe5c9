package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/occupation-matcher/internal/filtering"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the loaded catalog and its load pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		s := startup(context.Background())

		filterCfg := filterConfig(s.config.Catalog)
		steps := filtering.Default(filterCfg)
		for _, step := range steps {
			if step.IsEnabled() {
				if err := step.Validate(filterCfg); err != nil {
					s.logger.Fatal("validating filter", zap.String("name", step.Name()), zap.Error(err))
				}
			}
		}

		groups := map[string]int{}
		withWages := 0
		for _, rec := range s.matcher.Catalog().Records() {
			groups[rec.Group]++
			if rec.HasWages() {
				withWages++
			}
		}

		report := map[string]any{
			"path":           s.config.Catalog.Path,
			"occupations":    s.matcher.Catalog().Len(),
			"with_wages":     withWages,
			"indexed_titles": s.matcher.Index().Len(),
			"groups":         groups,
			"filters":        filtering.Describe(steps),
		}
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			s.logger.Fatal("writing results", zap.Error(err))
		}
	},
}

var catalogExcludeCmd = &cobra.Command{
	Use:   "exclude CODE...",
	Short: "Append occupation codes to the exclude file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, err := newLogger()
		if err != nil {
			cobra.CheckErr(err)
		}

		config, err := getConfig()
		if err != nil {
			log.Fatal("getting a config", zap.Error(err))
		}

		path := config.Catalog.ExcludeFile
		if path == "" {
			log.Fatal("catalog.exclude-file is not configured")
		}

		excluded, err := filtering.LoadExcludedCodes(path)
		if err != nil {
			log.Fatal("reading exclude file", zap.String("path", path), zap.Error(err))
		}

		reason, _ := cmd.Flags().GetString("reason")
		added := excluded.Add(reason, time.Now(), args...)

		if err := excluded.ToFile(path); err != nil {
			log.Fatal("writing exclude file", zap.String("path", path), zap.Error(err))
		}

		log.Info("appended to exclude file",
			zap.String("path", path),
			zap.Int("added", added),
			zap.Int("total", len(excluded.Items)),
		)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogExcludeCmd)

	catalogExcludeCmd.Flags().StringP("reason", "r", "", "why the codes are excluded")
}
