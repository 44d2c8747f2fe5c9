package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/occupation-matcher/internal/salary"
)

const (
	app       = "occupation-matcher"
	envPrefix = "OCCUPATION_MATCHER"
)

type Config struct {
	Catalog *CatalogConfig `mapstructure:"catalog"`
	Match   *MatchConfig   `mapstructure:"match"`
	Salary  *salary.Policy `mapstructure:"salary"`
	AI      *AIConfig      `mapstructure:"ai"`
	Market  *MarketConfig  `mapstructure:"market"`
}

type CatalogConfig struct {
	Path          string `mapstructure:"path"`
	ExcludeFile   string `mapstructure:"exclude-file"`
	PartialTitles bool   `mapstructure:"partial-titles"`
	RequireWages  bool   `mapstructure:"require-wages"`
}

type MatchConfig struct {
	MaxResults          int      `mapstructure:"max-results"`
	MinConfidence       float64  `mapstructure:"min-confidence"`
	IncludeWithoutWages bool     `mapstructure:"include-without-wages"`
	PreferredGroups     []string `mapstructure:"preferred-groups"`
}

type AIConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	MinimumConfidence float64       `mapstructure:"minimum-confidence"`
	MaxCandidates     int           `mapstructure:"max-candidates"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type MarketConfig struct {
	APIURL    string        `mapstructure:"api-url"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
	Area      int           `mapstructure:"area"`
	Currency  string        `mapstructure:"currency"`
	PageDelay time.Duration `mapstructure:"page-delay"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "occupation-matcher maps free-text job titles to standard occupation codes",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is occupation-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("catalog", "", "occupation catalog file (json or yaml)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "occupations.json")
	v.SetDefault("catalog.exclude-file", "")
	v.SetDefault("catalog.partial-titles", false)
	v.SetDefault("catalog.require-wages", false)

	v.SetDefault("match.max-results", 5)
	v.SetDefault("match.min-confidence", 0.3)
	v.SetDefault("match.include-without-wages", true)
	v.SetDefault("match.preferred-groups", []string{})

	policy := salary.DefaultPolicy()
	v.SetDefault("salary.minimum-hourly-wage", policy.MinimumHourlyWage)
	v.SetDefault("salary.hours-per-year", policy.HoursPerYear)
	v.SetDefault("salary.target-payroll-ratio", policy.TargetPayrollRatio)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.minimum-confidence", 0.5)
	v.SetDefault("ai.max-candidates", 25)
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)

	v.SetDefault("market.api-url", "https://api.hh.ru")
	v.SetDefault("market.token-file", "")
	v.SetDefault("market.user-agent", "")
	v.SetDefault("market.area", 0)
	v.SetDefault("market.currency", "RUR")
	v.SetDefault("market.page-delay", "0s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
	case errors.As(err, &notFound) && cfgFile == "":
		// Defaults, flags and environment are enough without a file.
	default:
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return config, nil
}
