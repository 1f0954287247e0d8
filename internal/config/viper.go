// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/up-budget/internal/dataerror"
	"fjacquet/up-budget/internal/dateutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. UPBUDGET_LOG_LEVEL.
const EnvPrefix = "UPBUDGET"

// DefaultBaseURL is the Up Bank API root.
const DefaultBaseURL = "https://api.up.com.au/api/v1"

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// UpAPIConfig holds the banking data source settings. An empty token means
// the embedded mock dataset is served.
type UpAPIConfig struct {
	Token           string `mapstructure:"token" yaml:"-"` // Never serialize the token
	BaseURL         string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	PageSize        int    `mapstructure:"page_size" yaml:"page_size"`
	MaxTransactions int    `mapstructure:"max_transactions" yaml:"max_transactions"`
	Mock            bool   `mapstructure:"mock" yaml:"mock"`
}

// ReportConfig holds presentation settings shared by every command.
type ReportConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// AggregateConfig tunes the aggregation engine.
type AggregateConfig struct {
	ExcludeInternalFromTrend bool `mapstructure:"exclude_internal_from_trend" yaml:"exclude_internal_from_trend"`
}

// BudgetConfig locates the recommendation category mapping table.
type BudgetConfig struct {
	MappingFile string `mapstructure:"mapping_file" yaml:"mapping_file"`
}

// AIConfig configures the optional Gemini category matcher.
type AIConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Model             string `mapstructure:"model" yaml:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// LedgerConfig locates the SQLite database of manual entries.
type LedgerConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CSVConfig controls CSV exports.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Config represents the complete application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	UpAPI     UpAPIConfig     `mapstructure:"upapi" yaml:"upapi"`
	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
	Aggregate AggregateConfig `mapstructure:"aggregate" yaml:"aggregate"`
	Budget    BudgetConfig    `mapstructure:"budget" yaml:"budget"`
	AI        AIConfig        `mapstructure:"ai" yaml:"ai"`
	Ledger    LedgerConfig    `mapstructure:"ledger" yaml:"ledger"`
	CSV       CSVConfig       `mapstructure:"csv" yaml:"csv"`
}

// MockMode reports whether the embedded mock dataset should be used instead
// of the live API.
func (c *Config) MockMode() bool {
	return c.UpAPI.Mock || strings.TrimSpace(c.UpAPI.Token) == ""
}

// InitializeConfigFromFile initializes Viper configuration with hierarchical
// loading. An empty configFile searches the default locations; a missing
// explicit file is an error.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.up-budget")
		v.AddConfigPath(".up-budget")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Secrets come from their conventional unprefixed variables
	if err := v.BindEnv("upapi.token", "UP_API_TOKEN"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind UP_API_TOKEN environment variable: %v\n", err)
	}
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration produced by defaults alone, ignoring
// files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("upapi.token", "")
	v.SetDefault("upapi.base_url", DefaultBaseURL)
	v.SetDefault("upapi.timeout_seconds", 10)
	v.SetDefault("upapi.page_size", 100)
	v.SetDefault("upapi.max_transactions", 500)
	v.SetDefault("upapi.mock", false)

	v.SetDefault("report.timezone", dateutils.DefaultTimezone)

	v.SetDefault("aggregate.exclude_internal_from_trend", false)

	v.SetDefault("budget.mapping_file", "budget_mapping.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.api_key", "")

	v.SetDefault("ledger.path", "up-budget.db")

	v.SetDefault("csv.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return &dataerror.ValidationError{Field: "log.level", Reason: fmt.Sprintf("unknown level %q", config.Log.Level)}
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return &dataerror.ValidationError{Field: "log.format", Reason: fmt.Sprintf("%q (must be 'text' or 'json')", config.Log.Format)}
	}

	if len(config.CSV.Delimiter) != 1 {
		return &dataerror.ValidationError{Field: "csv.delimiter", Reason: fmt.Sprintf("must be a single character, got %q", config.CSV.Delimiter)}
	}

	if config.UpAPI.TimeoutSeconds < 1 || config.UpAPI.TimeoutSeconds > 120 {
		return &dataerror.ValidationError{Field: "upapi.timeout_seconds", Reason: fmt.Sprintf("must be between 1 and 120, got %d", config.UpAPI.TimeoutSeconds)}
	}

	if config.UpAPI.PageSize < 1 || config.UpAPI.PageSize > 100 {
		return &dataerror.ValidationError{Field: "upapi.page_size", Reason: fmt.Sprintf("must be between 1 and 100, got %d", config.UpAPI.PageSize)}
	}

	if config.UpAPI.MaxTransactions < 1 {
		return &dataerror.ValidationError{Field: "upapi.max_transactions", Reason: fmt.Sprintf("must be positive, got %d", config.UpAPI.MaxTransactions)}
	}

	if _, err := dateutils.LoadLocation(config.Report.Timezone); err != nil {
		return &dataerror.ValidationError{Field: "report.timezone", Reason: err.Error()}
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return &dataerror.ValidationError{Field: "ai.api_key", Reason: "GEMINI_API_KEY required when AI is enabled"}
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return &dataerror.ValidationError{Field: "ai.requests_per_minute", Reason: fmt.Sprintf("must be between 1 and 1000, got %d", config.AI.RequestsPerMinute)}
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return &dataerror.ValidationError{Field: "ai.timeout_seconds", Reason: fmt.Sprintf("must be between 1 and 300, got %d", config.AI.TimeoutSeconds)}
		}
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
