// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"os"

	"fjacquet/up-budget/internal/config"
	"fjacquet/up-budget/internal/container"
	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/report"
	"fjacquet/up-budget/internal/validation"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to every command
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Format     string
	Mock       bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built before any subcommand runs
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "up-budget",
		Short: "Personal finance dashboard for Up Bank accounts.",
		Long: `up-budget fetches accounts, transactions and categories from the Up Bank API,
normalizes them into one canonical transaction table and reports balances, income,
spending by category, monthly trends and budget recommendations.

Without an UP_API_TOKEN the embedded mock dataset is used.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
			AppContainer = nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	flags := Cmd.PersistentFlags()
	flags.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.up-budget, .up-budget or .)")
	flags.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	flags.StringVarP(&SharedFlags.Format, "format", "f", report.FormatText, "Output format (text, json, yaml)")
	flags.BoolVar(&SharedFlags.Mock, "mock", false, "Use the embedded mock dataset instead of the Up API")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(SharedFlags.Format); err != nil {
		return err
	}

	config.LoadEnv(Log)

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyFlags(cfg, SharedFlags)

	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	AppContainer, err = container.NewContainer(ctx, cfg, container.WithLogger(Log))
	return err
}

// ApplyFlags overrides configuration with explicitly set flags.
func ApplyFlags(cfg *config.Config, flags CommonFlags) {
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if flags.Mock {
		cfg.UpAPI.Mock = true
	}
}

// Container returns the application container or exits when setup has not
// run.
func Container() *container.Container {
	if AppContainer == nil {
		fmt.Fprintln(os.Stderr, "application not initialized")
		os.Exit(1)
	}
	return AppContainer
}
