package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pingcheck/internal/appwrite"
	"pingcheck/internal/checker"
	"pingcheck/internal/config"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pingcheck",
		Short:         "Verify connectivity to an Appwrite project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "pingcheck.yaml", "path to configuration file (YAML)")
	root.PersistentFlags().String("log-level", "", "override the configured log level")

	root.AddCommand(newServeCmd(), newPingCmd())
	return root
}

// loadConfig reads the config file and applies the --log-level override.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.Set(strings.ToLower(level)); err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func newChecker(cfg config.Config, logger *zap.Logger) *checker.Checker {
	client := appwrite.NewClient(cfg.Endpoint, cfg.ProjectID, cfg.Timeout())
	return checker.New(client,
		checker.WithLogger(logger),
		checker.WithProject(cfg.Project()),
		checker.WithPanelOpen(cfg.PanelOpenOnStart),
	)
}
