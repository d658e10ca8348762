package main

import (
	"fmt"

	"github.com/maxviazov/bank-branches-graphql/internal/config"
	"github.com/maxviazov/bank-branches-graphql/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:   "bank-branches-graphql",
		Short: "Read-only GraphQL API over Indian bank branches",
		Long: `Serves banks and branches through GraphQL with filtering and Relay
cursor pagination. The dataset is loaded out of band with "ingest".`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "",
		"YAML configuration file. APP_* environment variables override its values.")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newMigrateCmd(&cfgPath),
		newIngestCmd(&cfgPath),
	)
	return root
}

// bootstrap loads configuration and builds the application logger.
func bootstrap(cfgPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config loading failed: %w", err)
	}
	if cfg.Logger.Env == "" {
		cfg.Logger.Env = cfg.App.Env
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("logger initialization failed: %w", err)
	}
	return cfg, log, nil
}
