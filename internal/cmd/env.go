// Package cmd holds the one-shot oophub subcommands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/config"
	"github.com/gravitrone/oophub/internal/logging"
)

// env is what every catalog command needs.
type env struct {
	cfg    *config.Config
	client *api.Client
	logger *slog.Logger
}

// loadEnv reads the config and builds a client that logs to stderr.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	client := api.NewClient(cfg.Endpoint(),
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RateLimit),
		api.WithLogger(logger),
	)
	return &env{cfg: cfg, client: client, logger: logger}, nil
}
