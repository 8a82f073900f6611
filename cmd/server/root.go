package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/casting-agency/internal/config"
)

// rootCmd runs the HTTP server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "casting",
	Short:         "Casting agency API",
	Long:          `Role-based REST API for managing actors and movies, secured by externally issued JWTs.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, consumeAuditCmd)
}

// loadConfig reads the environment and configures logging. The returned
// context is cancelled on SIGINT or SIGTERM.
func loadConfig(cmd *cobra.Command) (context.Context, context.CancelFunc, config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, config.Config{}, nil, err
	}
	closeLogs, err := setupLogging(cfg.Log, os.Stdout)
	if err != nil {
		return nil, nil, config.Config{}, nil, err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx, cancel, cfg, closeLogs, nil
}
