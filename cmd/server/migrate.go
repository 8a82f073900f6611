package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iliyamo/casting-agency/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the actors and movies tables if they do not exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel, cfg, closeLogs, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer cancel()
		defer closeLogs()

		db, err := database.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
			return err
		}
		slog.Info("schema is up to date", "driver", cfg.DB.Driver)
		return nil
	},
}
