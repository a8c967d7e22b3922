package main

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/bookshelf-server/database"
	"github.com/dtroode/bookshelf-server/internal/config"
	"github.com/dtroode/bookshelf-server/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long:  "Applies the embedded schema migrations. serve runs them on startup as well.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return err
			}

			log.Info("migrations applied")
			return nil
		},
	}
}
