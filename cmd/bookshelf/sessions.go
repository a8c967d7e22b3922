package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/bookshelf-server/internal/config"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
	"github.com/dtroode/bookshelf-server/internal/repository/postgres"
	"github.com/dtroode/bookshelf-server/internal/service"
	"github.com/dtroode/bookshelf-server/internal/token"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <username>",
		Short: "Log a user out everywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			db, err := postgres.NewConnection(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer db.Close()

			user, err := postgres.NewUserRepository(db).GetByUsername(cmd.Context(), args[0])
			if errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("user %q not found", args[0])
			}
			if err != nil {
				return err
			}

			sessions := service.NewSessionService(token.NewJWT(cfg.Session.Secret), postgres.NewSessionRepository(db), log)
			if err := sessions.RevokeAllForUser(cmd.Context(), user.ID); err != nil {
				return fmt.Errorf("failed to revoke sessions: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "revoked all sessions of %s\n", user.Username)
			return nil
		},
	})

	return cmd
}
