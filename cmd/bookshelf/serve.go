package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpctx "github.com/dtroode/bookshelf-server/internal/api/http/context"
	"github.com/dtroode/bookshelf-server/internal/api/http/router"
	httpserver "github.com/dtroode/bookshelf-server/internal/api/http/server"
	"github.com/dtroode/bookshelf-server/internal/analysis"
	"github.com/dtroode/bookshelf-server/internal/config"
	"github.com/dtroode/bookshelf-server/internal/llm"
	"github.com/dtroode/bookshelf-server/internal/llm/anthropic"
	"github.com/dtroode/bookshelf-server/internal/llm/gemini"
	"github.com/dtroode/bookshelf-server/internal/logger"
	"github.com/dtroode/bookshelf-server/internal/model"
	"github.com/dtroode/bookshelf-server/internal/prompt"
	"github.com/dtroode/bookshelf-server/internal/repository/postgres"
	"github.com/dtroode/bookshelf-server/internal/server"
	"github.com/dtroode/bookshelf-server/internal/service"
	"github.com/dtroode/bookshelf-server/internal/storage/minio"
	"github.com/dtroode/bookshelf-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: `  # Serve on the default port 8000 with Anthropic
  AI_API_KEY=... bookshelf serve

  # Use Gemini instead
  AI_PROVIDER=gemini AI_API_KEY=... bookshelf serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger.New(cfg.LogLevel))
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("starting bookshelf",
		"version", buildVersion,
		"commit", buildCommit,
		"build_date", buildDate)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	bookRepo := postgres.NewBookRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	sessionService := service.NewSessionService(token.NewJWT(cfg.Session.Secret), sessionRepo, log)
	authService := service.NewAuth(userRepo, sessionService, log)
	bookService := service.NewBook(bookRepo, log)

	provider, err := newProvider(cfg.AI)
	if err != nil {
		return err
	}
	if !provider.Configured() {
		log.Warn("AI API key is not set, enrichment endpoints will fail",
			"provider", provider.Name())
	}

	templates, err := prompt.Load(cfg.Enrichment.PromptFile)
	if err != nil {
		return err
	}

	storage, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	exporter := analysis.NewExporter(cfg.Enrichment.ExportDir, storage, log)
	enrichmentService := service.NewEnrichment(bookRepo, provider, templates, exporter, service.EnrichmentConfig{
		SampleImage:       cfg.Enrichment.SampleImage,
		ReminderMaxTokens: cfg.AI.ReminderMaxTokens,
		AnalysisMaxTokens: cfg.AI.AnalysisMaxTokens,
	}, log)

	r := router.New(
		authService,
		bookService,
		enrichmentService,
		sessionService,
		httpctx.NewManager(),
		router.Config{
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			CookieName:   cfg.Session.CookieName,
			CookieSecure: cfg.Session.CookieSecure,
		},
		log,
	)

	srv := httpserver.NewHTTPServer(r.Register(), ":"+cfg.HTTP.Port)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	serverErr := make(chan error, 1)
	go func(s model.Server) {
		log.Info("starting server", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		serverErr <- s.Start(sl)
	}(srv)

	select {
	case <-ctx.Done():
		log.Info("received interruption signal, shutting down")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("error during server shutdown", "error", err, "address", srv.Address())
		return err
	}
	<-serverErr

	log.Info("shutdown complete")
	return nil
}

// newProvider picks the language model backend named in cfg.
func newProvider(cfg config.AI) (llm.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	case "gemini":
		return gemini.New(gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// newStorage returns the export mirror, or nil when it is disabled.
func newStorage(ctx context.Context, cfg config.Storage) (model.Storage, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client, err := minio.New(ctx, minio.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize export storage: %w", err)
	}
	return client, nil
}
