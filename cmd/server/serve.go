package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/casting-agency/internal/auth"
	"github.com/iliyamo/casting-agency/internal/config"
	"github.com/iliyamo/casting-agency/internal/database"
	"github.com/iliyamo/casting-agency/internal/router"
	"github.com/iliyamo/casting-agency/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
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
	if strings.EqualFold(cfg.DB.Driver, database.DriverSQLite) {
		// the embedded store has no external provisioning step
		if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	keys := auth.NewKeySet(cfg.Auth.KeySetURL(), cfg.Auth.JWKSCacheTTL, &http.Client{Timeout: cfg.Auth.FetchTimeout})
	verifier := auth.NewVerifier(keys, cfg.Auth.Issuer(), cfg.Auth.Audience, cfg.Auth.Algorithms)

	var events service.Publisher = service.NoopPublisher{}
	var async *service.AsyncPublisher
	if cfg.AMQP.URL != "" {
		async = service.NewAsyncPublisher(service.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue), 5*time.Second)
		events = async
	}

	e := router.NewServer(router.Deps{
		DB:          db,
		Verifier:    verifier,
		Redis:       rdb,
		Events:      events,
		Cache:       cfg.Cache,
		RateLimit:   cfg.RateLimit,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DB.Driver, "redis", rdb != nil, "amqp", cfg.AMQP.URL != "")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	err = e.Shutdown(shutdownCtx)
	if async != nil {
		// no handler can publish once the server has shut down
		if drainErr := async.Drain(shutdownCtx); drainErr != nil {
			slog.Warn("audit events dropped on shutdown", "error", drainErr)
		}
	}
	return err
}
