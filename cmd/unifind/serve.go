package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/unifind/internal/config"
	"github.com/erazemk/unifind/internal/db"
	"github.com/erazemk/unifind/internal/gateway"
	"github.com/erazemk/unifind/internal/logging"
	"github.com/erazemk/unifind/internal/session"
	"github.com/erazemk/unifind/internal/store"
	"github.com/erazemk/unifind/internal/web"
)

const (
	shutdownTimeout = 5 * time.Second
	purgeInterval   = time.Hour
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("addr", ":8080", "listen address")
	f.String("api-base-url", "http://localhost:3000", "backend API base URL")
	f.String("session-backend", config.BackendSQLite, "session storage (sqlite or redis)")
	f.String("redis-addr", "localhost:6379", "Redis address for the redis session backend")
	f.Bool("cookie-secure", false, "mark the session cookie Secure")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	logger.Info("database ready", zap.String("path", cfg.DBPath))

	cookieSecret, err := store.GetCookieSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading cookie secret: %w", err)
	}
	credentialKey, err := store.GetCredentialKey(ctx, database)
	if err != nil {
		return fmt.Errorf("loading credential key: %w", err)
	}
	sealer := session.NewSealer(credentialKey)

	var storage session.Storage
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := session.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer client.Close()
		storage = session.NewRedisStorage(client, sealer, cfg.Session.TTL)
	default:
		storage = session.NewSQLiteStorage(database, sealer)
	}
	logger.Info("session storage ready", zap.String("backend", cfg.Session.Backend))

	reg := prometheus.NewRegistry()
	gwOpts := []gateway.Option{
		gateway.WithTimeout(cfg.GatewayTimeout),
		gateway.WithLogger(logger),
	}
	webCfg := web.Config{
		DB:             database,
		Logger:         logger,
		ListOptions:    gateway.ListOptions{Limit: cfg.ListLimit},
		Location:       cfg.Location,
		ConfirmTTL:     cfg.ConfirmTTL,
		CookieSecret:   cookieSecret,
		CookieTTL:      cfg.Session.TTL,
		CookieSecure:   cfg.Session.CookieSecure || cfg.IsProduction(),
		VerifyInterval: cfg.Session.VerifyInterval,
		IdleTimeout:    cfg.Session.IdleTimeout,
	}
	if cfg.MetricsEnabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		gwOpts = append(gwOpts, gateway.WithMetrics(gateway.NewMetrics(reg)))
		webCfg.Registry, webCfg.Gatherer = reg, reg
	}

	gw, err := gateway.New(cfg.APIBaseURL, gwOpts...)
	if err != nil {
		return err
	}
	webCfg.Gateway = gw
	webCfg.Sessions = session.NewManager(storage, session.GatewayAuthenticator{Client: gw}, logger)

	srv, err := web.NewServer(webCfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", zap.String("addr", cfg.Addr), zap.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		srv.RunSweeper(gctx)
		return nil
	})
	g.Go(func() error {
		purgeLoop(gctx, database, cfg.Session.TTL, cfg.Session.Backend == config.BackendSQLite, logger)
		return nil
	})

	err = g.Wait()
	logger.Info("server stopped, closing database")
	return err
}

// purgeLoop drops revocations of cookies that have expired and, when
// sessions live in SQLite, sessions whose cookies can no longer be valid.
// Redis expires its own keys.
func purgeLoop(ctx context.Context, database *sql.DB, ttl time.Duration, sessions bool, logger *zap.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if sessions {
				n, err := store.PurgeSessions(ctx, database, time.Now().Add(-ttl))
				if err != nil {
					logger.Error("failed to purge sessions", zap.Error(err))
				} else if n > 0 {
					logger.Info("purged expired sessions", zap.Int64("count", n))
				}
			}
			if _, err := store.SweepRevokedCookies(ctx, database, time.Now()); err != nil {
				logger.Error("failed to sweep revoked cookies", zap.Error(err))
			}
		}
	}
}
