// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Command api is the entry point for the tutoring platform HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the token codec, stores, gates and services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/web-enterprise-24/backend/internal/api"
	"github.com/web-enterprise-24/backend/internal/platform/config"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
	"github.com/web-enterprise-24/backend/internal/platform/migration"
	pgstore "github.com/web-enterprise-24/backend/internal/platform/postgres"
	redisstore "github.com/web-enterprise-24/backend/internal/platform/redis"
	"github.com/web-enterprise-24/backend/internal/platform/sec"
	"github.com/web-enterprise-24/backend/internal/users/account"
	"github.com/web-enterprise-24/backend/internal/users/apikey"
	"github.com/web-enterprise-24/backend/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup; misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Background workers (rate-limit sweeper) stop with this context.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(registry)

	// ── 7. Token codec ────────────────────────────────────────────────────
	codec, err := sec.NewTokenCodec(cfg.TokenConfig())
	must(log, err, "initialize token codec")

	// ── 8. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	sessionStore := auth.NewSessionStore(pool)
	userRepository := auth.NewUserRepository(pool)
	roleRepository := auth.NewRoleRepository(pool)

	lookup := auth.NewIdentityLookup(userRepository, roleRepository)
	issuer := auth.NewSessionIssuer(codec, sessionStore, auth.WithIssuerMetrics(authMetrics))
	authenticationGate := auth.NewAuthenticationGate(codec, lookup, sessionStore, authMetrics)
	authorizationGate := auth.NewAuthorizationGate(lookup, authMetrics)

	authService := auth.NewService(userRepository, roleRepository, sessionStore, lookup, issuer, codec, authMetrics)
	authHandler := auth.NewHandler(authService, authenticationGate)

	accountService := account.NewService(account.NewAccountRepository(pool), sessionStore, authMetrics)
	accountHandler := account.NewHandler(accountService, authenticationGate, authorizationGate)

	apiKeys := apikey.NewRedisCache(rdb, apikey.NewPostgresStore(pool), cfg.APIKeyCacheTTL, authMetrics)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, registry, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		APIKeys:   apiKeys,
	})

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
