// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/web-enterprise-24/backend/internal/platform/config"
	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/middleware"
	"github.com/web-enterprise-24/backend/internal/users/account"
	"github.com/web-enterprise-24/backend/internal/users/apikey"
	"github.com/web-enterprise-24/backend/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups everything the router mounts.
type Handlers struct {
	// Liveness is the /health handler; always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 only when all dependencies respond.
	Readiness http.HandlerFunc

	// Auth serves signup, login, logout, refresh and password change.
	Auth *auth.Handler

	// Account serves profiles, sessions and staff administration.
	Account *account.Handler

	// APIKeys resolves the x-api-key header in front of every application route.
	APIKeys apikey.Store
}

// # Server Initialization

/*
NewServer constructs the chi router with the full middleware chain and
registers all route groups.

Parameters:
  - context: context.Context (bounds background workers such as the rate-limit sweeper)
  - cfg: *config.Config
  - log: *slog.Logger
  - registry: *prometheus.Registry (HTTP metrics are registered here and served on /metrics)
  - h: Handlers
*/
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, registry *prometheus.Registry, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	if cfg.MetricsEnabled {
		r.Use(middleware.NewHTTPMetrics(registry).Instrument)
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Every application route requires a client API key first; bearer tokens are
	// checked per route group.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(apikey.Require(h.APIKeys, constants.PermissionGeneral))
		api.Mount("/profile", h.Account.ProfileRoutes())
		api.Mount("/account", h.Account.AdminRoutes())
		api.Mount("/", h.Auth.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
