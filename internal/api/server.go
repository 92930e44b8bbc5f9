// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

Every route except the infrastructure probes passes through the auth gate,
which classifies the request (protected area, auth pages, public) and
attaches the authenticated identity to the context when one exists.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/caovandan/caro/internal/game"
	"github.com/caovandan/caro/internal/gate"
	"github.com/caovandan/caro/internal/platform/config"
	"github.com/caovandan/caro/internal/platform/constants"
	"github.com/caovandan/caro/internal/platform/middleware"
	"github.com/caovandan/caro/internal/platform/respond"
	"github.com/caovandan/caro/internal/profile"
	"github.com/caovandan/caro/internal/signup"
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

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus scrape endpoint.
	Metrics http.Handler

	// Auth handles registration, passcode verification, login, and logout.
	Auth *signup.Handler

	// Profile handles the player profile endpoints.
	Profile *profile.Handler

	// Game handles the protected game area under /home.
	Game *game.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, authGate *gate.Gate, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	// These sit outside the gate: a probe must never trigger a provider call.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", h.Metrics)

	// # Application Routes
	// Everything below passes through the auth gate.
	r.Group(func(app chi.Router) {
		app.Use(authGate.Middleware)

		// Auth pages. The gate bounces authenticated sessions to /home
		// before these run, so they only ever render for anonymous users.
		app.Get(constants.LoginRoute, renderAuthPage(signup.StateForm))
		app.Get(constants.SignupRoute, renderAuthPage(signup.StateForm))

		// Protected area. The gate redirects cookie-less requests to
		// /login; RequireIdentity covers the residual no-identity edge.
		app.Route(constants.ProtectedRoutePrefix, func(home chi.Router) {
			home.Use(gate.RequireIdentity)
			home.Mount("/", h.Game.Routes())
		})

		// Versioned API surface.
		app.Route("/api/v1", func(api chi.Router) {
			api.Mount("/auth", h.Auth.Routes())
			api.Mount("/profile", h.Profile.Routes())
		})
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

// renderAuthPage serves the state payload the auth forms boot from.
func renderAuthPage(state signup.State) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]string{"state": string(state)})
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
