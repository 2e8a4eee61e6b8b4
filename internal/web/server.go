// Package web serves the pipeline status page and a small JSON API for
// listing datasets, reading run history and triggering runs.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/config"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/pipeline"
	"github.com/nosagieenabulele/aquaculture-data-engineering/internal/web/middleware"
)

// RunService is the part of *pipeline.Runner the server needs.
type RunService interface {
	Run(ctx context.Context) (pipeline.Summary, error)
	Trigger(ctx context.Context) error
	Running() bool
	Last() (pipeline.Summary, bool)
	History() []pipeline.Summary
}

// Server is the HTTP status server.
type Server struct {
	runs   RunService
	cfg    config.ServerConfig
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(runs RunService, cfg config.ServerConfig) *Server {
	s := &Server{
		runs:   runs,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/datasets", s.handleListDatasets)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/last", s.handleLastRun)
		r.With(middleware.APIKeyAuth(s.cfg.APIKeys)).Post("/runs", s.handleTriggerRun)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("status server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// timeNow is replaced in tests.
var timeNow = time.Now

// healthResponse is returned by /healthz.
type healthResponse struct {
	Status  string    `json:"status"`
	Running bool      `json:"running"`
	Time    time.Time `json:"time"`
}
