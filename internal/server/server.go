// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout           TOML description -> JSON layout
//	POST /v1/render/{format}  TOML description -> rendered artifact
//	GET  /healthz
//	GET  /metrics             when a metrics handler is configured
//
// Canvas and pin options are passed as query parameters: width, height,
// pin (comma-separated), refresh. Render additionally accepts scale,
// labels and alignments.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dlvis/pkg/pipeline"
)

// MaxBodyBytes bounds the size of a graph description.
const MaxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
	// Timeout bounds a single request. Zero means 30s.
	Timeout time.Duration
}

// Server is the dlvis HTTP service.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	handler http.Handler
	server  *http.Server
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &Server{runner: cfg.Runner, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(s.withLogging)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/healthz", handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})

	s.handler = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
