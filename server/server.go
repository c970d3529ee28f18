// Package server exposes the batch converter over HTTP.
//
//	POST /parse-links  {"links": ["https://..."]} -> [{"markdown": "..."|null, "link": "..."}]
//	GET  /healthz
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/parselinks/core"
)

const shutdownTimeout = 10 * time.Second

// Batcher converts a list of links. *batch.Dispatcher satisfies it.
type Batcher interface {
	Run(ctx context.Context, links []string) []core.LinkResult
}

// Config configures the HTTP server.
type Config struct {
	Port      int
	RateLimit float64 // requests per second, 0 disables
	RateBurst int
}

// Server is the HTTP front end.
type Server struct {
	cfg     Config
	batch   Batcher
	log     logrus.FieldLogger
	handler http.Handler
}

// New builds the router and middleware stack.
func New(cfg Config, b Batcher, log logrus.FieldLogger) *Server {
	s := &Server{cfg: cfg, batch: b, log: log}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)
	if cfg.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst), log))
	}

	r.Get("/healthz", s.handleHealth)
	r.Post("/parse-links", s.handleParseLinks)

	s.handler = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
