// Package server is a development implementation of the CRM REST endpoints the
// client consumes, backed by the SQLite store. It exists so the board can be run
// and tested end to end without the production backend.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/funil/internal/database"
)

// APIPrefix is where the CRM routes are mounted; the client's api.origin ends with it
const APIPrefix = "/api"

// Config holds configuration for the backend server
type Config struct {
	Store     database.DataStore
	Addr      string
	FailMoves bool
	Logger    *slog.Logger
}

// Server serves the CRM endpoints
type Server struct {
	store     database.DataStore
	addr      string
	logger    *slog.Logger
	failMoves atomic.Bool
	started   time.Time
	now       func() time.Time
}

// NewServer creates a new backend server instance
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   cfg.Store,
		addr:    cfg.Addr,
		logger:  logger,
		started: time.Now(),
		now:     time.Now,
	}
	s.failMoves.Store(cfg.FailMoves)
	return s
}

// SetFailMoves toggles refusing every move with success=false
func (s *Server) SetFailMoves(fail bool) {
	s.failMoves.Store(fail)
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		instrument,
	)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix+"/crm", func(r chi.Router) {
		r.Get("/pipeline", s.getPipeline)
		r.Put("/oportunidades/{id}/move", s.moveOpportunity)
		r.Post("/interacoes", s.recordInteraction)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/team", s.teamStats)
			r.Get("/industries", s.industryStats)
			r.Get("/birthdays", s.birthdays)
		})
	})

	return r
}

// Serve starts the server and blocks until the context is cancelled
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting CRM backend", "addr", fmt.Sprintf("http://%s%s", s.addr, APIPrefix), "fail_moves", s.failMoves.Load())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down CRM backend")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
