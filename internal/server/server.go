// Package server provides the HTTP API for the smile fortune service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/server/ratelimit"
	"github.com/jonathan/smile-fortune/internal/types"
)

// FortuneTeller runs one fortune request. *fortune.Service implements it.
type FortuneTeller interface {
	Tell(ctx context.Context, req types.FortuneRequest) (*types.FortuneResult, error)
}

// Config holds server configuration
type Config struct {
	Addr        string
	Development bool
	// StaticDir, when set, is served at "/".
	StaticDir   string
	CORSOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RateLimit nil disables throttling.
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	fortunes        FortuneTeller
	rateLimiter     *ratelimit.Limiter
	static          http.Handler
	development     bool
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, fortunes FortuneTeller) *Server {
	s := &Server{
		fortunes:        fortunes,
		development:     cfg.Development,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 30 * time.Second
	}

	if cfg.RateLimit != nil {
		s.rateLimiter = ratelimit.NewLimiter(cfg.RateLimit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/getPokemon", s.handleGetPokemon)
	mux.HandleFunc("/api/getPokemon", s.handleMethodNotAllowed)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	if cfg.StaticDir != "" {
		s.static = http.FileServer(http.Dir(cfg.StaticDir))
	}
	mux.HandleFunc("/", s.handleRoot)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	})

	var handler http.Handler = mux
	handler = s.withRateLimit(handler)
	handler = corsHandler(handler)
	handler = s.withRecovery(handler)
	handler = s.withLogging(handler)
	handler = withRequestID(handler)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.stopRateLimiter()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.stopRateLimiter()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}

func (s *Server) stopRateLimiter() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}
