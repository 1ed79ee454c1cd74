// Package api exposes the signal store and backtest engine over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/repository"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	HealthCheck(ctx context.Context) error
}

// Server serves the JSON API for signals, stats and backtest runs.
type Server struct {
	cfg    *config.Config
	repos  *repository.Repositories
	db     DatabasePinger
	logger *logrus.Logger
	cache  *gocache.Cache
	server *http.Server
}

// NewServer creates the API server. The response cache TTL comes from the
// api.cache_ttl_seconds setting; a zero TTL disables caching.
func NewServer(cfg *config.Config, repos *repository.Repositories, db DatabasePinger, logger *logrus.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	var cache *gocache.Cache
	if cfg.API.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.API.CacheTTLSeconds) * time.Second
		cache = gocache.New(ttl, 2*ttl)
	}

	return &Server{
		cfg:    cfg,
		repos:  repos,
		db:     db,
		logger: logger,
		cache:  cache,
	}, nil
}

// Start runs the API server in the background and shuts it down when the
// context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/api/signals", s.requireAPIKey(s.cached(http.HandlerFunc(s.handleListSignals))))
	mux.Handle("/api/signals/", s.requireAPIKey(http.HandlerFunc(s.handleGetSignal)))
	mux.Handle("/api/stats", s.requireAPIKey(s.cached(http.HandlerFunc(s.handleStats))))
	mux.Handle("/api/backtest", s.requireAPIKey(http.HandlerFunc(s.handleBacktest)))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.API.Port),
		Handler:      s.logRequests(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.API.Port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
