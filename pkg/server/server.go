// Package server provides the session server: an HTTP surface that
// embeds one RuntimePolicy per debug test session, built against a
// policy/asset Catalog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"sentinel/policyrtd/pkg/catalog"
	"sentinel/policyrtd/pkg/config"
	"sentinel/policyrtd/pkg/pipeline"
	"sentinel/policyrtd/pkg/telemetry/logging"
	"sentinel/policyrtd/pkg/telemetry/metrics"
)

// Server is the session server: it owns the policy Catalog, the session
// registry built against it, and the HTTP listener the two are exposed
// through.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger

	catalog  *catalog.Catalog
	registry *sessionRegistry
	metrics  *metrics.Collector
	eviction *evictionScheduler

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New wires a Server from cfg: it opens the configured Catalog backend,
// starts the directory watcher if enabled, and builds the session registry
// and eviction scheduler around it. It does not start listening; call
// Start for that.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{Level: "info", Format: "json"})
		if err != nil {
			return nil, fmt.Errorf("creating default logger: %w", err)
		}
	}

	store, err := newCatalogStore(&cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("opening catalog store: %w", err)
	}

	cat := catalog.New(store, logger.Slog())

	metricsCfg := &metrics.Config{
		Enabled:   cfg.Telemetry.Metrics.Enabled,
		Namespace: cfg.Telemetry.Metrics.Namespace,
		Subsystem: cfg.Telemetry.Metrics.Subsystem,
	}
	collector := metrics.NewCollector(metricsCfg, prometheus.NewRegistry())

	cat.SetReloadObserver(func(success bool, assetCount int) {
		outcome := "success"
		if !success {
			outcome = "failure"
		}
		collector.RecordCatalogReload(outcome, assetCount)
	})

	if cfg.Catalog.Watch {
		if err := cat.WatchDirectory(context.Background(), cfg.Catalog.Dir); err != nil {
			return nil, fmt.Errorf("watching catalog directory %q: %w", cfg.Catalog.Dir, err)
		}
	}

	builder := pipeline.NewBuilder(cat, logger.Slog())

	pipelineCfg := pipeline.DefaultConfig().
		WithWorkerCount(cfg.Controller.WorkerCount).
		WithQueueSize(cfg.Controller.QueueSize).
		WithRuleTimeout(cfg.Controller.RuleTimeout).
		WithFailSafeMode(pipeline.FailSafeMode(cfg.Controller.FailSafeMode))

	controllerFactory := pipeline.NewControllerFactory(pipelineCfg, logger.Slog())

	registry := newSessionRegistry(builder, controllerFactory, logger)

	eviction, err := newEvictionScheduler(registry, cfg.Session.SessionTTL, cfg.Session.EvictionInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring eviction scheduler: %w", err)
	}

	return &Server{
		cfg:          cfg,
		logger:       logger,
		catalog:      cat,
		registry:     registry,
		metrics:      collector,
		eviction:     eviction,
		shutdownChan: make(chan struct{}),
	}, nil
}

func newCatalogStore(cfg *config.CatalogConfig) (catalog.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		sqliteCfg := cfg.SQLite
		return catalog.NewSQLiteStore(&sqliteCfg)
	case "memory", "":
		return catalog.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}

// Start starts the HTTP listener and the eviction scheduler, and blocks
// until ctx is cancelled or the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    s.cfg.Session.ListenAddress,
		Handler: handler,
	}

	s.eviction.Start()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting session server", "address", s.cfg.Session.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully stops the HTTP listener, the eviction scheduler, and
// tears down every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.cfg.Session.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Session.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.eviction.Stop()
		s.registry.CloseAll()

		if err := s.catalog.Close(); err != nil {
			s.logger.Error("error closing catalog", "error", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("session server stopped")
	})

	return shutdownErr
}

// setupRoutes wires the session endpoints, the metrics endpoint, and the
// middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/sessions", s.handleCreateSession)
	mux.HandleFunc("/sessions/", s.handleSessionRoutes)

	if s.cfg.Telemetry.Metrics.Enabled {
		mux.Handle(s.cfg.Telemetry.Metrics.Path, s.metrics.Handler())
	}

	return chain(mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger),
	)
}

// IsRunning reports whether the server is currently listening.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for use in tests without a
// live listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Health reports whether the server is running. It does not probe the
// catalog.
func (s *Server) Health() error {
	s.mu.RLock()
	running := s.isRunning
	s.mu.RUnlock()

	if !running {
		return fmt.Errorf("server is not running")
	}
	return nil
}

// SessionCount returns the number of live sessions, for tests and
// diagnostics.
func (s *Server) SessionCount() int {
	return s.registry.Len()
}
