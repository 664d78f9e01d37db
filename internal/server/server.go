// Package server exposes the engine over HTTP: one resource per table under
// /api/{table}, plus the /builtins/docs and /builtins/stats endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/autorest/internal/engine"
	"github.com/leapstack-labs/autorest/internal/state"
	"github.com/leapstack-labs/autorest/pkg/core"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "0.0.0.0:1492"

// maxBodyBytes bounds request bodies on write routes.
const maxBodyBytes = 1 << 20

// Engine is the part of *engine.Engine the server depends on.
type Engine interface {
	Any(ctx context.Context, req engine.Request) (any, error)
	Discover(ctx context.Context) (*core.Registry, error)
	Registry() *core.Handle
}

// Server is the REST API server.
type Server struct {
	engine         Engine
	journal        state.Journal
	addr           string
	disableMetrics bool
	watch          bool
	configPath     string
	reload         func(ctx context.Context) error
	logger         *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Engine Engine
	// Journal receives one entry per request unless DisableMetrics is set.
	// It may be nil.
	Journal        state.Journal
	Addr           string
	DisableMetrics bool
	// Watch reloads the schema whenever ConfigPath changes.
	Watch      bool
	ConfigPath string
	// Reload runs on config changes; it defaults to Engine.Discover.
	Reload func(ctx context.Context) error
	Logger *slog.Logger
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		engine:         cfg.Engine,
		journal:        cfg.Journal,
		addr:           addr,
		disableMetrics: cfg.DisableMetrics,
		watch:          cfg.Watch,
		configPath:     cfg.ConfigPath,
		reload:         cfg.Reload,
		logger:         logger,
	}
	if s.reload == nil {
		s.reload = func(ctx context.Context) error {
			_, err := s.engine.Discover(ctx)
			return err
		}
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		s.metrics,
		cors,
	)
	s.routes(r)
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", "http://"+s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && s.configPath != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchConfig reloads the schema when the config file is written. The parent
// directory is watched because editors often replace files on save.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.configPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "path", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Info("config changed, reloading schema", "file", target)
				if err := s.reload(ctx); err != nil {
					s.logger.Error("schema reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
