// Package ui provides the web back office: the dashboard and the list screens.
package ui

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
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/brandedliving/backoffice/internal/api"
	"github.com/brandedliving/backoffice/internal/store"
	"github.com/brandedliving/backoffice/internal/ui/notifier"
	"github.com/brandedliving/backoffice/internal/ui/router"
	"github.com/brandedliving/backoffice/internal/ui/tablestate"
)

// Seeder replaces the records of a local store.
type Seeder interface {
	Seed(ctx context.Context, f *store.Fixtures) error
}

// Server is the main UI server.
type Server struct {
	backend      api.Backend
	seeder       Seeder
	sessionStore *sessions.CookieStore
	registry     *tablestate.Registry
	port         int
	watch        bool
	seedsFile    string
	isDev        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Backend api.Backend
	// Seeder reloads SeedsFile when Watch is set. Nil when the backend is remote.
	Seeder        Seeder
	Port          int
	Watch         bool
	SeedsFile     string
	SessionSecret string
	Dev           bool
	Table         tablestate.Options
	// IdleTimeout closes listings of sessions that went away.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	table := cfg.Table
	if table.Logger == nil {
		table.Logger = logger
	}

	return &Server{
		backend:      cfg.Backend,
		seeder:       cfg.Seeder,
		sessionStore: sessionStore,
		registry:     tablestate.NewRegistry(tablestate.Catalog(cfg.Backend, table), cfg.IdleTimeout, logger),
		port:         cfg.Port,
		watch:        cfg.Watch,
		seedsFile:    cfg.SeedsFile,
		isDev:        cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the router with every route mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Backend:      s.backend,
		Registry:     s.registry,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Logger:       s.logger,
		IsDev:        s.isDev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.registry.Run(egctx)
	})

	if s.watch && s.seeder != nil && s.seedsFile != "" {
		eg.Go(func() error {
			return s.watchSeeds(egctx)
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

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Reseed reloads the seed file into the store and refreshes every open screen.
func (s *Server) Reseed(ctx context.Context) error {
	f, err := store.LoadFixtures(s.seedsFile)
	if err != nil {
		return err
	}
	if err := s.seeder.Seed(ctx, f); err != nil {
		return fmt.Errorf("failed to seed %s: %w", s.seedsFile, err)
	}
	s.notifier.Broadcast()
	return nil
}

// watchSeeds reseeds whenever the seed file changes. The directory is
// watched because editors replace files on save.
func (s *Server) watchSeeds(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.seedsFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch seed file", "path", target, "error", err)
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
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("seed file changed, reseeding", "file", target)
				if err := s.Reseed(ctx); err != nil {
					s.logger.Error("reseed failed", "error", err)
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
