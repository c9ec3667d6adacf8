// Package dashboard serves a local web UI with live lint results, run
// history, and the rule reference. Pages arrive server-rendered; a
// watch loop re-lints on script changes and pushes updates over SSE.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/hansl-tools/hanslint/internal/runner"
	"github.com/hansl-tools/hanslint/internal/state"
	"github.com/hansl-tools/hanslint/internal/watch"
	"github.com/hansl-tools/hanslint/pkg/lint"
)

// Server is the dashboard server.
type Server struct {
	runner       *runner.Runner
	store        state.Store
	sessionStore *sessions.CookieStore
	notifier     *Notifier
	results      *resultState
	port         int
	watch        bool
	scriptsDir   string
	extensions   []string
	logger       *slog.Logger
}

// Config holds configuration for the dashboard server.
type Config struct {
	Runner        *runner.Runner
	Store         state.Store
	Port          int
	Watch         bool
	ScriptsDir    string
	Extensions    []string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a dashboard server.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = lint.DefaultProjectConfig().ScriptExtensions
	}

	return &Server{
		runner:       cfg.Runner,
		store:        cfg.Store,
		sessionStore: sessionStore,
		notifier:     NewNotifier(),
		results:      &resultState{},
		port:         cfg.Port,
		watch:        cfg.Watch,
		scriptsDir:   cfg.ScriptsDir,
		extensions:   cfg.Extensions,
		logger:       logger,
	}
}

// Serve runs an initial lint, starts the HTTP server and the script
// watcher, and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting dashboard", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.refresh(egctx)
		return nil
	})

	if s.watch {
		eg.Go(func() error {
			return s.watchScripts(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) setupRoutes(r chi.Router) {
	r.Handle("/static/*", staticHandler())

	h := NewHandlers(s.store, s.sessionStore, s.notifier, s.results, s.logger)
	r.Get("/", h.HomePage)
	r.Get("/updates", h.HomeUpdates)
	r.Get("/runs", h.RunsPage)
	r.Get("/runs/updates", h.RunsUpdates)
	r.Get("/files", h.FilePage)
	r.Get("/rules", h.RulesPage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// watchScripts re-lints whenever script files change.
func (s *Server) watchScripts(ctx context.Context) error {
	watcher := watch.NewWatcher(s.scriptsDir, s.extensions, s.logger)
	changes, err := watcher.Run(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			s.logger.Debug("scripts changed, re-linting", "files", len(batch))
			s.refresh(ctx)
		}
	}
}

// refresh runs lint, stores the result, and notifies SSE subscribers.
func (s *Server) refresh(ctx context.Context) {
	res, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("lint run failed", "error", err)
		return
	}
	s.results.set(res)
	s.notifier.Broadcast()
}
