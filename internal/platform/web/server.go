// Package web serves a read-only leaderboard over HTTP: an HTML page and a
// small JSON API backed by the score store.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/nimbus-block/internal/storage"
)

// Store is the read side of the score database.
type Store interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	TopRuns(mode string, limit int) ([]storage.Run, error)
	RecentRuns(limit int) ([]storage.Run, error)
	RunByID(id string) (*storage.Run, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// DefaultConfig returns the settings used by `nimbus web`.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		RequestTimeout: 15 * time.Second,
	}
}

// Server is the leaderboard HTTP server.
type Server struct {
	cfg    Config
	store  Store
	router chi.Router
	log    *log.Logger
}

// NewServer builds the router for store.
func NewServer(store Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}

	s := &Server{
		cfg:   cfg,
		store: store,
		log:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	s.registerRoutes(r)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request through the charm logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: cannot serve on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: cannot shut down: %w", err)
	}
	return nil
}
