// Package app wires storage, the session, and the HTTP surface into the
// long-running LinkMan server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/MASHINC1/LinkMan/internal/api"
	"github.com/MASHINC1/LinkMan/internal/config"
	"github.com/MASHINC1/LinkMan/internal/preview"
	"github.com/MASHINC1/LinkMan/internal/session"
	"github.com/MASHINC1/LinkMan/internal/sse"
	"github.com/MASHINC1/LinkMan/internal/storage"
)

const (
	heartbeatInterval = 15 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Run starts the HTTP server and blocks until ctx is cancelled or a shutdown
// signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := a.config

	logger := a.logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("storage_path", cfg.Storage.Path),
		slog.Bool("auth", cfg.Auth.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := storage.Close(store); err != nil {
			logger.Warn("close storage", slog.String("error", err.Error()))
		}
	}()

	broker := sse.NewBroker(heartbeatInterval)
	defer broker.Close()

	sess, err := session.Open(session.Params{
		Storage:  store,
		Logger:   logger,
		OnChange: broker.PublishSnapshot,
	})
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHandler(cfg, sess, broker, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Only the JSON file can be edited out of band.
	if cfg.Storage.Backend != config.BackendSQLite {
		g.Go(func() error {
			err := storage.Watch(gCtx, cfg.Storage.Path, logger, func() {
				if _, err := sess.Reload(); err != nil {
					logger.Warn("reload snapshot", slog.String("error", err.Error()))
				}
			})
			if err != nil {
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Unblocks the watcher when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

var errShutdown = errors.New("shutdown")

// newHandler builds the root router: health checks, the API under /api and
// the event stream at /api/events.
func newHandler(cfg *config.Config, sess *session.Session, broker *sse.Broker, logger *slog.Logger) http.Handler {
	fetcher := preview.NewFetcher(preview.FetcherParams{
		Timeout:   cfg.Preview.Timeout,
		MaxBytes:  cfg.Preview.MaxBytes,
		UserAgent: cfg.Preview.UserAgent,
		Logger:    logger,
	})
	h := api.NewHandler(sess, fetcher, preview.NewTracker())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", health)
	r.Get("/health/ready", health)

	r.Mount("/api", api.NewRouter(h, cfg.Auth.Token, broker))
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
