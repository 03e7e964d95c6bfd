// Package httpapi exposes the operational HTTP surface: a liveness check
// and a webhook acceptor. Neither endpoint touches the response pipeline.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/banterlabs/banterbot/internal/config"
	"github.com/banterlabs/banterbot/internal/database"
)

// Server wraps the HTTP listener and its graceful shutdown.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer builds the HTTP server. The store is used only for the
// liveness check's database ping.
func NewServer(cfg config.ServerConfig, store database.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With("component", "httpapi")

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(store, cfg.ThrottleLimit, logger),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		log:             logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// NewRouter wires the operational routes. Throttle bounds concurrent
// in-flight requests as the rate-limit middleware.
func NewRouter(store database.Store, throttleLimit int, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	if throttleLimit <= 0 {
		throttleLimit = config.DefaultServerThrottleLimit
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(throttleLimit))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := store.Ping(req.Context()); err != nil {
			log.ErrorContext(req.Context(), "Health check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Fixed acknowledgment; delivery is handled by the transport listener,
	// not this endpoint.
	r.Post("/webhook", func(w http.ResponseWriter, req *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	s.log.Info("HTTP server stopped.")
	return nil
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
