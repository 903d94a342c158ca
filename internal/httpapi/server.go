// Package httpapi exposes an inkwell.Service as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hypergopher/inkwell"
)

const shutdownTimeout = 10 * time.Second

// Server routes API requests to a Service.
type Server struct {
	svc    *inkwell.Service
	logger *slog.Logger
	router *mux.Router
}

// New creates a Server for svc. A nil logger discards request logs.
func New(svc *inkwell.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{svc: svc, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestID, s.logRequests)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	api := s.router.PathPrefix("/api").Subrouter()

	// count must be registered before {id} so it is not taken for an ID
	api.HandleFunc("/posts/count", s.handleCount).Methods(http.MethodGet)
	api.HandleFunc("/posts", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/posts", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}", s.handleUpdate).Methods(http.MethodPatch, http.MethodPut)
	api.HandleFunc("/posts/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/posts", s.handleListAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)
	admin.HandleFunc("/reset", s.handleReset).Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
