// Package server exposes the capability registry over HTTP. Transport
// failures map to HTTP status codes; invocation outcomes always travel as
// the envelope with status 200, so clients read one shape.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/upflame/toolgate/pkg/executor"
	"github.com/upflame/toolgate/pkg/version"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	exec   *executor.Executor
	logger *slog.Logger
}

func New(exec *executor.Executor, logger *slog.Logger) *Server {
	return &Server{exec: exec, logger: logger}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Post("/execute", s.handleExecute)
	})
	return r
}

type executeRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type toolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Gated       bool                   `json:"gated"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.exec.Registry().List()
	out := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			Gated:       t.Gated(),
			Schema:      t.Schema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out, "meta": map[string]int{"total": len(out)}})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, "tool is required")
		return
	}

	res := s.exec.Execute(r.Context(), req.Tool, req.Params)
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Start serves HTTP on addr until the context is cancelled, then drains
// in-flight requests.
func (s *Server) Start(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("http_shutdown_failed", "error", err)
		}
	}()

	if s.logger != nil {
		s.logger.Info("http_listening", "addr", addr)
	}
	if err := httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return nil
}
