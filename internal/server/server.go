// Package server exposes the workflow commands over a small JSON API. It is
// the thin presentation adapter; all state lives in the workflow layer.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"property-concierge/internal/common/config"
	"property-concierge/internal/common/logger"
	"property-concierge/internal/workflow"
)

type Server struct {
	controller *workflow.Controller
	logger     logger.Logger
	httpServer *http.Server
}

func New(cfg config.ServerConfig, controller *workflow.Controller, log logger.Logger) *Server {
	s := &Server{
		controller: controller,
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/properties", s.handleListProperties)
	mux.HandleFunc("GET /api/transcript", s.handleTranscript)
	mux.HandleFunc("POST /api/select", s.handleSelectProperty)
	mux.HandleFunc("POST /api/forms", s.handleOpenForm)
	mux.HandleFunc("POST /api/forms/{formId}/fields", s.handleUpdateField)
	mux.HandleFunc("POST /api/forms/{formId}/advance", s.handleAdvance)
	mux.HandleFunc("POST /api/forms/{formId}/retreat", s.handleRetreat)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Handler returns the configured mux, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", map[string]interface{}{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
