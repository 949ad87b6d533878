// Package server exposes the analysis pipeline over HTTP. It is a thin
// shell around the orchestrator: one JSON endpoint plus the health and
// metrics routes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/defisentry/sdk/pkg/analysis"
	"github.com/defisentry/sdk/pkg/core"
	"github.com/defisentry/sdk/pkg/errors"
	"github.com/defisentry/sdk/pkg/health"
	"github.com/defisentry/sdk/pkg/metrics"
)

// Config configures the HTTP server.
type Config struct {
	// Address to listen on (default ":8080")
	Address string

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves risk reports over HTTP.
type Server struct {
	analyzer *analysis.Analyzer
	health   *health.Handler
	metrics  metrics.Collector
	logger   core.Logger

	httpServer *http.Server
}

// New creates a server around the given analyzer. Health and metrics are
// optional; nil disables their routes.
func New(cfg *Config, analyzer *analysis.Analyzer, healthHandler *health.Handler, collector metrics.Collector, logger core.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}

	s := &Server{
		analyzer: analyzer,
		health:   healthHandler,
		metrics:  collector,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/risk", s.handleRisk)
	if healthHandler != nil {
		health.RegisterRoutes(mux, health.DefaultServerConfig(healthHandler))
	}
	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the server's HTTP handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// errorResponse is the JSON body for non-success responses.
type errorResponse struct {
	Error string `json:"error"`
}

// handleRisk serves GET /risk?identifier=<id>.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing identifier parameter"})
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), identifier)
	if err != nil {
		switch {
		case errors.IsNotFoundError(err):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "entity not found: " + identifier})
		case errors.GetKind(err) == errors.KindInvalidInput:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			s.logger.Error("analysis failed for %q: %v", identifier, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
