// Package http exposes the decision pipeline as a stateless JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"synod/pkg/domain"
)

// Pipeline is the surface the server exposes. It matches the root
// package's Pipeline type.
type Pipeline interface {
	Run(ctx context.Context, instrument string, seed map[string]any) (*domain.Outcome, error)
	Mermaid() string
}

// Server handles the JSON API requests.
type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
}

// RunRequest is the POST /run body.
type RunRequest struct {
	Instrument string         `json:"instrument"`
	Seed       map[string]any `json:"seed,omitempty"`
}

// RunResponse is the POST /run reply.
type RunResponse struct {
	Instrument string          `json:"instrument"`
	Outcome    *domain.Outcome `json:"outcome"`
	Reports    map[string]any  `json:"reports,omitempty"`
}

// NewHandler creates the HTTP handler. The metrics handler, when
// non-nil, is mounted at /metrics.
func NewHandler(pipeline Pipeline, logger *slog.Logger, metrics http.Handler) http.Handler {
	server := &Server{pipeline: pipeline, logger: logger}
	r := chi.NewRouter()

	r.Post("/run", server.Run)
	r.Get("/healthz", server.Health)
	r.Get("/graph", server.Graph)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

// Run handles POST /run: one full pipeline execution per request.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Instrument == "" {
		http.Error(w, "instrument is required", http.StatusBadRequest)
		return
	}

	outcome, err := s.pipeline.Run(r.Context(), body.Instrument, body.Seed)
	if err != nil {
		s.logger.Error("run failed", "instrument", body.Instrument, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp := RunResponse{
		Instrument: body.Instrument,
		Outcome:    outcome,
		Reports:    collectReports(outcome.Final),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Graph handles GET /graph: the wired topology as a Mermaid diagram.
func (s *Server) Graph(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s.pipeline.Mermaid()))
}

func collectReports(view domain.Context) map[string]any {
	keys := []string{
		domain.KeyTechnical,
		domain.KeySentiment,
		domain.KeyNews,
		domain.KeyFundamentals,
		domain.KeyDebateSynthesis,
		domain.KeyRiskReport,
	}
	reports := make(map[string]any)
	for _, key := range keys {
		if v, ok := view.Value(key); ok {
			reports[key] = v
		}
	}
	return reports
}
