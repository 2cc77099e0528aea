package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "synod/internal/adapters/http"
	"synod/pkg/domain"
)

type fakePipeline struct {
	lastInstrument string
	lastSeed       map[string]any
	outcome        *domain.Outcome
	err            error
}

func (f *fakePipeline) Run(_ context.Context, instrument string, seed map[string]any) (*domain.Outcome, error) {
	f.lastInstrument = instrument
	f.lastSeed = seed
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakePipeline) Mermaid() string {
	return "graph TD\n    seed((\"seed\"))\n"
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func acceptedOutcome() *domain.Outcome {
	store := domain.NewStore(map[string]any{
		domain.KeyTechnical:  "uptrend",
		domain.KeyRiskReport: "risk is low",
	})
	return &domain.Outcome{
		Decision: domain.FinalDecision{Action: domain.ActionBuy, Rationale: "r", Confidence: 0.7},
		State:    domain.RunAccepted,
		Retry:    domain.RetryState{Attempt: 1, MaxAttempts: 3},
		Final:    store.Snapshot(),
	}
}

func TestServer_Run(t *testing.T) {
	pipeline := &fakePipeline{outcome: acceptedOutcome()}
	handler := httpAdapter.NewHandler(pipeline, nopLogger(), nil)

	body, _ := json.Marshal(httpAdapter.RunRequest{
		Instrument: "NVDA",
		Seed:       map[string]any{"as_of": "2026-08-21"},
	})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NVDA", pipeline.lastInstrument)
	assert.Equal(t, "2026-08-21", pipeline.lastSeed["as_of"])

	var resp httpAdapter.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NVDA", resp.Instrument)
	assert.Equal(t, domain.ActionBuy, resp.Outcome.Decision.Action)
	assert.Equal(t, domain.RunAccepted, resp.Outcome.State)
	assert.Equal(t, "uptrend", resp.Reports[domain.KeyTechnical])
}

func TestServer_RunRequiresInstrument(t *testing.T) {
	handler := httpAdapter.NewHandler(&fakePipeline{}, nopLogger(), nil)

	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RunBadBody(t *testing.T) {
	handler := httpAdapter.NewHandler(&fakePipeline{}, nopLogger(), nil)

	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RunConfigErrorMapsTo400(t *testing.T) {
	pipeline := &fakePipeline{err: &domain.ConfigError{Field: "instrument", Reason: "must not be empty"}}
	handler := httpAdapter.NewHandler(pipeline, nopLogger(), nil)

	body, _ := json.Marshal(httpAdapter.RunRequest{Instrument: "???"})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RunPipelineErrorMapsTo500(t *testing.T) {
	pipeline := &fakePipeline{err: &domain.PipelineError{Phase: "analysts", Err: context.DeadlineExceeded}}
	handler := httpAdapter.NewHandler(pipeline, nopLogger(), nil)

	body, _ := json.Marshal(httpAdapter.RunRequest{Instrument: "NVDA"})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Health(t *testing.T) {
	handler := httpAdapter.NewHandler(&fakePipeline{}, nopLogger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Graph(t *testing.T) {
	handler := httpAdapter.NewHandler(&fakePipeline{}, nopLogger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graph TD")
}

func TestServer_MetricsMounted(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics"))
	})
	handler := httpAdapter.NewHandler(&fakePipeline{}, nopLogger(), metrics)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}
