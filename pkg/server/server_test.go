package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/defisentry/sdk/pkg/analysis"
	"github.com/defisentry/sdk/pkg/health"
	"github.com/defisentry/sdk/pkg/metrics"
	"github.com/defisentry/sdk/pkg/report"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	healthHandler := health.NewHandler()
	healthHandler.Register("ping", &health.PingCheck{})

	return New(
		DefaultConfig(),
		analysis.NewAnalyzer(),
		healthHandler,
		metrics.NewInMemoryCollector(),
		nil,
	)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRiskEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/risk?identifier=aave")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if rep.Protocol != "Aave V3" {
		t.Errorf("protocol = %q, want Aave V3", rep.Protocol)
	}
	if rep.RiskScore < 0 || rep.RiskScore > 100 {
		t.Errorf("risk_score = %d, outside [0,100]", rep.RiskScore)
	}
	if len(rep.RiskFindings) == 0 {
		t.Error("expected findings for a known protocol")
	}
}

func TestRiskEndpointUnknownEntity(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/risk?identifier=bogus")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] == "" {
		t.Error("404 body should carry an error message")
	}
}

func TestRiskEndpointMissingIdentifier(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/risk")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRiskEndpointMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/risk?identifier=aave")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := doRequest(t, s, http.MethodGet, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	// Generate some traffic first.
	doRequest(t, s, http.MethodGet, "/risk?identifier=aave")

	rec := doRequest(t, s, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestNilOptionalDependencies(t *testing.T) {
	s := New(nil, analysis.NewAnalyzer(), nil, nil, nil)

	rec := doRequest(t, s, http.MethodGet, "/risk?identifier=link")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	// Health and metrics routes are absent when not wired.
	rec = doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusNotFound {
		t.Errorf("/healthz status = %d, want 404", rec.Code)
	}
}
