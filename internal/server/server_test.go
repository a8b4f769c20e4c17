package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	st := store.Open(dir, config.Default().LTD)
	return New(st, "test-version")
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
}

func TestTopConceptsEndpoint(t *testing.T) {
	srv := testServer(t)
	srv.st.ReinforceOnObservation("alpha", "2026-01-01.md", false)
	srv.st.ReinforceOnObservation("beta", "2026-01-01.md", false)
	srv.st.ReinforceOnObservation("beta", "2026-01-01.md", true)

	req := httptest.NewRequest("GET", "/api/top-concepts?n=1", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Concepts []topConceptJSON `json:"concepts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Concepts) != 1 {
		t.Fatalf("len(concepts) = %d, want 1", len(body.Concepts))
	}
	if body.Concepts[0].Concept != "beta" {
		t.Errorf("top concept = %q, want beta", body.Concepts[0].Concept)
	}
}

func TestLatentStatsEndpointEmpty(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/latent-stats", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var stats latentStatsJSON
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if stats.TotalLatent != 0 {
		t.Errorf("total_latent = %d, want 0", stats.TotalLatent)
	}
}
