package observer

import (
	"path/filepath"
	"testing"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/store"
)

func TestRecordAppendsJSONLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.jsonl")
	o := New(path)

	o.Record(TypeUserCorrection, map[string]any{"pattern": "retry-429"})
	o.Record(TypeUserCorrection, map[string]any{"pattern": "retry-429"})

	obs := o.readAll()
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].ID == obs[1].ID {
		t.Errorf("expected distinct observation ids, got %q twice", obs[0].ID)
	}
	if obs[0].Type != TypeUserCorrection {
		t.Errorf("type = %q, want %q", obs[0].Type, TypeUserCorrection)
	}
}

func TestBatchAnalyzeRequiresMinimumTotal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.jsonl")
	o := New(path)
	o.Record(TypeWorkflow, map[string]any{"workflowHash": "abc"})
	o.Record(TypeWorkflow, map[string]any{"workflowHash": "abc"})

	st := store.Open(t.TempDir(), config.Default().LTD)
	instincts := o.BatchAnalyze(st, config.Default().Observer)
	if instincts != nil {
		t.Errorf("expected no-op below the minimum total, got %v", instincts)
	}
}

func TestBatchAnalyzePromotesGroupOfThree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.jsonl")
	o := New(path)
	for i := 0; i < 5; i++ {
		o.Record(TypeErrorResolution, map[string]any{"errorType": "429 rate limit"})
	}

	st := store.Open(t.TempDir(), config.Default().LTD)
	instincts := o.BatchAnalyze(st, config.Default().Observer)
	if len(instincts) != 1 {
		t.Fatalf("expected 1 promoted instinct, got %d", len(instincts))
	}

	inst := instincts[0]
	if inst.Domain != "error_handling" {
		t.Errorf("domain = %q, want error_handling", inst.Domain)
	}
	if len(inst.Evidence) != 5 {
		t.Errorf("expected 5 evidence ids, got %d", len(inst.Evidence))
	}
	if inst.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5 for a group of 5", inst.Confidence)
	}

	rec, ok := st.Hot[inst.Concept]
	if !ok || !rec.Pinned {
		t.Fatalf("expected promoted instinct to be a pinned hot record")
	}
	if rec.Weight != 1.0 {
		t.Errorf("weight = %v, want 1.0 (spec.md line 52)", rec.Weight)
	}
	if rec.Source != "observer" {
		t.Errorf("source = %q, want observer", rec.Source)
	}
	if rec.Confidence != 0.5 {
		t.Errorf("record confidence = %v, want 0.5 exposed on the persisted record", rec.Confidence)
	}
}

func TestBatchAnalyzeTruncatesLogOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "observations.jsonl")
	o := New(path)
	for i := 0; i < 5; i++ {
		o.Record(TypeWorkflow, map[string]any{"workflowHash": "deploy-prod"})
	}

	st := store.Open(t.TempDir(), config.Default().LTD)
	o.BatchAnalyze(st, config.Default().Observer)

	if remaining := o.readAll(); len(remaining) != 0 {
		t.Errorf("expected log truncated after promotion, got %d remaining", len(remaining))
	}
}

func TestSanitizeKeyCollapsesNonWordRuns(t *testing.T) {
	if got := sanitizeKey("429 rate limit!!"); got != "429-rate-limit" {
		t.Errorf("sanitizeKey = %q, want 429-rate-limit", got)
	}
}

func TestConfidenceBuckets(t *testing.T) {
	cases := map[int]float64{1: 0.3, 2: 0.3, 5: 0.5, 10: 0.7, 11: 0.85}
	for n, want := range cases {
		if got := confidenceFor(n); got != want {
			t.Errorf("confidenceFor(%d) = %v, want %v", n, got, want)
		}
	}
}
