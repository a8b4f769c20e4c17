package recall

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/index"
	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/brainsynapse/synapse/internal/store"
)

func setupDeps(t *testing.T) Deps {
	t.Helper()
	root := t.TempDir()
	memoryDir := filepath.Join(root, "memory")
	archiveDir := filepath.Join(memoryDir, "archive")
	engineDir := filepath.Join(root, "engine")
	for _, d := range []string{memoryDir, archiveDir, engineDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.WriteFile(filepath.Join(memoryDir, "2020-01-01.md"), []byte("notes about the database migration"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	st := store.Open(engineDir, cfg.LTD)
	st.ReinforceOnObservation("database", "2020-01-01.md", false)

	idx := index.Open(filepath.Join(engineDir, "local_index_cache.json"))
	if err := idx.Refresh(memoryDir, archiveDir); err != nil {
		t.Fatal(err)
	}

	return Deps{
		Store:      st,
		Index:      idx,
		Embedder:   embed.Disabled{},
		VectorDB:   nil,
		Observer:   observer.New(filepath.Join(engineDir, "observations.jsonl")),
		Cfg:        cfg,
		MemoryDir:  memoryDir,
		ArchiveDir: archiveDir,
	}
}

func TestRunFallsBackToLocalWhenEmbedderUnavailable(t *testing.T) {
	deps := setupDeps(t)
	resp := Run(context.Background(), deps, "database", Options{})

	if resp.Source != "local-file-search" {
		t.Errorf("source = %q, want local-file-search", resp.Source)
	}
	if resp.ScoringMode != "local" {
		t.Errorf("scoring_mode = %q, want local", resp.ScoringMode)
	}
}

func TestRunReinforcesActivatedConcepts(t *testing.T) {
	deps := setupDeps(t)
	before := deps.Store.Hot["database"].Weight

	Run(context.Background(), deps, "database", Options{})

	after := deps.Store.Hot["database"].Weight
	if after <= before {
		t.Errorf("expected recall to reinforce weight: %v -> %v", before, after)
	}
	if deps.Store.Hot["database"].RecallCount == 0 {
		t.Errorf("expected recall_count to increment")
	}
}

func TestRunDeepOptionRevivesLatentConcepts(t *testing.T) {
	deps := setupDeps(t)
	deps.Store.Cold["database-archive"] = &store.Latent{
		Synapse:        store.Synapse{FirstSeen: 1},
		OriginalWeight: 0.4,
	}

	resp := Run(context.Background(), deps, "database", Options{Deep: true})

	if resp.DeepRecall == nil {
		t.Fatalf("expected deep_recall annex")
	}
	if resp.DeepRecall.RevivedCount == 0 {
		t.Errorf("expected at least one revived memory")
	}
}

func TestRunInjectsPinnedRulesMatchingQuery(t *testing.T) {
	deps := setupDeps(t)
	deps.Store.Pin("database", "always use read replicas for reporting")

	resp := Run(context.Background(), deps, "database migration", Options{})

	found := false
	for _, p := range resp.PinnedRules {
		if p.Keyword == "database" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pinned rule for 'database' to be injected, got %v", resp.PinnedRules)
	}
}
