package distill

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/brainsynapse/synapse/internal/store"
)

func setupWorkspace(t *testing.T) (memoryDir, archiveDir, engineDir string) {
	t.Helper()
	root := t.TempDir()
	memoryDir = filepath.Join(root, "memory")
	archiveDir = filepath.Join(memoryDir, "archive")
	engineDir = filepath.Join(root, "engine")
	for _, d := range []string{memoryDir, archiveDir, engineDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return memoryDir, archiveDir, engineDir
}

func TestRunProcessesPastLogsNotToday(t *testing.T) {
	memoryDir, archiveDir, engineDir := setupWorkspace(t)
	writeLog(t, memoryDir, "2020-01-01.md", "discussing the database migration plan\nIMPORTANT: always back up first")

	today := timeNowName()
	writeLog(t, memoryDir, today, "today's scratch notes about gardening")

	st := store.Open(engineDir, config.Default().LTD)
	obs := observer.New(filepath.Join(engineDir, "observations.jsonl"))

	summary := Run(context.Background(), st, obs, embed.Disabled{}, config.Default(), memoryDir, archiveDir, false)

	if summary.LogsProcessed != 1 {
		t.Fatalf("expected 1 log processed (today excluded), got %d", summary.LogsProcessed)
	}
	if _, err := os.Stat(filepath.Join(archiveDir, "2020-01-01.md")); err != nil {
		t.Errorf("expected 2020-01-01.md archived: %v", err)
	}
	if _, err := os.Stat(filepath.Join(memoryDir, today)); err != nil {
		t.Errorf("expected today's file to remain active: %v", err)
	}
	if _, ok := st.Hot["database"]; !ok {
		t.Errorf("expected database concept to be reinforced")
	}
}

func TestRunForceIncludesToday(t *testing.T) {
	memoryDir, archiveDir, engineDir := setupWorkspace(t)
	today := timeNowName()
	writeLog(t, memoryDir, today, "forced distillation notes")

	st := store.Open(engineDir, config.Default().LTD)
	obs := observer.New(filepath.Join(engineDir, "observations.jsonl"))

	summary := Run(context.Background(), st, obs, embed.Disabled{}, config.Default(), memoryDir, archiveDir, true)

	if summary.LogsProcessed != 1 {
		t.Fatalf("expected today's file to be processed under force, got %d", summary.LogsProcessed)
	}
	if _, err := os.Stat(filepath.Join(memoryDir, today)); err == nil {
		t.Errorf("expected forced today's file to be archived")
	}
}

func TestSpecialConceptLineBoostsWeight(t *testing.T) {
	memoryDir, archiveDir, engineDir := setupWorkspace(t)
	writeLog(t, memoryDir, "2020-01-01.md", "IMPORTANT: rotate credentials every quarter")

	st := store.Open(engineDir, config.Default().LTD)
	obs := observer.New(filepath.Join(engineDir, "observations.jsonl"))
	Run(context.Background(), st, obs, embed.Disabled{}, config.Default(), memoryDir, archiveDir, false)

	rec, ok := st.Hot["rotate"]
	if !ok {
		t.Fatalf("expected 'rotate' concept to exist")
	}
	if rec.Weight <= st.Cfg.InitialWeight {
		t.Errorf("expected special-concept-line boost, weight = %v", rec.Weight)
	}
}

func writeLog(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func timeNowName() string {
	return time.Now().Format("2006-01-02") + ".md"
}
