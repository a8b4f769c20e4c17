package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/brainsynapse/synapse/internal/store"
)

// defaultEngineDir mirrors the teacher's DefaultDBPath convention:
// ~/.synapse as the engine's home when no override is configured.
func defaultEngineDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".synapse"), nil
}

// loadConfig resolves configuration and fills in default engine/memory
// directories when the config file leaves them blank.
func loadConfig() (config.Config, error) {
	cfgPath := os.Getenv("SYNAPSE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}

	if cfg.Engine.Dir == "" {
		dir, err := defaultEngineDir()
		if err != nil {
			return cfg, err
		}
		cfg.Engine.Dir = dir
	}
	if cfg.Engine.MemoryDir == "" {
		cfg.Engine.MemoryDir = filepath.Join(cfg.Engine.Dir, "memory")
	}

	if err := os.MkdirAll(cfg.Engine.Dir, 0755); err != nil {
		return cfg, fmt.Errorf("create engine dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Engine.MemoryDir, 0755); err != nil {
		return cfg, fmt.Errorf("create memory dir: %w", err)
	}
	if err := os.MkdirAll(archiveDirFor(cfg), 0755); err != nil {
		return cfg, fmt.Errorf("create archive dir: %w", err)
	}
	return cfg, nil
}

func archiveDirFor(cfg config.Config) string {
	return filepath.Join(cfg.Engine.MemoryDir, "archive")
}

func openStore(cfg config.Config) *store.Store {
	return store.Open(cfg.Engine.Dir, cfg.LTD)
}

func openObserver(cfg config.Config) *observer.Observer {
	return observer.New(filepath.Join(cfg.Engine.Dir, "observations.jsonl"))
}

// openEmbedder returns the HTTP embedder detected from the environment
// (spec.md §6), or Disabled when no provider credential is present or
// the feature is turned off.
func openEmbedder(cfg config.Config) embed.Embedder {
	if !cfg.Features.EnableVectorSearch {
		return embed.Disabled{}
	}
	if e := embed.DetectHTTPEmbedder(); e != nil {
		return e
	}
	return embed.Disabled{}
}
