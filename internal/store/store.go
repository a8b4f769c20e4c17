package store

import (
	"path/filepath"
	"time"

	"github.com/brainsynapse/synapse/internal/config"
)

// Store owns the hot and cold concept maps plus the LTD configuration
// that governs them (spec.md §9: "single owned store object passed by
// reference"). A single Store is constructed per CLI invocation.
type Store struct {
	Dir string
	Cfg config.LTDConfig

	Hot  map[string]*Synapse
	Cold map[string]*Latent
}

// Open creates a Store bound to dir and loads its current contents from
// disk. A missing or corrupt hot/cold file degrades to an empty map,
// never an error.
func Open(dir string, cfg config.LTDConfig) *Store {
	s := &Store{Dir: dir, Cfg: cfg}
	s.Load()
	return s
}

// Load (re-)reads the hot and cold stores from disk into memory,
// discarding any unpersisted in-memory mutations.
func (s *Store) Load() {
	s.Hot = loadJSONMap[Synapse](s.HotPath())
	s.Cold = loadJSONMap[Latent](s.ColdPath())
}

// HotPath returns the path to synapse_weights.json.
func (s *Store) HotPath() string { return filepath.Join(s.Dir, "synapse_weights.json") }

// ColdPath returns the path to latent_weights.json.
func (s *Store) ColdPath() string { return filepath.Join(s.Dir, "latent_weights.json") }

// LockPath returns the path to the advisory lock file.
func (s *Store) LockPath() string { return filepath.Join(s.Dir, ".observer.lock") }

// nowMillis returns the current time in milliseconds since epoch, the
// engine's uniform timestamp unit (spec.md §3).
func nowMillis() int64 { return time.Now().UnixMilli() }
