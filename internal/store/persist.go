package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/brainsynapse/synapse/internal/lock"
)

// loadJSONMap reads a JSON object file into a map. A missing file yields
// an empty map. A corrupt file is treated as empty and logged — per
// spec.md §7, malformed JSON is never raised, and the next successful
// write repairs it.
func loadJSONMap[T any](path string) map[string]*T {
	out := make(map[string]*T)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("store: read %s: %v", path, err)
		}
		return out
	}
	if len(data) == 0 {
		return out
	}

	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("store: corrupt %s, treating as empty: %v", path, err)
		return make(map[string]*T)
	}
	return out
}

// writeJSONAtomic pretty-prints v and writes it to path via a temp file
// plus rename, so a crash mid-write never leaves a half-written file in
// place — the same rename-based durability idiom the engine uses when
// archiving logs (os.Rename).
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Persist writes the hot and cold stores to disk, serialized by the
// advisory lock at LockPath(). Partial-write resilience is provided by
// writeJSONAtomic; lock contention logs and returns an error rather than
// blocking indefinitely (spec.md §5).
func (s *Store) Persist() error {
	return lock.WithLock(s.LockPath(), func() error {
		if err := writeJSONAtomic(s.HotPath(), s.Hot); err != nil {
			log.Printf("store: persist hot: %v", err)
			return err
		}
		if err := writeJSONAtomic(s.ColdPath(), s.Cold); err != nil {
			log.Printf("store: persist cold: %v", err)
			return err
		}
		return nil
	})
}
