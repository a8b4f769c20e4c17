// Package index implements the Local Inverted Index (spec.md §4.2): an
// incremental, mtime-keyed word→file index over the workspace's active
// and archived daily logs, queried under a hard execution budget.
package index

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// FileEntry is one source file's cache record.
type FileEntry struct {
	Mtime int64    `json:"mtime"`
	Path  string   `json:"path"`
	Words []string `json:"words"`
}

// Cache is the on-disk incremental index cache (local_index_cache.json).
type Cache struct {
	LastBuildTime int64                `json:"lastBuildTime"`
	Files         map[string]FileEntry `json:"files"`
}

// loadCache reads path into a Cache. A missing or corrupt file yields an
// empty cache, never an error — the next build repopulates it.
func loadCache(path string) Cache {
	c := Cache{Files: make(map[string]FileEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: read %s: %v", path, err)
		}
		return c
	}
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("index: corrupt %s, treating as empty: %v", path, err)
		return Cache{Files: make(map[string]FileEntry)}
	}
	if c.Files == nil {
		c.Files = make(map[string]FileEntry)
	}
	return c
}

// writeCache pretty-prints c to path via a temp file plus rename.
func writeCache(path string, c Cache) error {
	data, err := json.MarshalIndent(c, "", "  ")
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
