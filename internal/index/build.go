package index

import (
	"os"
	"path/filepath"
	"strings"
)

// Index is the in-memory word→fileset index, built from an incrementally
// refreshed on-disk cache (spec.md §4.2).
type Index struct {
	cachePath string
	cache     Cache
	byWord    map[string]map[string]bool // word -> set of file paths
}

// Open loads the cache at cachePath (creating an empty one if absent)
// and rebuilds the in-memory word index from it.
func Open(cachePath string) *Index {
	idx := &Index{cachePath: cachePath, cache: loadCache(cachePath)}
	idx.rebuildMemoryIndex()
	return idx
}

// Refresh rescans every .md file directly under memoryDir and
// archiveDir, re-extracting words for any file whose mtime differs from
// (or is absent from) the cache, then rewrites the cache if anything
// changed and rebuilds the in-memory index.
func (idx *Index) Refresh(memoryDir, archiveDir string) error {
	changed := false

	for _, dir := range []string{memoryDir, archiveDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			info, err := e.Info()
			if err != nil {
				continue
			}
			mtime := info.ModTime().UnixMilli()

			existing, ok := idx.cache.Files[e.Name()]
			if ok && existing.Mtime == mtime {
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			idx.cache.Files[e.Name()] = FileEntry{
				Mtime: mtime,
				Path:  path,
				Words: extractWords(string(data)),
			}
			changed = true
		}
	}

	if changed {
		idx.cache.LastBuildTime = nowMillis()
		if err := writeCache(idx.cachePath, idx.cache); err != nil {
			return err
		}
	}
	idx.rebuildMemoryIndex()
	return nil
}

func (idx *Index) rebuildMemoryIndex() {
	idx.byWord = make(map[string]map[string]bool)
	for _, entry := range idx.cache.Files {
		for _, w := range entry.Words {
			set, ok := idx.byWord[w]
			if !ok {
				set = make(map[string]bool)
				idx.byWord[w] = set
			}
			set[entry.Path] = true
		}
	}
}
