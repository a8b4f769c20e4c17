package store

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RevivedMemory is one latent record brought back into the hot store by
// deep recall.
type RevivedMemory struct {
	Term   string
	Record Synapse
}

// DeepRecall finds latent keys matching any of queries (substring either
// way, case-insensitive), revives the top `limit` by descending
// OriginalWeight into the hot store, and returns what was revived. Refs
// are preserved across the revival.
func (s *Store) DeepRecall(queries []string, limit int) []RevivedMemory {
	if limit <= 0 {
		limit = 5
	}

	type candidate struct {
		term string
		rec  *Latent
	}
	seen := make(map[string]bool)
	var candidates []candidate

	for _, q := range queries {
		lq := strings.ToLower(q)
		for term, rec := range s.Cold {
			if seen[term] {
				continue
			}
			lt := strings.ToLower(term)
			if strings.Contains(lq, lt) || strings.Contains(lt, lq) {
				candidates = append(candidates, candidate{term: term, rec: rec})
				seen[term] = true
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].rec.OriginalWeight != candidates[j].rec.OriginalWeight {
			return candidates[i].rec.OriginalWeight > candidates[j].rec.OriginalWeight
		}
		return candidates[i].term < candidates[j].term
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	now := nowMillis()
	revived := make([]RevivedMemory, 0, len(candidates))
	for _, c := range candidates {
		rec := c.rec.Synapse
		rec.Weight = s.Cfg.RevivedWeight
		rec.LastAccess = now
		rec.RevivedFrom = "latent"
		rec.RevivedAt = now
		// Refs are preserved verbatim (already copied via the struct copy above).

		s.Hot[c.term] = &rec
		delete(s.Cold, c.term)
		revived = append(revived, RevivedMemory{Term: c.term, Record: rec})
	}

	return revived
}

// ArchiveMatch is one line of context found while scanning archived logs
// for a deep-recall query.
type ArchiveMatch struct {
	File  string
	Lines []string
}

// maxArchiveFilesScanned and maxLinesPerFile bound the archive scan's
// cost, per spec.md §4.4 ("first 10 archive files", "up to 3 matching
// lines per file").
const (
	maxArchiveFilesScanned = 10
	maxLinesPerFile        = 3
)

// ScanArchiveContext scans up to the first 10 archive files (sorted by
// name) for lines containing query (case-insensitive), returning up to
// 3 matching lines per file as context. Read failures on an individual
// file are skipped, never raised.
func ScanArchiveContext(archiveDir, query string) []ArchiveMatch {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) > maxArchiveFilesScanned {
		names = names[:maxArchiveFilesScanned]
	}

	lq := strings.ToLower(query)
	var matches []ArchiveMatch
	for _, name := range names {
		lines := scanFileForQuery(filepath.Join(archiveDir, name), lq)
		if len(lines) > 0 {
			matches = append(matches, ArchiveMatch{File: name, Lines: lines})
		}
	}
	return matches
}

func scanFileForQuery(path, lowerQuery string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var matched []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(strings.ToLower(line), lowerQuery) {
			matched = append(matched, line)
			if len(matched) >= maxLinesPerFile {
				break
			}
		}
	}
	return matched
}
