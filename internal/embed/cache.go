package embed

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Chunk is one paragraph-grouped slice of a source file, plus the
// embedding vector computed for it.
type Chunk struct {
	File    string    `json:"file"`
	Preview string    `json:"preview"`
	Vector  []float64 `json:"vector"`
}

// meta tracks which (file, preview[:200]) pairs have already been
// embedded, for incremental-index idempotence (spec.md §4.3).
type meta struct {
	Seen map[string]bool `json:"seen"`
}

// Cache is the persisted vector store: vector_cache.json holds the
// chunks, vector_meta.json holds the dedup ledger.
type Cache struct {
	cachePath string
	metaPath  string
	chunks    []Chunk
	seen      map[string]bool
}

// Open loads an existing cache from disk, or starts an empty one.
func Open(dir string) *Cache {
	c := &Cache{
		cachePath: filepath.Join(dir, "vector_cache.json"),
		metaPath:  filepath.Join(dir, "vector_meta.json"),
		seen:      make(map[string]bool),
	}

	if data, err := os.ReadFile(c.cachePath); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &c.chunks); err != nil {
			log.Printf("embed: corrupt %s, treating as empty: %v", c.cachePath, err)
			c.chunks = nil
		}
	}
	if data, err := os.ReadFile(c.metaPath); err == nil && len(data) > 0 {
		var m meta
		if err := json.Unmarshal(data, &m); err != nil {
			log.Printf("embed: corrupt %s, treating as empty: %v", c.metaPath, err)
		} else if m.Seen != nil {
			c.seen = m.Seen
		}
	}
	return c
}

func (c *Cache) persist() error {
	data, err := json.MarshalIndent(c.chunks, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.cachePath, data, 0644); err != nil {
		return err
	}
	metaData, err := json.MarshalIndent(meta{Seen: c.seen}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaPath, metaData, 0644)
}

// dedupKey builds the (file, preview[:200]) idempotence key.
func dedupKey(file, preview string) string {
	p := preview
	if len(p) > 200 {
		p = p[:200]
	}
	return file + "\x00" + p
}

// chunkParagraphs groups text into paragraphs up to chunkSize chars
// (soft limit: a paragraph already over the limit is kept whole rather
// than split mid-paragraph, per spec.md §4.3's "paragraph-grouped").
func chunkParagraphs(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	paras := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paras {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > chunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// IncrementalIndex embeds any not-yet-seen chunks of file's content and
// appends them to the cache. Idempotent: re-indexing an unchanged file
// is a no-op (spec.md §4.3).
func (c *Cache) IncrementalIndex(ctx context.Context, embedder Embedder, file string, content string, chunkSize int) error {
	if !embedder.Available() {
		return nil
	}

	var newChunks []string
	var newPreviews []string
	for _, chunk := range chunkParagraphs(content, chunkSize) {
		key := dedupKey(file, chunk)
		if c.seen[key] {
			continue
		}
		newChunks = append(newChunks, chunk)
		newPreviews = append(newPreviews, chunk)
	}
	if len(newChunks) == 0 {
		return nil
	}

	vecs, err := embedder.EmbedBatch(ctx, newChunks)
	if err != nil {
		return err
	}

	for i, vec := range vecs {
		preview := newPreviews[i]
		c.chunks = append(c.chunks, Chunk{File: file, Preview: preview, Vector: vec})
		c.seen[dedupKey(file, preview)] = true
	}
	return c.persist()
}

// Search embeds query and scores it against every cached chunk by
// cosine similarity, returning the top maxResults. Reports
// OK=false (not an error) when the embedder is unavailable, per
// spec.md §4.3.
func (c *Cache) Search(ctx context.Context, embedder Embedder, query string, maxResults int) SearchResponse {
	if !embedder.Available() {
		return SearchResponse{OK: false}
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	qvec, err := embedder.Embed(ctx, query)
	if err != nil {
		return SearchResponse{OK: false}
	}

	hits := make([]SearchHit, 0, len(c.chunks))
	for _, chunk := range c.chunks {
		sim := cosineSimilarity(qvec, chunk.Vector)
		hits = append(hits, SearchHit{File: chunk.File, Preview: chunk.Preview, Similarity: sim})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	return SearchResponse{OK: true, Results: hits}
}
