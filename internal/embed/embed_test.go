package embed

import (
	"context"
	"testing"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	a := []float64{1, 0, 0}
	if sim := cosineSimilarity(a, a); sim != 1 {
		t.Errorf("cosineSimilarity(a, a) = %v, want 1", sim)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	if sim := cosineSimilarity(a, b); sim != 0 {
		t.Errorf("cosineSimilarity(a, b) = %v, want 0", sim)
	}
}

func TestCosineSimilarityMismatchedLength(t *testing.T) {
	if sim := cosineSimilarity([]float64{1, 2}, []float64{1}); sim != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %v", sim)
	}
}

type stubEmbedder struct {
	vectors   map[string][]float64
	available bool
}

func (s stubEmbedder) Model() string   { return "stub" }
func (s stubEmbedder) Available() bool { return s.available }

func (s stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	return s.vectors[text], nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = s.vectors[t]
	}
	return out, nil
}

func TestDisabledEmbedderReportsUnavailable(t *testing.T) {
	d := Disabled{}
	if d.Available() {
		t.Errorf("Disabled.Available() should be false")
	}
	if _, err := d.Embed(context.Background(), "x"); err == nil {
		t.Errorf("expected error from disabled embedder")
	}
}

func TestChunkParagraphsGroupsUnderSoftLimit(t *testing.T) {
	text := "first paragraph\n\nsecond paragraph\n\nthird paragraph"
	chunks := chunkParagraphs(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected paragraphs under soft limit to merge into one chunk, got %d: %v", len(chunks), chunks)
	}
}

func TestChunkParagraphsSplitsOverLimit(t *testing.T) {
	long := make([]byte, 800)
	for i := range long {
		long[i] = 'a'
	}
	text := string(long) + "\n\n" + string(long)
	chunks := chunkParagraphs(text, 1000)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks over the soft limit, got %d", len(chunks))
	}
}

func TestIncrementalIndexIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	c := Open(dir)
	embedder := stubEmbedder{available: true, vectors: map[string][]float64{
		"hello world": {1, 0},
	}}

	if err := c.IncrementalIndex(context.Background(), embedder, "a.md", "hello world", 1000); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(c.chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(c.chunks))
	}

	if err := c.IncrementalIndex(context.Background(), embedder, "a.md", "hello world", 1000); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if len(c.chunks) != 1 {
		t.Fatalf("expected reindex to be a no-op, got %d chunks", len(c.chunks))
	}
}

func TestIncrementalIndexSkippedWhenUnavailable(t *testing.T) {
	dir := t.TempDir()
	c := Open(dir)
	if err := c.IncrementalIndex(context.Background(), Disabled{}, "a.md", "hello world", 1000); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(c.chunks) != 0 {
		t.Errorf("expected no chunks when embedder unavailable")
	}
}

func TestSearchReturnsNotOKWhenUnavailable(t *testing.T) {
	dir := t.TempDir()
	c := Open(dir)
	resp := c.Search(context.Background(), Disabled{}, "query", 5)
	if resp.OK {
		t.Errorf("expected OK=false when embedder unavailable")
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	dir := t.TempDir()
	c := Open(dir)
	embedder := stubEmbedder{available: true, vectors: map[string][]float64{
		"close match":  {1, 0},
		"distant note": {0, 1},
		"query":        {1, 0},
	}}

	if err := c.IncrementalIndex(context.Background(), embedder, "a.md", "close match", 1000); err != nil {
		t.Fatal(err)
	}
	if err := c.IncrementalIndex(context.Background(), embedder, "b.md", "distant note", 1000); err != nil {
		t.Fatal(err)
	}

	resp := c.Search(context.Background(), embedder, "query", 5)
	if !resp.OK || len(resp.Results) != 2 {
		t.Fatalf("unexpected search response: %+v", resp)
	}
	if resp.Results[0].File != "a.md" {
		t.Errorf("expected a.md to rank first, got %s", resp.Results[0].File)
	}
}
