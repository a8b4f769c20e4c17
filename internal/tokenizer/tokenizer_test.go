package tokenizer

import "testing"

func TestExtractFallbackMixedScript(t *testing.T) {
	tok := New(nil)
	terms := tok.Extract("记住 database connection pooling 和 cache invalidation")

	want := []string{"记住", "database", "connection", "pooling", "cache", "invalidation"}
	for _, w := range want {
		if !terms[w] {
			t.Errorf("expected term %q in %v", w, terms)
		}
	}
	if terms["和"] {
		t.Errorf("stop word 和 should be filtered, got %v", terms)
	}
}

func TestExtractDropsShortTokens(t *testing.T) {
	tok := New(nil)
	terms := tok.Extract("a I to of")
	if len(terms) != 0 {
		t.Errorf("expected no terms from all-stopword/short input, got %v", terms)
	}
}

type stubTagger struct{ tags []TaggedTerm }

func (s stubTagger) Tag(string) []TaggedTerm { return s.tags }

func TestExtractPrefersTaggerOutput(t *testing.T) {
	tok := New(stubTagger{tags: []TaggedTerm{
		{Term: "Database", Tag: "NN"},
		{Term: "x", Tag: "NN"}, // below MinWordLength, dropped
		{Term: "quickly", Tag: "ADV"}, // not a valid POS tag, dropped
	}})

	terms := tok.Extract("irrelevant raw text")
	if !terms["database"] {
		t.Errorf("expected lowercased tagger term, got %v", terms)
	}
	if len(terms) != 1 {
		t.Errorf("expected exactly 1 term, got %v", terms)
	}
}

func TestExtractFallsBackWhenTaggerEmpty(t *testing.T) {
	tok := New(stubTagger{tags: nil})
	terms := tok.Extract("memory system database cache")
	for _, w := range []string{"memory", "system", "database", "cache"} {
		if !terms[w] {
			t.Errorf("expected fallback term %q, got %v", w, terms)
		}
	}
}
