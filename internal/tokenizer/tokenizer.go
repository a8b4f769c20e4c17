// Package tokenizer extracts content-bearing terms from mixed CJK/Latin
// text for the Synapse Store's weight bookkeeping (spec.md §4.1). It is
// deliberately distinct from internal/index's word extraction, which
// selects retrieval keys for the inverted index rather than weight-store
// concepts — the two must not be unified (spec.md §9).
package tokenizer

import (
	"regexp"
	"strings"
)

// MinWordLength is the minimum accepted term length.
const MinWordLength = 2

// TaggedTerm is a single term plus its part-of-speech tag, as a pluggable
// POS tagger would emit it.
type TaggedTerm struct {
	Term string
	Tag  string
}

// Tagger is the pluggable part-of-speech tagger capability. Brain
// Synapse ships no concrete tagger (POS tagging is out of scope per
// spec.md §1) — callers either provide their own or use NullTagger,
// which always falls back to the regex path.
type Tagger interface {
	Tag(text string) []TaggedTerm
}

// NullTagger never returns any tags, forcing the fallback path.
type NullTagger struct{}

// Tag implements Tagger.
func (NullTagger) Tag(string) []TaggedTerm { return nil }

// validPOSTags is the fixed tag set from spec.md §4.1 for which a
// tagger's output is accepted as a content word.
var validPOSTags = map[string]bool{
	"n": true, "nr": true, "nz": true, "eng": true, "noun": true,
	"NN": true, "NNS": true, "NNP": true, "NNPS": true, "FW": true,
}

var (
	cjkRunRe   = regexp.MustCompile(`[\x{4E00}-\x{9FA5}]{2,}`)
	latinRunRe = regexp.MustCompile(`[A-Za-z]{2,}`)
)

// cjkStopWords and englishStopWords are small, fixed stop-word sets for
// the fallback path.
var cjkStopWords = map[string]bool{
	"的": true, "了": true, "和": true, "是": true, "在": true,
	"我": true, "你": true, "他": true, "这": true, "那": true,
	"也": true, "就": true, "都": true, "而": true, "及": true,
	"与": true, "或": true, "一个": true, "没有": true, "我们": true,
}

var englishStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "to": true, "of": true,
	"in": true, "on": true, "at": true, "by": true, "for": true,
	"with": true, "about": true, "as": true, "it": true, "this": true,
	"that": true, "these": true, "those": true, "from": true, "into": true,
}

// Tokenizer extracts content terms from raw text. It never raises: any
// tagger failure degrades silently to the fallback regex path.
type Tokenizer struct {
	tagger Tagger
}

// New creates a Tokenizer using the given Tagger. A nil tagger always
// uses the fallback path.
func New(tagger Tagger) *Tokenizer {
	if tagger == nil {
		tagger = NullTagger{}
	}
	return &Tokenizer{tagger: tagger}
}

// Extract returns the set of candidate content terms in text, lowercased.
func (t *Tokenizer) Extract(text string) map[string]bool {
	if tagged := t.tagger.Tag(text); len(tagged) > 0 {
		if terms := fromTagged(tagged); len(terms) > 0 {
			return terms
		}
	}
	return fallback(text)
}

func fromTagged(tagged []TaggedTerm) map[string]bool {
	terms := make(map[string]bool)
	for _, tt := range tagged {
		if !validPOSTags[tt.Tag] {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(tt.Term))
		if len([]rune(term)) < MinWordLength {
			continue
		}
		terms[term] = true
	}
	return terms
}

func fallback(text string) map[string]bool {
	terms := make(map[string]bool)

	for _, run := range cjkRunRe.FindAllString(text, -1) {
		low := strings.ToLower(run)
		if cjkStopWords[low] {
			continue
		}
		terms[low] = true
	}

	for _, run := range latinRunRe.FindAllString(text, -1) {
		low := strings.ToLower(run)
		if englishStopWords[low] {
			continue
		}
		terms[low] = true
	}

	return terms
}
