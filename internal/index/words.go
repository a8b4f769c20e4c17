package index

import (
	"regexp"
	"strings"
)

// Word extraction for the index is deliberately distinct from
// internal/tokenizer (spec.md §4.2.1, §9): it keeps every single CJK
// ideograph within a run (not just the run) to support per-character
// scoring of short CJK queries, and it additionally keeps alphanumeric
// runs that the tokenizer's pure-letter regex would drop.
var (
	cjkRunRe   = regexp.MustCompile(`[\x{4E00}-\x{9FA5}]{2,}`)
	cjkCharRe  = regexp.MustCompile(`[\x{4E00}-\x{9FA5}]`)
	latinRunRe = regexp.MustCompile(`[A-Za-z]{2,}`)
	alnumRunRe = regexp.MustCompile(`[A-Za-z0-9]{2,}`)
)

// extractWords returns the indexing word set for text.
func extractWords(text string) []string {
	set := make(map[string]bool)

	for _, run := range cjkRunRe.FindAllString(text, -1) {
		set[strings.ToLower(run)] = true
		for _, ch := range cjkCharRe.FindAllString(run, -1) {
			set[strings.ToLower(ch)] = true
		}
	}
	for _, run := range latinRunRe.FindAllString(text, -1) {
		set[strings.ToLower(run)] = true
	}
	for _, run := range alnumRunRe.FindAllString(text, -1) {
		set[strings.ToLower(run)] = true
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	return words
}

// containsCJK reports whether s has any CJK ideograph.
func containsCJK(s string) bool {
	return cjkCharRe.MatchString(s)
}
