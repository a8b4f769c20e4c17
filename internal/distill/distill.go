// Package distill orchestrates the Distillation Pipeline (spec.md §4.6):
// Observer batch promotion, log ingestion, term extraction, Synapse
// Store mutation in the ordering §5 requires, archive promotion, and
// incremental vector indexing.
package distill

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/brainsynapse/synapse/internal/store"
	"github.com/brainsynapse/synapse/internal/tokenizer"
)

var dailyLogRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.md$`)
var stripLeadingRe = regexp.MustCompile(`^[-*#\s]+`)

// Summary is the human-readable result of one distillation run (spec.md
// §4.6: "logs processed, terms seen, active concept count").
type Summary struct {
	LogsProcessed int
	TermsSeen     int
	ActiveConcepts int
	Instincts     []observer.Instinct
}

// String renders Summary the way a CLI would print it.
func (s Summary) String() string {
	return fmt.Sprintf("distilled %d log(s), %s term(s), %s active concept(s), %d instinct(s) promoted",
		s.LogsProcessed, humanize.Comma(int64(s.TermsSeen)), humanize.Comma(int64(s.ActiveConcepts)), len(s.Instincts))
}

// Run executes one full distillation cycle against st, rooted at
// memoryDir (today's active logs) with archiveDir as the promotion
// target. force includes today's file in the sweep. emb is optional
// (embed.Disabled{} when no provider is configured).
func Run(ctx context.Context, st *store.Store, obs *observer.Observer, emb embed.Embedder, cfg config.Config, memoryDir, archiveDir string, force bool) Summary {
	instincts := obs.BatchAnalyze(st, cfg.Observer)

	logs, err := collectLogs(memoryDir, force)
	if err != nil {
		log.Printf("distill: enumerate logs: %v", err)
	}

	fileToTerms := make(map[string]map[string]bool)
	termsSeen := 0
	tok := tokenizer.New(nil)

	for _, name := range logs {
		path := filepath.Join(memoryDir, name)
		terms, err := extractFileTerms(path, tok)
		if err != nil {
			log.Printf("distill: read %s: %v", name, err)
			continue
		}

		for term, special := range terms {
			st.ReinforceOnObservation(term, name, special)
		}
		termSet := make(map[string]bool, len(terms))
		for term := range terms {
			termSet[term] = true
		}
		termsSeen += len(terms)
		fileToTerms[name] = termSet
	}

	processed := 0
	for _, name := range logs {
		src := filepath.Join(memoryDir, name)
		dst := filepath.Join(archiveDir, name)
		if err := os.MkdirAll(archiveDir, 0755); err != nil {
			log.Printf("distill: create archive dir: %v", err)
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			log.Printf("distill: archive %s: %v", name, err)
			continue
		}
		processed++
	}

	st.PredictiveLTD()
	st.BuildHebbianLinks(fileToTerms)
	st.ApplyLTD()

	if err := st.Persist(); err != nil {
		log.Printf("distill: persist store: %v", err)
	}

	if emb != nil && emb.Available() {
		today := time.Now().Format("2006-01-02") + ".md"
		todayPath := filepath.Join(memoryDir, today)
		if content, err := os.ReadFile(todayPath); err == nil {
			cache := embed.Open(st.Dir)
			ictx, cancel := context.WithTimeout(ctx, cfg.Search.VectorTimeout())
			if err := cache.IncrementalIndex(ictx, emb, today, string(content), cfg.Search.VectorChunkSize); err != nil {
				log.Printf("distill: incremental vector index: %v", err)
			}
			cancel()
		}
	}

	return Summary{
		LogsProcessed:  processed,
		TermsSeen:      termsSeen,
		ActiveConcepts: len(st.Hot),
		Instincts:      instincts,
	}
}

// collectLogs enumerates YYYY-MM-DD.md files under memoryDir, excluding
// today's file unless force is set.
func collectLogs(memoryDir string, force bool) ([]string, error) {
	entries, err := os.ReadDir(memoryDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	today := time.Now().Format("2006-01-02") + ".md"

	var names []string
	for _, e := range entries {
		if e.IsDir() || !dailyLogRe.MatchString(e.Name()) {
			continue
		}
		if !force && e.Name() == today {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// extractFileTerms reads path line by line and returns the union of its
// tokenizer terms, keyed to whether that term appeared on a
// special-concept line (spec.md §4.6 step 3). Special lines also
// contribute an extra concept: their first 50 characters, stripped of
// leading `-*#` markers.
func extractFileTerms(path string, tok *tokenizer.Tokenizer) (map[string]bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	terms := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		special := store.IsSpecialConcept(line)

		for term := range tok.Extract(line) {
			if special {
				terms[term] = true
			} else if _, ok := terms[term]; !ok {
				terms[term] = false
			}
		}

		if special {
			stripped := stripLeadingRe.ReplaceAllString(line, "")
			stripped = strings.TrimSpace(stripped)
			if runes := []rune(stripped); len(runes) > 50 {
				stripped = string(runes[:50])
			}
			if stripped != "" {
				terms[strings.ToLower(stripped)] = true
			}
		}
	}
	return terms, nil
}
