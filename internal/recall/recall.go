// Package recall implements the Recall Pipeline (spec.md §4.7): direct
// and spreading activation, the parallel vector-vs-local search race
// under a hard 3-second deadline, pinned-rule injection, and dynamic
// re-ranking.
package recall

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/index"
	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/brainsynapse/synapse/internal/store"
)

// VectorRaceTimeout is the hard deadline for the vector-vs-local search
// race (spec.md §4.7 step 4).
const VectorRaceTimeout = 3 * time.Second

// Options controls one recall invocation (spec.md §4.7).
type Options struct {
	Deep        bool
	ReviveLimit int
}

// PinnedRule is a pinned record surfaced in a recall response.
type PinnedRule struct {
	Keyword string `json:"keyword"`
	Rule    string `json:"rule"`
}

// SearchHit is one ranked result in the recall response, from either
// the local index or the vector embedder.
type SearchHit struct {
	File       string  `json:"file"`
	Score      float64 `json:"score,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
	Content    string  `json:"content,omitempty"`
	Preview    string  `json:"preview,omitempty"`
	FinalScore float64 `json:"finalScore,omitempty"`
}

// DeepRecallResult is the optional deep-recall annex to a recall
// response.
type DeepRecallResult struct {
	Source          string   `json:"source"`
	Query           string   `json:"query"`
	RevivedCount    int      `json:"revived_count"`
	RevivedMemories []string `json:"revived_memories"`
	ArchiveContext  []string `json:"archive_context"`
	RemainingLatent int      `json:"remaining_latent"`
}

// Response is the stable JSON recall response shape (spec.md §6).
type Response struct {
	Source            string             `json:"source"`
	ActivatedConcepts  []string           `json:"activated_concepts"`
	PinnedRules        []PinnedRule       `json:"pinned_rules"`
	SearchResults      []SearchHit        `json:"search_results"`
	WeightsSnapshot    map[string]float64 `json:"weights_snapshot"`
	ScoringMode        string             `json:"scoring_mode"`
	IsFastMode         bool               `json:"is_fast_mode"`
	DeepRecall         *DeepRecallResult  `json:"deep_recall,omitempty"`
}

// Deps bundles the collaborators Recall needs, so call sites don't pass
// five positional arguments.
type Deps struct {
	Store      *store.Store
	Index      *index.Index
	Embedder   embed.Embedder
	VectorDB   *embed.Cache
	Observer   *observer.Observer
	Cfg        config.Config
	MemoryDir  string
	ArchiveDir string
}

// Run executes one recall for query against deps, per spec.md §4.7's
// nine steps.
func Run(ctx context.Context, deps Deps, query string, opts Options) Response {
	if opts.ReviveLimit <= 0 {
		opts.ReviveLimit = 5
	}

	// Step 1: direct activation + LTP.
	activated := deps.Store.DirectActivation(query)
	for _, term := range activated {
		deps.Store.ReinforceOnRecall(term)
	}

	// Step 2: Hebbian spreading expansion.
	var hebbianTerms []string
	for _, term := range activated {
		hebbianTerms = append(hebbianTerms, deps.Store.SpreadingActivation(term, 3)...)
	}
	expanded := append([]string{query}, hebbianTerms...)

	// Step 3: persist hot store to commit LTP/recall_count before search.
	if err := deps.Store.Persist(); err != nil {
		log.Printf("recall: persist before search: %v", err)
	}

	// Step 4: parallel local-vs-vector race under a 3s deadline.
	localResults, vectorResp, isFastMode := raceSearch(ctx, deps, query, expanded)

	var results []SearchHit
	scoringMode := "local"
	source := "local-file-search"

	if vectorResp.OK && len(vectorResp.Results) > 0 {
		source = "silicon-embed"
		scoringMode = "vector"
		for _, hit := range vectorResp.Results {
			results = append(results, SearchHit{File: hit.File, Similarity: hit.Similarity, Preview: hit.Preview})
		}
	} else {
		for _, r := range localResults {
			results = append(results, SearchHit{File: r.Path, Score: float64(r.Score), Content: r.Snippet})
		}
	}

	response := Response{
		Source:            source,
		ActivatedConcepts: activated,
		ScoringMode:       scoringMode,
		IsFastMode:        isFastMode,
		WeightsSnapshot:   weightsSnapshot(deps.Store, activated),
	}

	// Step 6: optional deep recall.
	if opts.Deep {
		dr := runDeepRecall(deps, expanded, opts.ReviveLimit, query)
		response.DeepRecall = &dr
		response.Source += " + deep_recall"
	}

	// Step 7: pinned-rule injection.
	response.PinnedRules = pinnedRules(deps.Store, query)

	// Step 8: re-rank.
	if scoringMode == "local" {
		results = dynamicReRank(deps.Store, expanded, results)
	}
	response.SearchResults = results

	// Step 9: async workflow observation.
	if deps.Observer != nil {
		go deps.Observer.Record(observer.TypeWorkflow, map[string]any{"context": query})
	}

	return response
}

func weightsSnapshot(st *store.Store, concepts []string) map[string]float64 {
	snap := make(map[string]float64, len(concepts))
	for _, c := range concepts {
		if rec, ok := st.Hot[c]; ok {
			snap[c] = rec.Weight
		}
	}
	return snap
}

func pinnedRules(st *store.Store, query string) []PinnedRule {
	matches := st.PinnedMatching(strings.ToLower(query))
	keys := make([]string, 0, len(matches))
	for k := range matches {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]PinnedRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, PinnedRule{Keyword: k, Rule: matches[k].Rule})
	}
	return rules
}

func runDeepRecall(deps Deps, expanded []string, limit int, query string) DeepRecallResult {
	revived := deps.Store.DeepRecall(expanded, limit)
	names := make([]string, len(revived))
	for i, r := range revived {
		names[i] = r.Term
	}

	var archiveLines []string
	for _, m := range store.ScanArchiveContext(deps.ArchiveDir, query) {
		for _, line := range m.Lines {
			archiveLines = append(archiveLines, m.File+": "+line)
		}
	}

	return DeepRecallResult{
		Source:          "deep_recall",
		Query:           query,
		RevivedCount:    len(revived),
		RevivedMemories: names,
		ArchiveContext:  archiveLines,
		RemainingLatent: len(deps.Store.Cold),
	}
}

// dynamicReRank applies spec.md §4.7.1's dynamic keyword re-ranking to
// local-index results.
func dynamicReRank(st *store.Store, terms []string, results []SearchHit) []SearchHit {
	now := time.Now().UnixMilli()

	for i, r := range results {
		best := 0.0
		content := strings.ToLower(r.Content + " " + r.File)
		for _, term := range terms {
			lt := strings.ToLower(term)
			if lt == "" || !strings.Contains(content, lt) {
				continue
			}
			rec, ok := st.Hot[lt]
			if !ok {
				continue
			}
			days := float64(now-rec.LastSeen) / (1000 * 60 * 60 * 24)
			if days < 0 {
				days = 0
			}
			dw := 1 + math.Log(float64(rec.Count)+1)/(1+0.1*days)
			if dw > 2.0 {
				dw = 2.0
			}
			if dw > best {
				best = dw
			}
		}
		if best == 0 {
			best = 1.0
		}
		sim := r.Similarity
		if sim == 0 && r.Score > 0 {
			sim = 0.5
		} else if sim == 0 {
			sim = 0.5
		}
		results[i].FinalScore = sim * best
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

// raceSearch launches the local-index and vector-embedder searches in
// parallel under a shared 3s deadline (spec.md §4.7 step 4, §5).
func raceSearch(ctx context.Context, deps Deps, query string, expanded []string) ([]index.Result, embed.SearchResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, VectorRaceTimeout)
	defer cancel()

	localDone := make(chan []index.Result, 1)
	go func() {
		results, _ := index.Search(ctx, deps.Index, expanded, deps.Cfg.Search.LocalTimeout())
		localDone <- results
	}()

	vectorDone := make(chan embed.SearchResponse, 1)
	go func() {
		if deps.VectorDB == nil || deps.Embedder == nil {
			vectorDone <- embed.SearchResponse{OK: false}
			return
		}
		vectorDone <- deps.VectorDB.Search(ctx, deps.Embedder, query, deps.Cfg.Search.VectorMaxResults)
	}()

	var local []index.Result
	var vector embed.SearchResponse
	isFastMode := false

	localReceived, vectorReceived := false, false
	for !localReceived || !vectorReceived {
		select {
		case local = <-localDone:
			localReceived = true
		case vector = <-vectorDone:
			vectorReceived = true
		case <-ctx.Done():
			isFastMode = true
			if !localReceived {
				local = nil
			}
			if !vectorReceived {
				vector = embed.SearchResponse{OK: false}
			}
			return local, vector, isFastMode
		}
	}
	return local, vector, isFastMode
}
