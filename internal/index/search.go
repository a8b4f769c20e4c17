package index

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Result is one ranked file match, with its aggregate score and an
// illustrative snippet. Path is the file path as stored in the index
// cache (the scanned directory joined with the file name); it is not
// made relative to the workspace.
type Result struct {
	Path    string
	Score   int
	Snippet string
}

// MaxResults caps the ranked result set (spec.md §4.2).
const MaxResults = 5

// DefaultTimeout is the hard search budget (spec.md §4.2, §6).
const DefaultTimeout = 100 * time.Millisecond

var nonWordRe = regexp.MustCompile(`\W+`)

// Search scores every expanded query against the in-memory index and
// returns the top MaxResults matches within budget. On timeout it
// returns an empty slice and the elapsed time rather than raising.
func Search(ctx context.Context, idx *Index, queries []string, budget time.Duration) ([]Result, time.Duration) {
	if budget <= 0 {
		budget = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	done := make(chan []Result, 1)
	go func() { done <- idx.score(queries) }()

	select {
	case results := <-done:
		return results, time.Since(start)
	case <-ctx.Done():
		return nil, time.Since(start)
	}
}

func (idx *Index) score(queries []string) []Result {
	scores := make(map[string]int)
	order := make([]string, 0)

	addScore := func(path string, delta int) {
		if _, ok := scores[path]; !ok {
			order = append(order, path)
		}
		scores[path] += delta
	}

	for _, q := range queries {
		lq := strings.ToLower(strings.TrimSpace(q))
		if lq == "" {
			continue
		}

		if containsCJK(lq) {
			for path := range idx.byWord[lq] {
				addScore(path, 10)
			}
			for _, ch := range cjkCharRe.FindAllString(lq, -1) {
				for path := range idx.byWord[strings.ToLower(ch)] {
					addScore(path, 1)
				}
			}
			continue
		}

		for _, tok := range nonWordRe.Split(lq, -1) {
			if len([]rune(tok)) <= 2 {
				continue
			}
			for path := range idx.byWord[tok] {
				addScore(path, 1)
			}
		}
	}

	results := make([]Result, 0, len(order))
	for _, path := range order {
		results = append(results, Result{Path: path, Score: scores[path], Snippet: snippet(path, queries)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// snippet extracts the line containing the first query match plus its
// immediate neighbors; if no line matches, the first three lines of the
// file stand in. Read failures degrade to an empty snippet in-band.
func snippet(path string, queries []string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	matchLine := -1
	for i, line := range lines {
		low := strings.ToLower(line)
		for _, q := range queries {
			if strings.Contains(low, strings.ToLower(q)) {
				matchLine = i
				break
			}
		}
		if matchLine >= 0 {
			break
		}
	}

	if matchLine < 0 {
		if len(lines) > 3 {
			lines = lines[:3]
		}
		return strings.Join(lines, "\n")
	}

	lo := matchLine - 1
	if lo < 0 {
		lo = 0
	}
	hi := matchLine + 2
	if hi > len(lines) {
		hi = len(lines)
	}
	return strings.Join(lines[lo:hi], "\n")
}

// RelPath returns path relative to base, falling back to path unchanged
// when it cannot be made relative.
func RelPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
