package store

import (
	"sort"
	"strings"
)

// DirectActivation returns every hot concept key that is a substring of
// query, or of which query is a substring (case-insensitive either
// way), sorted by descending weight, capped at 5 (spec.md §4.4).
func (s *Store) DirectActivation(query string) []string {
	q := strings.ToLower(query)

	type hit struct {
		term   string
		weight float64
	}
	var hits []hit
	for term, rec := range s.Hot {
		lt := strings.ToLower(term)
		if strings.Contains(q, lt) || strings.Contains(lt, q) {
			hits = append(hits, hit{term: term, weight: rec.Weight})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].weight != hits[j].weight {
			return hits[i].weight > hits[j].weight
		}
		return hits[i].term < hits[j].term
	})

	if len(hits) > 5 {
		hits = hits[:5]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.term
	}
	return out
}
