package store

import "strings"

// Pin upserts a pinned hot record for term: never decayed, never
// demoted. Weight is raised to at least 1.0 but never lowered by a
// re-pin (spec.md §4.4).
func (s *Store) Pin(term, rule string) {
	rec, ok := s.Hot[term]
	if !ok {
		rec = &Synapse{
			FirstSeen: nowMillis(),
			Synapses:  make(map[string]int),
		}
		s.Hot[term] = rec
	}

	rec.Pinned = true
	rec.Rule = rule
	if rec.Weight < 1.0 {
		rec.Weight = 1.0
	}
	rec.LastSeen = nowMillis()
	rec.LastAccess = rec.LastSeen
}

// Memorize upserts a pinned, explicit-memory record for concept. Unlike
// Pin, it always resets Weight to the configured memorize initial
// weight (default 2.5, spec.md §9) — memorize replaces prior content
// outright rather than reinforcing it.
func (s *Store) Memorize(concept, content string, initialWeight float64) {
	now := nowMillis()
	rec, ok := s.Hot[concept]
	if !ok {
		rec = &Synapse{FirstSeen: now, Synapses: make(map[string]int)}
		s.Hot[concept] = rec
	}

	rec.Pinned = true
	rec.Rule = content
	rec.Source = "explicit_memorize"
	rec.Weight = initialWeight
	rec.LastSeen = now
	rec.LastAccess = now
	rec.MemorizedAt = now
}

// Pinned returns every pinned hot record, keyed by concept.
func (s *Store) Pinned() map[string]*Synapse {
	out := make(map[string]*Synapse)
	for term, rec := range s.Hot {
		if rec.Pinned {
			out[term] = rec
		}
	}
	return out
}

// PinnedMatching returns pinned records whose concept key shares a
// substring relationship with the lowercased query (spec.md §4.7 step 7
// — "pinned rules whose key has substring overlap with the query").
func (s *Store) PinnedMatching(lowerQuery string) map[string]*Synapse {
	out := make(map[string]*Synapse)
	for term, rec := range s.Hot {
		if !rec.Pinned {
			continue
		}
		lt := strings.ToLower(term)
		if strings.Contains(lowerQuery, lt) || strings.Contains(lt, lowerQuery) {
			out[term] = rec
		}
	}
	return out
}
