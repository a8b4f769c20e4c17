package store

import "regexp"

// specialConceptRe matches the literal keywords that earn a concept line
// an extra weight boost on ingestion (spec.md §4.4).
var specialConceptRe = regexp.MustCompile(`(?i)IMPORTANT|TODO|DECISION|LESSON|REMEMBER|重要|决策|教训|记住`)

// specialConceptBoost is added to weight for lines matching specialConceptRe.
const specialConceptBoost = 0.5

// IsSpecialConcept reports whether line matches the special-concept regex.
func IsSpecialConcept(line string) bool {
	return specialConceptRe.MatchString(line)
}

// ReinforceOnObservation creates or updates the hot record for term
// during distillation: increments Count, stamps LastSeen/LastAccess,
// adds source to Refs, and — for special-concept lines — adds the extra
// weight boost on top of the base creation weight. FirstSeen is set
// once, on creation, and never touched again.
func (s *Store) ReinforceOnObservation(term, source string, special bool) {
	now := nowMillis()

	rec, ok := s.Hot[term]
	if !ok {
		rec = &Synapse{
			Weight:    s.Cfg.InitialWeight,
			FirstSeen: now,
			Synapses:  make(map[string]int),
		}
		s.Hot[term] = rec
	}

	rec.Count++
	rec.LastSeen = now
	rec.LastAccess = now
	rec.addRef(source)
	if rec.Synapses == nil {
		rec.Synapses = make(map[string]int)
	}

	if special {
		rec.Weight += specialConceptBoost
	}
}

// ReinforceOnRecall applies long-term potentiation to term when it
// surfaces during recall: LastAccess is refreshed, Weight gains a fixed
// LTP increment, and RecallCount is incremented. No-op if term is absent
// from the hot store.
func (s *Store) ReinforceOnRecall(term string) {
	rec, ok := s.Hot[term]
	if !ok {
		return
	}
	rec.LastAccess = nowMillis()
	rec.Weight += 0.1
	rec.RecallCount++
}
