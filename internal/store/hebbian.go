package store

import "sort"

// BuildHebbianLinks increments the bidirectional co-occurrence strength
// for every unordered pair of distinct terms that appeared together in
// the same source file. Records absent from the hot store are created
// with the baseline co-occurrence weight of 0.5 (spec.md §4.4).
func (s *Store) BuildHebbianLinks(fileToTerms map[string]map[string]bool) {
	for _, terms := range fileToTerms {
		ordered := make([]string, 0, len(terms))
		for t := range terms {
			ordered = append(ordered, t)
		}
		sort.Strings(ordered)

		for i := 0; i < len(ordered); i++ {
			for j := i + 1; j < len(ordered); j++ {
				s.linkPair(ordered[i], ordered[j])
			}
		}
	}
}

func (s *Store) linkPair(a, b string) {
	ra := s.ensureForLink(a)
	rb := s.ensureForLink(b)
	ra.Synapses[b]++
	rb.Synapses[a]++
}

func (s *Store) ensureForLink(term string) *Synapse {
	rec, ok := s.Hot[term]
	if !ok {
		rec = &Synapse{Weight: 0.5, Synapses: make(map[string]int), FirstSeen: nowMillis()}
		s.Hot[term] = rec
	}
	if rec.Synapses == nil {
		rec.Synapses = make(map[string]int)
	}
	return rec
}

// linkPartner pairs a partner concept with its link strength, used by
// SpreadingActivation.
type linkPartner struct {
	Term     string
	Strength int
}

// SpreadingActivation returns up to topN partners of term ranked by
// descending co-occurrence strength. Empty when term is absent from the
// hot store.
func (s *Store) SpreadingActivation(term string, topN int) []string {
	rec, ok := s.Hot[term]
	if !ok || len(rec.Synapses) == 0 {
		return nil
	}

	partners := make([]linkPartner, 0, len(rec.Synapses))
	for other, strength := range rec.Synapses {
		partners = append(partners, linkPartner{Term: other, Strength: strength})
	}
	sort.Slice(partners, func(i, j int) bool {
		if partners[i].Strength != partners[j].Strength {
			return partners[i].Strength > partners[j].Strength
		}
		return partners[i].Term < partners[j].Term
	})

	if len(partners) > topN {
		partners = partners[:topN]
	}
	out := make([]string, len(partners))
	for i, p := range partners {
		out[i] = p.Term
	}
	return out
}
