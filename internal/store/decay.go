// Decay algorithm (spec.md §4.4):
//
//   - predictive_LTD: concepts recalled (recall_count >= 3) without being
//     reinforced by subsequent observation are penalized — a signal that
//     recall surfaced something the session never actually used.
//   - apply_LTD: every unpinned concept's weight is multiplied by the
//     configured decay rate each distillation; concepts that fall below
//     the forget threshold are demoted to the cold store.
//
// Unlike the teacher's continuous half-life decay (computed once per day
// against wall-clock elapsed time, because its SQLite driver has no
// pow() in SQL), Brain Synapse's decay is per-distillation and
// multiplicative — there is no time-based half-life in spec.md, so no
// exponent is needed at all.
package store

// PredictiveLTD penalizes concepts that recall surfaced repeatedly
// (RecallCount >= 3) without a matching rate of reinforcement from
// observation (Count). It then resets RecallCount to 0 on every
// record — called once per distillation, after reinforcement and
// before Hebbian linking (spec.md §5 ordering).
func (s *Store) PredictiveLTD() {
	for _, rec := range s.Hot {
		if rec.Pinned {
			rec.RecallCount = 0
			continue
		}
		if rec.RecallCount >= 3 {
			threshold := 0.5 * float64(rec.RecallCount)
			if float64(rec.Count) < threshold {
				rec.Weight -= 0.1 * float64(rec.RecallCount)
			}
		}
		rec.RecallCount = 0
	}
}

// ApplyLTD multiplies every unpinned concept's weight by the configured
// decay rate, then demotes any concept whose weight falls below the
// forget threshold to the cold store, stamping ArchivedAt and
// OriginalWeight. Called once at the end of distillation, or directly by
// the `forget` command.
func (s *Store) ApplyLTD() {
	now := nowMillis()
	var demote []string

	for term, rec := range s.Hot {
		if rec.Pinned {
			continue
		}
		rec.Weight *= s.Cfg.DecayRate
		if rec.Weight < 0 {
			rec.Weight = 0
		}
		if rec.Weight < s.Cfg.ForgetThreshold {
			demote = append(demote, term)
		}
	}

	for _, term := range demote {
		rec := s.Hot[term]
		latent := &Latent{
			Synapse:        *rec,
			ArchivedAt:     now,
			OriginalWeight: rec.Weight,
		}
		s.Cold[term] = latent
		delete(s.Hot, term)
	}
}
