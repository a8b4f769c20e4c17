package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type topConceptJSON struct {
	Concept string  `json:"concept"`
	Weight  float64 `json:"weight"`
}

func (s *Server) handleTopConcepts(w http.ResponseWriter, r *http.Request) {
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}

	type entry struct {
		term   string
		weight float64
	}
	all := make([]entry, 0, len(s.st.Hot))
	for term, rec := range s.st.Hot {
		all = append(all, entry{term, rec.Weight})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].weight != all[j].weight {
			return all[i].weight > all[j].weight
		}
		return all[i].term < all[j].term
	})
	if len(all) > n {
		all = all[:n]
	}

	out := make([]topConceptJSON, len(all))
	for i, e := range all {
		out[i] = topConceptJSON{Concept: e.term, Weight: e.weight}
	}
	writeJSON(w, http.StatusOK, map[string]any{"concepts": out})
}

type latentStatsJSON struct {
	TotalLatent    int     `json:"total_latent"`
	OldestArchive  int64   `json:"oldest_archive"`
	NewestArchive  int64   `json:"newest_archive"`
	AverageAgeDays float64 `json:"average_age_days"`
}

func (s *Server) handleLatentStats(w http.ResponseWriter, r *http.Request) {
	stats := latentStatsJSON{TotalLatent: len(s.st.Cold)}
	if len(s.st.Cold) == 0 {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	now := time.Now().UnixMilli()
	var totalAgeDays float64
	first := true
	for _, rec := range s.st.Cold {
		if first || rec.ArchivedAt < stats.OldestArchive {
			stats.OldestArchive = rec.ArchivedAt
		}
		if first || rec.ArchivedAt > stats.NewestArchive {
			stats.NewestArchive = rec.ArchivedAt
		}
		first = false
		totalAgeDays += float64(now-rec.ArchivedAt) / (1000 * 60 * 60 * 24)
	}
	stats.AverageAgeDays = totalAgeDays / float64(len(s.st.Cold))

	writeJSON(w, http.StatusOK, stats)
}
