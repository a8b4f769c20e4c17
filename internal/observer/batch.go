package observer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/brainsynapse/synapse/internal/config"
	"github.com/brainsynapse/synapse/internal/store"
)

// Instinct is one pinned record synthesised from a recurring
// observation group, ready for upsert into the Synapse Store.
type Instinct struct {
	Concept    string
	Rule       string
	Domain     string
	Source     string
	Trigger    string
	Evidence   []string
	Confidence float64
}

// template holds the per-type id/trigger/action/domain shape from
// spec.md §4.5's table.
type template struct {
	idPrefix string
	trigger  string
	action   string
	domain   string
}

var templates = map[Type]template{
	TypeUserCorrection:  {idPrefix: "user-correct-", trigger: "user correction pattern: %s", action: "auto-correct: %s", domain: "user_preference"},
	TypeErrorResolution: {idPrefix: "error-resolve-", trigger: "error: %s", action: "auto-resolve: %s", domain: "error_handling"},
	TypeWorkflow:        {idPrefix: "workflow-", trigger: "workflow: %s", action: "auto-execute: %s", domain: "workflow"},
	TypeToolPreference:  {idPrefix: "tool-pref-", trigger: "task: %s", action: "use preferred tool for: %s", domain: "tool_usage"},
}

var nonWordRunRe = regexp.MustCompile(`\W+`)

// sanitizeKey replaces runs of non-word characters with a single
// hyphen, for use in instinct concept ids (spec.md §4.5).
func sanitizeKey(key string) string {
	s := nonWordRunRe.ReplaceAllString(key, "-")
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == '-' {
		s = s[:len(s)-1]
	}
	return s
}

// confidenceFor buckets a group's evidence count (spec.md §4.5).
func confidenceFor(n int) float64 {
	switch {
	case n <= 2:
		return 0.3
	case n <= 5:
		return 0.5
	case n <= 10:
		return 0.7
	default:
		return 0.85
	}
}

// groupKey derives the dedup key for one observation: pattern, then
// errorType, then workflowHash, then taskType, then "default".
func groupKey(data map[string]any) string {
	for _, field := range []string{"pattern", "errorType", "workflowHash", "taskType"} {
		if v, ok := data[field]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "default"
}

// BatchAnalyze requires at least config.ObserverConfig.MinObservationsForInstinct
// total records to proceed (a no-op otherwise); groups by (type, key);
// promotes every group of size >= 3 to a pinned instinct in st; and
// truncates the observation log if at least one instinct was created.
func (o *Observer) BatchAnalyze(st *store.Store, cfg config.ObserverConfig) []Instinct {
	obs := o.readAll()
	if len(obs) < cfg.MinObservationsForInstinct {
		return nil
	}

	type groupID struct {
		typ Type
		key string
	}
	groups := make(map[groupID][]Observation)
	for _, ob := range obs {
		gid := groupID{typ: ob.Type, key: groupKey(ob.Data)}
		groups[gid] = append(groups[gid], ob)
	}

	var ids []groupID
	for gid := range groups {
		ids = append(ids, gid)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].typ != ids[j].typ {
			return ids[i].typ < ids[j].typ
		}
		return ids[i].key < ids[j].key
	})

	var promoted []Instinct
	for _, gid := range ids {
		members := groups[gid]
		if len(members) < 3 {
			continue
		}
		tmpl, ok := templates[gid.typ]
		if !ok {
			continue
		}

		evidence := make([]string, 0, len(members))
		for _, m := range members {
			evidence = append(evidence, m.ID)
		}

		instinct := Instinct{
			Concept:    tmpl.idPrefix + sanitizeKey(gid.key),
			Rule:       fmt.Sprintf(tmpl.action, gid.key),
			Domain:     tmpl.domain,
			Source:     "observer",
			Trigger:    fmt.Sprintf(tmpl.trigger, gid.key),
			Evidence:   evidence,
			Confidence: confidenceFor(len(members)),
		}
		promoted = append(promoted, instinct)
		upsertInstinct(st, instinct)
	}

	if len(promoted) > 0 {
		if err := o.truncate(); err != nil {
			// Promotion already landed in st; a failed truncate just means
			// the same groups get re-promoted next distillation, which is
			// idempotent (the pinned record is upserted, not duplicated).
			return promoted
		}
	}
	return promoted
}

// upsertInstinct pins inst into st the way Pin does — weight raised to
// at least 1.0 and never lowered by re-promotion (spec.md line 52) —
// rather than through Memorize, whose unconditional weight reset and
// "explicit_memorize" source are reserved for the `memorize` command.
func upsertInstinct(st *store.Store, inst Instinct) {
	st.Pin(inst.Concept, inst.Rule)
	rec := st.Hot[inst.Concept]
	rec.Source = "observer"
	rec.Domain = inst.Domain
	rec.Trigger = inst.Trigger
	rec.Evidence = inst.Evidence
	rec.Confidence = inst.Confidence
	rec.Count = len(inst.Evidence)
}
