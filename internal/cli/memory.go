package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var latentStatsCmd = &cobra.Command{
	Use:   "latent-stats",
	Short: "Emit cold-store summary statistics",
	RunE:  runLatentStats,
}

type latentStats struct {
	TotalLatent     int     `json:"total_latent"`
	OldestArchive   int64   `json:"oldest_archive"`
	OldestArchiveHuman string `json:"oldest_archive_human,omitempty"`
	NewestArchive   int64   `json:"newest_archive"`
	NewestArchiveHuman string `json:"newest_archive_human,omitempty"`
	AverageAgeDays  float64 `json:"average_age_days"`
}

func runLatentStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)

	stats := latentStats{TotalLatent: len(st.Cold)}
	if len(st.Cold) == 0 {
		return printJSON(stats)
	}

	now := time.Now().UnixMilli()
	var totalAgeDays float64
	first := true
	for _, rec := range st.Cold {
		if first || rec.ArchivedAt < stats.OldestArchive {
			stats.OldestArchive = rec.ArchivedAt
		}
		if first || rec.ArchivedAt > stats.NewestArchive {
			stats.NewestArchive = rec.ArchivedAt
		}
		first = false
		totalAgeDays += float64(now-rec.ArchivedAt) / (1000 * 60 * 60 * 24)
	}
	stats.AverageAgeDays = totalAgeDays / float64(len(st.Cold))
	stats.OldestArchiveHuman = humanize.Time(time.UnixMilli(stats.OldestArchive))
	stats.NewestArchiveHuman = humanize.Time(time.UnixMilli(stats.NewestArchive))

	return printJSON(stats)
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Run apply_LTD and persist",
	RunE:  runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)
	st.ApplyLTD()
	if err := st.Persist(); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	fmt.Println("forget: applied LTD and persisted")
	return nil
}

var pinExpCmd = &cobra.Command{
	Use:   "pin-exp <kw>:<rule>",
	Short: "Upsert a pinned record",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPinExp,
}

func runPinExp(cmd *cobra.Command, args []string) error {
	raw := strings.Join(args, " ")
	idx := strings.Index(raw, ":")
	if idx <= 0 || idx == len(raw)-1 {
		return fmt.Errorf("usage: pin-exp <kw>:<rule>")
	}
	kw := strings.TrimSpace(raw[:idx])
	rule := strings.TrimSpace(raw[idx+1:])
	if kw == "" || rule == "" {
		return fmt.Errorf("usage: pin-exp <kw>:<rule>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)
	st.Pin(kw, rule)
	if err := st.Persist(); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	fmt.Printf("pinned %q\n", kw)
	return nil
}

var memorizeCmd = &cobra.Command{
	Use:   "memorize <concept>:<content>",
	Short: "Insert a pinned explicit memory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMemorize,
}

func runMemorize(cmd *cobra.Command, args []string) error {
	concept, content, err := splitConceptContent(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)
	st.Memorize(concept, content, cfg.Memorize.InitialWeight)
	if err := st.Persist(); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	fmt.Printf("memorized %q\n", concept)
	return nil
}

// splitConceptContent accepts either `concept:content` in a single
// argument, or `concept content...` as separate argv entries (spec.md
// §6's `memorize` argument shape).
func splitConceptContent(args []string) (concept, content string, err error) {
	if len(args) == 1 {
		if idx := strings.Index(args[0], ":"); idx > 0 && idx < len(args[0])-1 {
			return strings.TrimSpace(args[0][:idx]), strings.TrimSpace(args[0][idx+1:]), nil
		}
		return "", "", fmt.Errorf("usage: memorize <concept>:<content> or memorize <concept> <content>")
	}
	concept = strings.TrimSpace(args[0])
	content = strings.TrimSpace(strings.Join(args[1:], " "))
	if concept == "" || content == "" {
		return "", "", fmt.Errorf("usage: memorize <concept>:<content> or memorize <concept> <content>")
	}
	return concept, content, nil
}

var getPinnedCmd = &cobra.Command{
	Use:   "get-pinned",
	Short: "Emit all pinned records",
	RunE:  runGetPinned,
}

type pinnedEntry struct {
	Keyword string  `json:"keyword"`
	Rule    string  `json:"rule"`
	Weight  float64 `json:"weight"`
}

func runGetPinned(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)

	pinned := st.Pinned()
	keys := make([]string, 0, len(pinned))
	for k := range pinned {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]pinnedEntry, 0, len(keys))
	for _, k := range keys {
		rec := pinned[k]
		entries = append(entries, pinnedEntry{Keyword: k, Rule: rec.Rule, Weight: rec.Weight})
	}
	return printJSON(entries)
}

var getTopConceptsCmd = &cobra.Command{
	Use:   "get-top-concepts [n]",
	Short: "Emit the top-N hot concepts by weight",
	RunE:  runGetTopConcepts,
}

type topConcept struct {
	Concept string  `json:"concept"`
	Weight  float64 `json:"weight"`
}

func runGetTopConcepts(cmd *cobra.Command, args []string) error {
	n := 5
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			return fmt.Errorf("usage: get-top-concepts [n]")
		}
		n = parsed
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)

	type entry struct {
		term   string
		weight float64
	}
	all := make([]entry, 0, len(st.Hot))
	for term, rec := range st.Hot {
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

	out := make([]topConcept, len(all))
	for i, e := range all {
		out[i] = topConcept{Concept: e.term, Weight: e.weight}
	}
	return printJSON(out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
