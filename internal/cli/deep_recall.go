package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brainsynapse/synapse/internal/store"
	"github.com/spf13/cobra"
)

var deepRecallCmd = &cobra.Command{
	Use:   "deep-recall <query>",
	Short: "Run deep_recall standalone, reviving matching latent concepts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDeepRecall,
}

func runDeepRecall(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st := openStore(cfg)
	revived := st.DeepRecall([]string{query}, 5)
	archiveContext := store.ScanArchiveContext(archiveDirFor(cfg), query)

	if err := st.Persist(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: persist: %v\n", err)
	}

	out, err := json.MarshalIndent(struct {
		Revived        []store.RevivedMemory `json:"revived"`
		ArchiveContext []store.ArchiveMatch  `json:"archive_context"`
	}{Revived: revived, ArchiveContext: archiveContext}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
