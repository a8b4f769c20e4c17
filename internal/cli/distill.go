package cli

import (
	"context"
	"fmt"

	"github.com/brainsynapse/synapse/internal/distill"
	"github.com/spf13/cobra"
)

var distillForce bool

var distillCmd = &cobra.Command{
	Use:   "distill",
	Short: "Run the distillation pipeline over un-distilled logs",
	RunE:  runDistill,
}

func init() {
	distillCmd.Flags().BoolVarP(&distillForce, "force", "f", false, "include today's log in the sweep")
}

func runDistill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st := openStore(cfg)
	obs := openObserver(cfg)
	emb := openEmbedder(cfg)

	summary := distill.Run(context.Background(), st, obs, emb, cfg, cfg.Engine.MemoryDir, archiveDirFor(cfg), distillForce)
	fmt.Println(summary.String())
	return nil
}
