package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brainsynapse/synapse/internal/embed"
	"github.com/brainsynapse/synapse/internal/index"
	"github.com/brainsynapse/synapse/internal/recall"
	"github.com/spf13/cobra"
)

var recallDeep bool

var recallCmd = &cobra.Command{
	Use:   "recall <query>",
	Short: "Run the recall pipeline and emit a JSON result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecall,
}

func init() {
	recallCmd.Flags().BoolVarP(&recallDeep, "deep", "d", false, "also run deep_recall over latent memories")
}

func runRecall(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st := openStore(cfg)
	obs := openObserver(cfg)
	emb := openEmbedder(cfg)

	idx := index.Open(filepath.Join(cfg.Engine.Dir, "local_index_cache.json"))
	if err := idx.Refresh(cfg.Engine.MemoryDir, archiveDirFor(cfg)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: index refresh: %v\n", err)
	}

	var vectorDB *embed.Cache
	if cfg.Features.EnableVectorSearch {
		vectorDB = embed.Open(cfg.Engine.Dir)
	}

	deps := recall.Deps{
		Store:      st,
		Index:      idx,
		Embedder:   emb,
		VectorDB:   vectorDB,
		Observer:   obs,
		Cfg:        cfg,
		MemoryDir:  cfg.Engine.MemoryDir,
		ArchiveDir: archiveDirFor(cfg),
	}

	resp := recall.Run(context.Background(), deps, query, recall.Options{Deep: recallDeep})

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
