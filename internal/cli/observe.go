package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/brainsynapse/synapse/internal/observer"
	"github.com/spf13/cobra"
)

var observeCmd = &cobra.Command{
	Use:   "observe [file]",
	Short: "Ingest an externally supplied session trace and run batch promotion",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runObserve,
}

// traceLine is one JSONL record of an externally captured session trace:
// {"type": "user_correction", "data": {...}}.
type traceLine struct {
	Type observer.Type  `json:"type"`
	Data map[string]any `json:"data"`
}

func runObserve(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer f.Close()
		r = f
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st := openStore(cfg)
	obs := openObserver(cfg)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	recorded := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tl traceLine
		if err := json.Unmarshal(line, &tl); err != nil {
			return fmt.Errorf("malformed trace line: %w", err)
		}
		obs.Record(tl.Type, tl.Data)
		recorded++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read trace: %w", err)
	}

	instincts := obs.BatchAnalyze(st, cfg.Observer)
	if err := st.Persist(); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	fmt.Printf("observe: recorded %d observation(s), promoted %d instinct(s)\n", recorded, len(instincts))
	return nil
}
