// Command synapse is the CLI entry point for Brain Synapse, an
// agent-local mini-brain memory engine.
package main

import (
	"fmt"
	"os"

	"github.com/brainsynapse/synapse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
