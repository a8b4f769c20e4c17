// Package cli implements Brain Synapse's command surface (spec.md §6):
// one cobra command per pipeline operation, plus the optional
// introspection server.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synapse",
	Short: "Agent-local mini-brain memory engine",
	Long:  "Brain Synapse consumes daily interaction logs and exposes a keyword-plus-semantic associative recall service whose latency is bounded for the hot path.",
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(distillCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(deepRecallCmd)
	rootCmd.AddCommand(latentStatsCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(pinExpCmd)
	rootCmd.AddCommand(memorizeCmd)
	rootCmd.AddCommand(getPinnedCmd)
	rootCmd.AddCommand(getTopConceptsCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(serveCmd)
}
