// Package cli wires the cobra command tree for the shiftdesk binary.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "shiftdesk",
	Short: "Task ledger and reconciliation dashboard server",
	Long: `shiftdesk serves the task acknowledgment dashboard: user login,
financial summaries, period schedules, and the commission/spend ledger.
Source tables are imported from published spreadsheet CSVs into a local
sqlite store with 'shiftdesk import', then served with 'shiftdesk serve'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config.toml (default ~/.shiftdesk/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
