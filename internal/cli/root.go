// Package cli wires up the commands of the garmin-fitness binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the base command. Invoked without a subcommand it opens
// the interactive terminal UI.
var RootCmd = &cobra.Command{
	Use:   "garmin-fitness",
	Short: "Sync, analyze and browse Garmin cycling activities",
	Long: `garmin-fitness syncs activities from Garmin Connect into a local
SQLite database, derives power metrics from their FIT files and lets
you browse the results in a terminal UI, over a small HTTP API, or as
parquet exports.

Run without arguments to open the terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
