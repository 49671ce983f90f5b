// Hadeck is a terminal climate-control deck for Home Assistant.
//
// It provides an interactive dashboard for climate entities (thermostats,
// AC units, heat pumps) with live state updates over the Home Assistant
// websocket API, plus direct commands for scripting.
//
// Usage:
//
//	hadeck [command] [flags]
//
// Running without arguments launches the interactive dashboard.
// See 'hadeck --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pr8x/hadeck/internal/logging"
	"github.com/pr8x/hadeck/internal/version"
)

func main() {
	_ = logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hadeck",
	Short: "Home Assistant Climate Deck",
	Long: `A terminal dashboard for Home Assistant climate entities.

Provides server discovery, an interactive climate dashboard with live
updates, and direct commands for setting temperatures and HVAC modes.

If no command is specified, the interactive dashboard will launch
automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the dashboard when no subcommand provided
		return runDashboard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hadeck %s (commit: %s)\n", version.Version, version.Commit)
	},
}
