// strike is a terminal arcade shooter: fly a ship through waves of enemies
// and bosses, pick upgrades between rounds, and chase a best score per map.
//
// Usage:
//
//	strike play              - Pick a map and play
//	strike play --map nebula - Play a map directly
//	strike maps              - List maps with best scores
//	strike scores [map]      - Show run history
//	strike settings          - Show or change stored settings
//	strike serve             - Start SSH server for remote play
//	strike config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.strike/scores.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "strike",
	Short: "Star Strike - an arcade shooter in your terminal",
	Long: `Star Strike is a terminal arcade shooter. Destroy enough enemies to
summon the round's boss wave, beat it, pick an upgrade and go again.

Available commands:
  play      - Pick a map and play
  maps      - List maps and best scores
  scores    - Show run history
  settings  - Show or change stored settings
  serve     - Start SSH server for remote play
  config    - Print the effective configuration

Examples:
  strike play
  strike play --map nebula --difficulty hard
  strike scores space
  strike serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.strike/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
