package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List maps with their best scores",
	Long:  `Shows every configured map with its tuning and stored best score.`,
	Args:  cobra.NoArgs,
	Run:   runMaps,
}

func init() {
	mapsCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
}

func runMaps(_ *cobra.Command, _ []string) {
	logger, closeLog := newLogger("strike", io.Discard)
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	cfg, _ := loadGameConfig(flagConfig, "", store)
	maps := newEngine(cfg, store, logger).Maps()

	if len(maps) == 0 {
		fmt.Println("No maps configured.")
		return
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range maps {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Println("Maps:")
	fmt.Println()
	fmt.Printf("  %-*s  %-12s  %6s  %5s  %5s  %8s\n", maxIDLen, "ID", "Name", "Spawn", "Speed", "Score", "Best")
	fmt.Printf("  %-*s  %-12s  %6s  %5s  %5s  %8s\n", maxIDLen, "--", "----", "-----", "-----", "-----", "----")

	for _, m := range maps {
		locked := ""
		if !m.Unlocked {
			locked = "  (locked)"
		}
		fmt.Printf("  %-*s  %-12s  %5.1fs  %4.1fx  %4.1fx  %8d%s\n",
			maxIDLen, m.ID, m.Name,
			float64(m.SpawnRateMS)/1000, m.SpeedMultiplier, m.ScoreMultiplier,
			m.BestScore, locked)
	}

	fmt.Println()
	fmt.Println("Run 'strike play --map <id>' to play a map.")
}
