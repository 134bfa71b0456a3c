package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/star-strike/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [map]",
	Short: "Show run history",
	Long: `Without a map, shows the most recent runs across all maps.
With a map, shows its best runs and aggregate statistics.

Examples:
  strike scores
  strike scores nebula
  strike scores nebula --limit 25
  strike scores nebula --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the map's run history and best score")
}

func runScores(_ *cobra.Command, args []string) {
	logger, closeLog := newLogger("strike", io.Discard)
	defer closeLog()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagScoresClear {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a map")
			os.Exit(1)
		}
		runs, err := store.RecentRuns(flagScoresLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Recent runs")
		fmt.Println()
		printRuns(runs, true)
		return
	}

	mapID := args[0]
	cfg, _ := loadGameConfig("", "", nil)
	m, ok := cfg.Map(mapID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown map %q\n", mapID)
		fmt.Fprintln(os.Stderr, "Run 'strike maps' to see available maps.")
		os.Exit(1)
	}

	if flagScoresClear {
		if err := store.ClearRuns(mapID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		logger.Info("cleared run history", "map", mapID)
		fmt.Printf("Cleared run history for %s.\n", m.Name)
		return
	}

	runs, err := store.TopRuns(mapID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", m.Name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'strike play --map %s' to set the first high score!\n", mapID)
		return
	}
	printRuns(runs, false)

	// Show aggregates
	fmt.Println()
	if stats, err := store.MapStats(mapID); err == nil {
		fmt.Printf("Runs: %d  Best: %d  Average: %.0f  Furthest round: %d  Kills: %d\n",
			stats.Runs, stats.BestScore, stats.AvgScore, stats.BestRound, stats.TotalKills)
	}
}

func printRuns(runs []storage.RunEntry, withMap bool) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	mapCol := ""
	if withMap {
		mapCol = fmt.Sprintf("%-8s  ", "Map")
	}
	fmt.Printf("  %-4s  %s%-8s  %-5s  %-5s  %-8s  %s\n", "Rank", mapCol, "Score", "Round", "Kills", "Time", "Date")
	fmt.Printf("  %-4s  %s%-8s  %-5s  %-5s  %-8s  %s\n", "----", dashes(withMap), "-----", "-----", "-----", "----", "----")

	for i, r := range runs {
		if withMap {
			mapCol = fmt.Sprintf("%-8s  ", r.MapID)
		}
		fmt.Printf("  %-4d  %s%-8d  %-5d  %-5d  %-8s  %s\n",
			i+1, mapCol, r.Score, r.Round, r.Kills,
			runTime(r.Frames), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func dashes(withMap bool) string {
	if !withMap {
		return ""
	}
	return fmt.Sprintf("%-8s  ", "---")
}

// runTime converts simulated frames to play time at the configured rate.
func runTime(frames uint64) string {
	rate := flagFPS
	if rate <= 0 {
		rate = 60
	}
	return (time.Duration(frames) * time.Second / time.Duration(rate)).Round(time.Second).String()
}
