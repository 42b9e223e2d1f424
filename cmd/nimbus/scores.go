package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/nimbus-block/internal/registry"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the best runs",
	Long: `Display the top 10 runs for a mode, or for every mode when none is given.

Examples:
  nimbus scores
  nimbus scores nimbus_endless`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	modes := registry.List()
	if len(args) == 1 {
		mode, ok := resolveMode(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'nimbus list' to see available modes.")
			os.Exit(1)
		}
		info, _ := registry.Info(mode)
		modes = []registry.GameInfo{info}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	for i, m := range modes {
		if i > 0 {
			fmt.Println()
		}
		if err := printRuns(store, m); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
			store.Close()
			os.Exit(1)
		}
	}
}

func printRuns(store *storage.Store, mode registry.GameInfo) error {
	runs, err := store.TopRuns(mode.ID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("Best Runs - %s\n", mode.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Printf("Play 'nimbus play %s' to set the first record!\n", mode.ID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-6s  %-12s  %s\n", "Rank", "Score", "Missions", "Blocks", "Time", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-6s  %-12s  %s\n", "----", "-----", "--------", "------", "----", "------", "----")
	for i, r := range runs {
		secs := int(r.Duration / time.Second)
		fmt.Printf("  %-4d  %-8d  %-8d  %-6d  %-6s  %-12s  %s\n",
			i+1, r.Score, r.MissionsCompleted, r.BlocksCleared,
			fmt.Sprintf("%d:%02d", secs/60, secs%60), r.Player,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(mode.ID)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Most missions: %d\n", stats.HighScore, stats.GamesCount, stats.BestMissions)
	}
	return nil
}
