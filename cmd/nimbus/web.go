package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/nimbus-block/internal/platform/web"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

var (
	flagWebAddr    string
	flagWebTimeout int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the leaderboard over HTTP",
	Long: `Start a read-only HTTP server for the scores database.

Routes:
  GET /                    - Leaderboard page
  GET /api/modes           - Registered modes
  GET /api/scores/{mode}   - Top scores (?limit=, max 100)
  GET /api/runs            - Recent runs, or best runs with ?mode=
  GET /api/runs/{id}       - One run
  GET /api/missions        - Mission catalog
  GET /healthz             - Liveness probe

Examples:
  nimbus web
  nimbus web --addr 127.0.0.1:9000 --db ./scores.db`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().IntVar(&flagWebTimeout, "timeout", 15, "Per-request timeout in seconds")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("nimbus-web", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(store, web.Config{
		Addr:           flagWebAddr,
		RequestTimeout: time.Duration(flagWebTimeout) * time.Second,
		Logger:         logger,
	})

	fmt.Printf("Serving the leaderboard on http://localhost%s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}
