// nimbus is a terminal falling-block puzzle: clear two-row bands with
// five-cell pieces and work through a queue of missions.
//
// Usage:
//
//	nimbus play [mode]     - Play (mode menu when no mode is given)
//	nimbus list            - List available modes
//	nimbus scores [mode]   - Show the best runs
//	nimbus serve           - Start SSH server for remote play
//	nimbus web             - Serve the leaderboard over HTTP
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.nimbus/scores.db)
//	--log-file <path>   - Write logs to a file
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/nimbus-block/internal/config"

	// Import modes to register them
	_ "github.com/vovakirdan/nimbus-block/internal/games/nimbus"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nimbus",
	Short: "Nimbus Block - a falling-block mission puzzle for your terminal",
	Long: `Nimbus Block is a falling-block puzzle played in the terminal.
Five-cell pieces drop into a 12x22 well. Fill two adjacent rows across
at least seven columns to clear them, and complete nine missions before
the endless bonus round.

Available commands:
  play     - Play a mode (menu when no mode is given)
  list     - Show all available modes
  scores   - View the best runs
  serve    - Start SSH server for remote play
  web      - Serve the leaderboard over HTTP

Examples:
  nimbus play
  nimbus play endless --difficulty hard
  nimbus scores
  nimbus serve --ssh :2222
  nimbus web --addr :8080`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/"+config.AppDir+"/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(webCmd)
}

// newLogger builds the process logger. Interactive play must not write to
// the terminal, so without --log-file it falls back to fallback (io.Discard
// for play, stderr for the servers). The returned closer is never nil.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	w := fallback
	closer := func() {}
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", openErr)
		}
		w = f
		closer = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closer, nil
}
