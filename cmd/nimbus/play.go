package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/nimbus-block/internal/config"
	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus"
	"github.com/vovakirdan/nimbus-block/internal/platform/audio"
	"github.com/vovakirdan/nimbus-block/internal/platform/tui"
	"github.com/vovakirdan/nimbus-block/internal/registry"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMute       bool
)

// modeAliases maps short CLI names to mode IDs.
var modeAliases = map[string]string{
	"missions": nimbus.ModeMissions,
	"endless":  nimbus.ModeEndless,
}

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play Nimbus Block",
	Long: `Start playing. Without a mode a menu lets you pick the mode and
difficulty, and you return to it after each game.

Modes:
  missions  - Nine missions (3 easy, 3 medium, 3 hard), then endless
  endless   - Straight to the endless score mission

Controls:
  Left/Right, A/D  - Move
  Up, W, X         - Rotate clockwise
  Z                - Rotate counter-clockwise
  Down, S          - Soft drop
  Space            - Hard drop
  C                - Hold
  P                - Pause
  Enter            - Start
  R                - Restart (after game over)
  Esc/B            - Back to menu (paused or game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Drop speeds up from the start as you score
  normal - Start at 30% speed-up, progresses to max
  hard   - Start at 70% speed-up, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  nimbus play
  nimbus play missions
  nimbus play endless --difficulty hard
  nimbus play missions --config ./my-nimbus.yaml --mute`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// resolveMode maps a CLI argument to a registered mode ID.
func resolveMode(arg string) (string, bool) {
	if id, ok := modeAliases[arg]; ok {
		arg = id
	}
	return arg, registry.Exists(arg)
}

// session holds what every game of one `nimbus play` shares.
type session struct {
	store  *storage.Store
	player *audio.Player
	logger *log.Logger
}

func runPlay(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		var ok bool
		if mode, ok = resolveMode(args[0]); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'nimbus list' to see available modes.")
			os.Exit(1)
		}
	}
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagDifficulty)
			os.Exit(1)
		}
	}

	logger, closeLog, err := newLogger("nimbus", io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	nimbus.SetConfigPath(flagConfig)

	s := session{logger: logger}

	// Continue without storage - the game still works
	s.store, err = storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		s.store = nil
	} else {
		defer s.store.Close()
	}

	s.player = newAudioPlayer(logger)
	if s.player != nil {
		defer s.player.Close()
	}

	// Get terminal size early for the menu
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	if mode != "" {
		if _, err := s.play(mode, flagDifficulty, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := s.menuLoop(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAudioPlayer returns nil when sound is disabled by flag or config.
func newAudioPlayer(logger *log.Logger) *audio.Player {
	if flagMute {
		return nil
	}
	cfg, err := config.LoadNimbus(flagConfig)
	if err != nil {
		logger.Warn("config fallback", "path", flagConfig, "error", err)
		cfg = config.DefaultNimbusConfig()
	}
	if !cfg.Audio.Enabled {
		return nil
	}
	return audio.NewPlayer(audio.Options{
		Volume: cfg.Audio.Volume,
		Logger: logger.WithPrefix("audio"),
	})
}

// menuLoop alternates between the mode menu, the scoreboard and games.
func (s *session) menuLoop(cfg core.RuntimeConfig) error {
	for {
		res, err := tui.RunMenu(s.store, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			goBack, sbErr := tui.RunScoreboard(s.store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if !goBack {
				return nil
			}

		default:
			difficulty := res.Difficulty
			if difficulty == "" {
				difficulty = flagDifficulty
			}
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			result, playErr := s.play(res.GameID, difficulty, cfg)
			if playErr != nil {
				return playErr
			}
			cfg = result.Config
			if !result.Back {
				return nil
			}
		}
	}
}

// play runs one game until the player quits or goes back.
func (s *session) play(mode, difficulty string, cfg core.RuntimeConfig) (tui.GameResult, error) {
	game, err := registry.Create(mode)
	if err != nil {
		return tui.GameResult{Config: cfg}, err
	}

	if g, ok := game.(*nimbus.Game); ok {
		g.SetDifficulty(difficulty)
		if s.player != nil {
			g.SetAudio(s.player)
		}
	}

	result, err := tui.Run(game, s.store, cfg, tui.GameOptions{Logger: s.logger})
	if s.player != nil {
		s.player.StopMusic() //nolint:errcheck // Never fails
	}
	if result.LastRun != nil {
		s.logger.Info("run finished", "id", result.LastRun.ID, "score", result.LastRun.Score)
	}
	return result, err
}
