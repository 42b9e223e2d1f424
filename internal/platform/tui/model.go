package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/nimbus-block/internal/config"
	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/registry"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

// helpMinHeight is the terminal height from which a help line fits under
// the playfield.
const helpMinHeight = 25

// loggerSetter is implemented by games that accept a logger.
type loggerSetter interface {
	SetLogger(l *log.Logger)
}

// GameOptions carries per-session settings for a GameModel.
type GameOptions struct {
	Player string      // Name stored with finished runs
	Logger *log.Logger // Passed to the game when it accepts one
}

// GameModel is the Bubble Tea model that drives one game.
// It is used directly by the local CLI and embedded by SSH sessions.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	showHelp   bool
	player     string
	log        *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	lastRun    *storage.Run
	runSaved   bool // Whether the current finished run has been stored
	quitting   bool
	back       bool
}

// NewGameModel creates a model for the given game.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if ls, ok := game.(loggerSetter); ok {
		ls.SetLogger(logger)
	}

	player := opts.Player
	if player == "" {
		player = defaultPlayer()
	}

	m := GameModel{
		game:       game,
		store:      store,
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		player:     player,
		log:        logger,
		inputFrame: core.NewInputFrame(),
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.playHeight(cfg.ScreenH))
	m.help.Width = cfg.ScreenW
	return m
}

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// playHeight returns the rows left for the game after the help line.
func (m *GameModel) playHeight(h int) int {
	m.showHelp = h >= helpMinHeight
	if m.showHelp {
		return h - 1
	}
	return h
}

// Init resets the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	cfg := m.config
	cfg.ScreenH = m.screen.Height()
	m.game.Reset(cfg)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			m.log.Warn("screenshot failed", "error", err)
		} else {
			m.log.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		// Leaving mid-run would discard progress silently.
		if m.gameState.GameOver || m.gameState.Paused {
			m.back = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleResize only resizes the buffer. The playfield has a fixed size, so
// the running game is kept.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, m.playHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.back {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if !m.gameState.GameOver {
		m.runSaved = false
	} else if !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the finished run. Failures are logged and play continues.
func (m *GameModel) saveRun() {
	if m.store == nil {
		return
	}
	stats := m.gameState.Stats
	if stats.Mode == "" {
		stats.Mode = m.game.ID()
	}
	run, err := m.store.SaveRun(stats, m.gameState.Score, m.player)
	if err != nil {
		m.log.Error("save run failed", "mode", stats.Mode, "error", err)
		return
	}
	m.lastRun = &run
	m.log.Info("run saved", "id", run.ID, "mode", run.Mode, "score", run.Score, "missions", run.MissionsCompleted)
}

// saveScreenshot writes the current screen as text under the app directory.
func (m *GameModel) saveScreenshot() (string, error) {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, config.AppDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: cannot create directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: cannot write %s: %w", path, err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	view := RenderScreen(m.screen)
	if m.showHelp {
		view += "\n" + m.help.View(m.keys)
	}
	return view
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// LastRun returns the most recently stored run, or nil.
func (m GameModel) LastRun() *storage.Run {
	return m.lastRun
}

// WantsBack returns true if the player asked to return to the menu.
func (m GameModel) WantsBack() bool {
	return m.back
}

// IsQuitting returns true if the player asked to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config, including resize updates.
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// GameResult holds the outcome of a local game session.
type GameResult struct {
	Back    bool
	Config  core.RuntimeConfig
	LastRun *storage.Run
}

// Run starts a Bubble Tea program for the game and blocks until it exits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) (GameResult, error) {
	model := NewGameModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return GameResult{Config: cfg}, err
	}

	m, ok := finalModel.(GameModel)
	if !ok {
		return GameResult{Config: cfg}, nil
	}
	return GameResult{
		Back:    m.WantsBack(),
		Config:  m.Config(),
		LastRun: m.LastRun(),
	}, nil
}
