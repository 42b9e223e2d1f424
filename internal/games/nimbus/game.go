// Package nimbus implements Nimbus Block, a falling-block puzzle where
// five-cell pieces clear two-row bands at least seven columns wide while the
// player works through a queue of missions.
package nimbus

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/nimbus-block/internal/config"
	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/board"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/mission"
	"github.com/vovakirdan/nimbus-block/internal/registry"
)

// Mode IDs.
const (
	ModeMissions = "nimbus"
	ModeEndless  = "nimbus_endless"
)

// MissionCompleteMessage is shown when a mission is completed.
const MissionCompleteMessage = "Mission Complete!"

// State is the orchestrator state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameover"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = parsePreset(preset)
}

func parsePreset(name string) config.DifficultyPreset {
	p, ok := config.ParsePreset(name)
	if !ok {
		return ""
	}
	return p
}

// Game is the Nimbus Block orchestrator.
type Game struct {
	mode string

	// Gameplay
	board    *board.Board
	ctrl     *Controller
	missions *mission.Engine
	clock    *mission.GameClock
	rng      *rand.Rand

	// State
	state      State
	score      int
	ticks      int
	dropTimer  time.Duration
	bannerLeft time.Duration
	renderX    float64
	renderY    float64
	stats      core.RunStats

	// Configuration
	runtime    core.RuntimeConfig
	cfg        config.NimbusConfig
	difficulty *config.DifficultyManager
	preset     config.DifficultyPreset // overrides difficultyPreset when set

	// Collaborators
	overlay   *Overlay
	presenter Presenter
	audio     Audio
	musicOn   bool
	log       *log.Logger
}

// New creates a mission-mode game.
func New() *Game {
	return newGame(ModeMissions)
}

// NewEndless creates a game that starts on the endless mission.
func NewEndless() *Game {
	return newGame(ModeEndless)
}

func newGame(mode string) *Game {
	return &Game{
		mode:    mode,
		overlay: &Overlay{},
		audio:   NopAudio{},
		log:     log.New(io.Discard),
	}
}

// SetAudio installs the audio collaborator. nil restores silence.
func (g *Game) SetAudio(a Audio) {
	if a == nil {
		a = NopAudio{}
	}
	g.audio = a
}

// SetPresenter installs an extra presenter. The built-in overlay always
// receives events too.
func (g *Game) SetPresenter(p Presenter) {
	g.presenter = p
}

// SetLogger replaces the game logger.
func (g *Game) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	g.log = l
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.mode
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Nimbus Block (Endless)"
	}
	return "Nimbus Block"
}

// SetDifficulty selects a preset for this instance only. It takes effect
// on the next Reset.
func (g *Game) SetDifficulty(preset string) {
	g.preset = parsePreset(preset)
}

// Config returns the loaded configuration.
func (g *Game) Config() config.NimbusConfig {
	return g.cfg
}

// Reset initializes or restarts the game. The game waits on the start
// screen until Confirm.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	// Load game config
	cfg, err := config.LoadNimbus(configPath)
	if err != nil {
		g.log.Warn("config fallback", "path", configPath, "error", err)
		cfg = config.DefaultNimbusConfig()
	}

	// Apply difficulty preset if set
	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyNimbusPreset(&cfg, preset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	if g.musicOn {
		g.stopMusic()
	}

	g.board = board.New()
	g.ctrl = NewController(g.board, g.rng)
	g.clock = mission.NewGameClock()
	var queue []mission.Mission
	if g.mode != ModeEndless {
		queue = mission.BuildQueue(g.rng)
	}
	g.missions = mission.NewEngine(queue, g.clock)

	g.state = StateIdle
	g.score = 0
	g.ticks = 0
	g.dropTimer = 0
	g.bannerLeft = 0
	g.renderX, g.renderY = 0, 0
	g.stats = core.RunStats{Mode: g.mode}

	g.present("hide_screens", func(p Presenter) error { return p.HideScreens() })
	g.present("show_screen", func(p Presenter) error { return p.ShowScreen(ScreenStart) })
	g.updateHUD()
	g.log.Debug("reset", "mode", g.mode, "seed", seed, "mission", g.missions.Active().ID)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	switch g.state {
	case StateIdle:
		if in.Has(core.ActionConfirm) {
			g.start()
		}
	case StateGameOver:
		if in.Has(core.ActionRestart) || in.Has(core.ActionConfirm) {
			g.restart()
		}
	case StatePaused:
		if in.Has(core.ActionPause) {
			g.resume()
		}
	case StateRunning:
		if in.Has(core.ActionPause) {
			g.pause()
			break
		}
		g.handleInput(in)
		if g.state == StateRunning {
			g.tick()
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) start() {
	g.state = StateRunning
	g.present("hide_screens", func(p Presenter) error { return p.HideScreens() })
	g.startMusic()
	if !g.ctrl.Spawn() {
		g.gameOver()
		return
	}
	g.snapRender()
	g.updateHUD()
	g.log.Info("run started", "mode", g.mode, "mission", g.missions.Active().ID)
}

func (g *Game) restart() {
	rt := g.runtime
	rt.Seed = g.rng.Int63()
	g.Reset(rt)
	g.start()
}

func (g *Game) pause() {
	g.state = StatePaused
	g.present("show_screen", func(p Presenter) error { return p.ShowScreen(ScreenPause) })
	g.stopMusic()
}

func (g *Game) resume() {
	g.state = StateRunning
	g.bannerLeft = 0
	g.present("hide_screens", func(p Presenter) error { return p.HideScreens() })
	g.startMusic()
}

// handleInput applies gameplay commands in a fixed order.
func (g *Game) handleInput(in core.InputFrame) {
	if in.Has(core.ActionHold) {
		g.hold()
	}
	for rangeIdx, rangeEnd := 0, in.Count(core.ActionRotate); rangeIdx < rangeEnd; rangeIdx++ {
		if g.ctrl.Rotate(1) {
			g.sound(SoundRotate)
		}
	}
	for rangeIdx, rangeEnd := 0, in.Count(core.ActionRotateCCW); rangeIdx < rangeEnd; rangeIdx++ {
		if g.ctrl.Rotate(-1) {
			g.sound(SoundRotate)
		}
	}
	for rangeIdx, rangeEnd := 0, in.Count(core.ActionLeft); rangeIdx < rangeEnd; rangeIdx++ {
		if g.ctrl.Move(-1) {
			g.sound(SoundMove)
		}
	}
	for rangeIdx, rangeEnd := 0, in.Count(core.ActionRight); rangeIdx < rangeEnd; rangeIdx++ {
		if g.ctrl.Move(1) {
			g.sound(SoundMove)
		}
	}
	for rangeIdx, rangeEnd := 0, in.Count(core.ActionSoftDrop); rangeIdx < rangeEnd; rangeIdx++ {
		if g.state != StateRunning {
			return
		}
		g.drop()
	}
	if in.Has(core.ActionHardDrop) && g.state == StateRunning {
		g.hardDrop()
	}
}

func (g *Game) hold() {
	switch g.ctrl.Hold() {
	case HoldStored, HoldSwapped:
		g.snapRender()
	case HoldToppedOut:
		g.gameOver()
	}
}

// tick advances game time by one step.
func (g *Game) tick() {
	dt := g.runtime.TickDuration()
	g.ticks++
	g.clock.Advance(dt)
	g.stats.Duration += dt

	g.dropTimer += dt
	if g.dropTimer > g.dropInterval() {
		g.drop()
		if g.state != StateRunning {
			return
		}
	}

	if g.missions.UpdateTime() {
		g.completeMission()
	}

	if g.bannerLeft > 0 {
		g.bannerLeft -= dt
		if g.bannerLeft <= 0 {
			g.bannerLeft = 0
			g.present("hide_screens", func(p Presenter) error { return p.HideScreens() })
		}
	}

	a := g.ctrl.Active()
	k := g.cfg.Timing.Smoothing
	g.renderX += (float64(a.X) - g.renderX) * k
	g.renderY += (float64(a.Y) - g.renderY) * k
}

func (g *Game) dropInterval() time.Duration {
	base := time.Duration(g.cfg.Timing.DropIntervalMs) * time.Millisecond
	floor := time.Duration(g.cfg.Timing.MinDropIntervalMs) * time.Millisecond
	return g.difficulty.DropInterval(base, floor, g.score, g.ticks)
}

// drop moves the piece down one row, locking it when it has landed.
func (g *Game) drop() {
	if !g.ctrl.Descend() {
		g.lock()
	}
	g.dropTimer = 0
}

func (g *Game) hardDrop() {
	g.ctrl.HardDrop()
	g.lock()
	g.dropTimer = 0
}

// lock runs merge, clear, mission dispatch and spawn in that order.
func (g *Game) lock() {
	didRotate := g.ctrl.Lock()
	g.stats.PiecesLocked++
	g.sound(SoundLand)

	rep := g.board.Clear()
	points := rep.Points()
	if rep.Segments > 0 {
		g.score += points
		g.stats.BlocksCleared += rep.Blocks
		g.stats.SegmentsCleared += rep.Segments
		g.sound(SoundClear)
		g.log.Debug("clear", "segments", rep.Segments, "blocks", rep.Blocks, "points", points)
	}

	if g.dispatch(rep, points, didRotate) {
		g.completeMission()
	}
	g.updateHUD()

	if !g.ctrl.Spawn() {
		g.gameOver()
		return
	}
	g.snapRender()
}

// dispatch feeds one lock to the mission engine, stopping at the first hook
// that completes the active mission.
func (g *Game) dispatch(rep board.Report, points int, didRotate bool) bool {
	m := g.missions
	if rep.Blocks > 0 && m.OnBlockClear(rep.Blocks, "") {
		return true
	}
	if m.OnSegmentClear(rep.Segments, rep.Blocks) {
		return true
	}
	for _, t := range rep.Tallies {
		if m.OnBlockClear(t.Count, t.ShapeID) {
			return true
		}
	}
	if points > 0 && m.OnScore(points) {
		return true
	}
	return m.OnPieceLock(didRotate)
}

func (g *Game) completeMission() {
	done := g.missions.Active()
	g.sound(SoundMissionComplete)
	g.present("show_mission_complete", func(p Presenter) error {
		return p.ShowMissionComplete(MissionCompleteMessage)
	})
	next := g.missions.Next()
	g.stats.MissionsCompleted = g.missions.Completed()
	g.bannerLeft = time.Duration(g.cfg.Timing.MissionBannerMs) * time.Millisecond
	g.updateHUD()
	g.log.Debug("mission complete", "id", done.ID, "next", next.ID, "completed", g.stats.MissionsCompleted)
}

func (g *Game) gameOver() {
	g.state = StateGameOver
	g.bannerLeft = 0
	g.sound(SoundGameOver)
	g.stopMusic()
	g.present("show_screen", func(p Presenter) error { return p.ShowScreen(ScreenGameOver) })
	g.log.Info("game over", "mode", g.mode, "score", g.score, "missions", g.stats.MissionsCompleted)
}

func (g *Game) snapRender() {
	a := g.ctrl.Active()
	g.renderX, g.renderY = float64(a.X), float64(a.Y)
}

func (g *Game) updateHUD() {
	h := HUD{Score: g.score, Mission: g.missions.Status()}
	g.present("update_hud", func(p Presenter) error { return p.UpdateHUD(h) })
}

func (g *Game) sound(kind Sound) {
	g.call("sound", func() error { return g.audio.PlaySound(kind) })
}

func (g *Game) startMusic() {
	g.musicOn = true
	g.call("start_music", g.audio.StartMusic)
}

func (g *Game) stopMusic() {
	g.musicOn = false
	g.call("stop_music", g.audio.StopMusic)
}

func (g *Game) present(name string, fn func(Presenter) error) {
	g.call(name, func() error { return fn(g.overlay) })
	if g.presenter != nil {
		g.call(name, func() error { return fn(g.presenter) })
	}
}

// call invokes a collaborator, logging failures and recovering panics so
// they never reach game state.
func (g *Game) call(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("collaborator panic", "call", name, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		g.log.Warn("collaborator failed", "call", name, "error", err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
		Stats:    g.stats,
	}
}

// Phase returns the orchestrator state.
func (g *Game) Phase() State {
	return g.state
}

// RenderPos returns the smoothed piece position.
func (g *Game) RenderPos() (x, y float64) {
	return g.renderX, g.renderY
}

// Missions exposes the mission engine for read-only inspection.
func (g *Game) Missions() *mission.Engine {
	return g.missions
}

// Board exposes the playfield for read-only inspection.
func (g *Game) Board() *board.Board {
	return g.board
}

// Controller exposes the piece controller for read-only inspection.
func (g *Game) Controller() *Controller {
	return g.ctrl
}

func roundPos(v float64) int {
	return int(math.Round(v))
}

// Register the modes with the registry
func init() {
	registry.Register(registry.GameInfo{
		ID:          ModeMissions,
		Title:       "Nimbus Block",
		Description: "Clear 2-row bands through nine missions, then go endless",
	}, func() registry.Game {
		return New()
	})
	registry.Register(registry.GameInfo{
		ID:          ModeEndless,
		Title:       "Nimbus Block (Endless)",
		Description: "Chase the endless bonus mission from the first piece",
	}, func() registry.Game {
		return NewEndless()
	})
}
