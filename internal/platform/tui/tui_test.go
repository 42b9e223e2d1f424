package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

// scriptedGame finishes a run after overAfter steps and starts a new one
// on Restart.
type scriptedGame struct {
	steps     int
	overAfter int
	score     int
	resets    int
	inputs    []core.InputFrame
}

func (g *scriptedGame) ID() string               { return "nimbus" }
func (g *scriptedGame) Title() string            { return "Nimbus Block" }
func (g *scriptedGame) Reset(core.RuntimeConfig) { g.resets++; g.steps = 0 }
func (g *scriptedGame) Render(dst *core.Screen)  { dst.DrawText(0, 0, "PLAYFIELD") }
func (g *scriptedGame) State() core.GameState    { return g.state() }
func (g *scriptedGame) over() bool               { return g.steps >= g.overAfter }
func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	if g.over() && in.Has(core.ActionRestart) {
		g.steps = 0
	}
	g.steps++
	return core.StepResult{State: g.state()}
}

func (g *scriptedGame) state() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.over(),
		Stats: core.RunStats{
			MissionsCompleted: 2,
			BlocksCleared:     28,
			SegmentsCleared:   3,
			PiecesLocked:      40,
			Duration:          90 * time.Second,
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m tea.Model, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok)
	return gm
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{runes("a"), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{runes("d"), core.ActionRight},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate},
		{runes("x"), core.ActionRotate},
		{runes("z"), core.ActionRotateCCW},
		{tea.KeyMsg{Type: tea.KeySpace}, core.ActionHardDrop},
		{runes("c"), core.ActionHold},
		{runes("p"), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{runes("r"), core.ActionRestart},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{runes("q"), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runes("m"), core.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, keys.Action(tt.msg))
		})
	}
}

func TestMenuActions(t *testing.T) {
	assert.Equal(t, MenuActionUp, MapKeyToMenuAction(runes("k")))
	assert.Equal(t, MenuActionDown, MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, MenuActionSelect, MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, MenuActionBack, MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, MenuActionScoreboard, MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, MenuActionQuit, MapKeyToMenuAction(runes("q")))
	assert.Equal(t, MenuActionNone, MapKeyToMenuAction(runes("m")))
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextColor(0, 0, "SCORE", core.ColorAmber)
	s.DrawTextColor(6, 0, "700", core.ColorSky)
	s.DrawText(0, 1, "MISSION")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "SCORE")
	assert.Contains(t, lines[0], "700")
	assert.Contains(t, lines[1], "MISSION")
}

func TestGameModelForwardsActions(t *testing.T) {
	game := &scriptedGame{overAfter: 100}
	m := NewGameModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, GameOptions{})

	m = update(t, m, runes("a"))
	m = update(t, m, runes("a"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	require.Len(t, game.inputs, 2)
	assert.Equal(t, 2, game.inputs[0].Count(core.ActionLeft))
	assert.True(t, game.inputs[0].Has(core.ActionHardDrop))
	assert.Empty(t, game.inputs[1].Actions)
}

func TestGameModelSavesRunOnce(t *testing.T) {
	store := openStore(t)
	game := &scriptedGame{overAfter: 3, score: 1200}
	m := NewGameModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, GameOptions{Player: "ada"})

	for rangeIdx, rangeEnd := 0, 10; rangeIdx < rangeEnd; rangeIdx++ {
		m = update(t, m, TickMsg{})
	}

	runs, err := store.TopRuns("nimbus", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1200, runs[0].Score)
	assert.Equal(t, "ada", runs[0].Player)
	assert.Equal(t, 2, runs[0].MissionsCompleted)
	assert.Equal(t, 90*time.Second, runs[0].Duration)
	require.NotNil(t, m.LastRun())
	assert.Equal(t, runs[0].ID, m.LastRun().ID)

	// A restarted run is stored separately once it ends.
	m = update(t, m, runes("r"))
	for rangeIdx, rangeEnd := 0, 10; rangeIdx < rangeEnd; rangeIdx++ {
		m = update(t, m, TickMsg{})
	}
	runs, err = store.TopRuns("nimbus", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGameModelBackOnlyWhenStopped(t *testing.T) {
	game := &scriptedGame{overAfter: 2}
	m := NewGameModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, GameOptions{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.WantsBack(), "back ignored while running")

	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	require.True(t, m.State().GameOver)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(GameModel)
	assert.True(t, m.WantsBack())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestGameModelResizeKeepsGame(t *testing.T) {
	game := &scriptedGame{overAfter: 100}
	m := NewGameModel(game, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 30, TickRate: 60, Seed: 1}, GameOptions{})
	m.Init()
	require.Equal(t, 1, game.resets)

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 1, game.resets)
	assert.Equal(t, 100, m.Config().ScreenW)
	assert.Contains(t, m.View(), "PLAYFIELD")
}

func TestMenuDifficultyStage(t *testing.T) {
	m := MenuModel{
		items:  []MenuItem{{GameID: "nimbus", Title: "Nimbus Block"}},
		width:  80,
		height: 24,
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	require.True(t, m.inDifficulty)
	assert.Contains(t, m.View(), "Select difficulty")

	// Back returns to the mode list without leaving the menu.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(MenuModel)
	assert.False(t, m.inDifficulty)
	assert.False(t, m.IsQuitting())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	for rangeIdx, rangeEnd := 0, 3; rangeIdx < rangeEnd; rangeIdx++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(MenuModel)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	assert.NotNil(t, cmd)

	res := m.Result()
	assert.Equal(t, "nimbus", res.GameID)
	assert.Equal(t, "hard", res.Difficulty)
	assert.False(t, res.Quit)
}

func TestMenuScoreboardRequest(t *testing.T) {
	m := MenuModel{items: []MenuItem{{GameID: "nimbus", Title: "Nimbus Block"}}, width: 80}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	res := next.(MenuModel).Result()
	assert.True(t, res.WantsScoreboard)
	assert.Empty(t, res.GameID)
}

func TestScoreboardListsRuns(t *testing.T) {
	store := openStore(t)
	for _, score := range []int{300, 900} {
		_, err := store.SaveRun(core.RunStats{Mode: "nimbus", Duration: 65 * time.Second}, score, "ada")
		require.NoError(t, err)
	}

	m := NewScoreboardModel(store, 120, 30)
	m.loadRuns("nimbus")
	require.Len(t, m.Runs(), 2)
	assert.Equal(t, 900, m.Runs()[0].Score)

	row := runRow(1, m.Runs()[0])
	assert.Equal(t, "#1", row[0])
	assert.Equal(t, "900", row[1])
	assert.Equal(t, "1:05", row[4])
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", formatDuration(0))
	assert.Equal(t, "0:59", formatDuration(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "12:03", formatDuration(12*time.Minute+3*time.Second))
}
