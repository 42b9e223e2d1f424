package nimbus

import "github.com/vovakirdan/nimbus-block/internal/games/nimbus/mission"

// Sound is an audio cue.
type Sound string

const (
	SoundMove            Sound = "move"
	SoundRotate          Sound = "rotate"
	SoundLand            Sound = "land"
	SoundClear           Sound = "clear"
	SoundMissionComplete Sound = "mission_complete"
	SoundGameOver        Sound = "gameover"
)

// Sounds lists every cue in a stable order.
var Sounds = []Sound{SoundMove, SoundRotate, SoundLand, SoundClear, SoundMissionComplete, SoundGameOver}

// ScreenName identifies a full-board overlay.
type ScreenName string

const (
	ScreenStart    ScreenName = "start"
	ScreenGameOver ScreenName = "gameOver"
	ScreenPause    ScreenName = "pause"
	ScreenMission  ScreenName = "mission"
)

// Audio receives fire-and-forget sound requests. Errors are logged by the
// game and never change game state.
type Audio interface {
	PlaySound(kind Sound) error
	StartMusic() error
	StopMusic() error
}

// HUD is the heads-up information pushed to presenters.
type HUD struct {
	Score   int
	Mission mission.Status
}

// Presenter receives presentation events. Errors are logged by the game and
// never change game state.
type Presenter interface {
	UpdateHUD(h HUD) error
	ShowScreen(name ScreenName) error
	HideScreens() error
	ShowMissionComplete(message string) error
}

// NopAudio discards every request.
type NopAudio struct{}

func (NopAudio) PlaySound(Sound) error { return nil }
func (NopAudio) StartMusic() error     { return nil }
func (NopAudio) StopMusic() error      { return nil }
