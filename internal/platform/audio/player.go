// Package audio plays Nimbus Block sound cues and the ambient loop through
// the system speaker.
package audio

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/nimbus-block/internal/games/nimbus"
)

// SampleRate is the output rate for every stream.
const SampleRate = beep.SampleRate(48000)

// bufferLatency is the speaker buffer size.
const bufferLatency = 100 * time.Millisecond

// Options configures a Player.
type Options struct {
	Volume float64 // Master gain, 0..1
	Muted  bool
	Logger *log.Logger
}

// output abstracts the speaker so the player can run without a device.
type output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

type systemSpeaker struct{}

func (systemSpeaker) Init(rate beep.SampleRate, n int) error { return speaker.Init(rate, n) }
func (systemSpeaker) Play(s beep.Streamer)                   { speaker.Play(s) }
func (systemSpeaker) Lock()                                  { speaker.Lock() }
func (systemSpeaker) Unlock()                                { speaker.Unlock() }

// Player implements nimbus.Audio on top of a beep mixer. The speaker is
// opened on the first request, so a silent game never touches the device.
type Player struct {
	mu          sync.Mutex
	out         output
	mixer       *beep.Mixer
	master      *effects.Volume
	music       *beep.Ctrl
	muted       bool
	initialized bool
	initErr     error
	log         *log.Logger
}

var _ nimbus.Audio = (*Player)(nil)

// NewPlayer creates a player for the system speaker.
func NewPlayer(opts Options) *Player {
	return newPlayer(systemSpeaker{}, opts)
}

func newPlayer(out output, opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mixer := &beep.Mixer{}
	p := &Player{
		out:    out,
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
		muted:  opts.Muted,
		log:    logger,
	}
	p.setVolume(opts.Volume)
	return p
}

// setVolume maps a linear gain to the log2 volume beep uses.
// math.Log2(0) is -Inf, so zero gain is silence.
func (p *Player) setVolume(v float64) {
	if v <= 0 {
		p.master.Silent = true
		p.master.Volume = 0
		return
	}
	if v > 1 {
		v = 1
	}
	p.master.Silent = false
	p.master.Volume = math.Log2(v)
}

// SetVolume changes the master gain.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.locked(func() { p.setVolume(v) })
}

// SetMuted turns every request into a no-op. Muting stops the music.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = muted
	if muted {
		p.stopMusic()
	}
}

// Muted reports whether the player is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// open opens the speaker once. A failure is remembered so a missing device
// is reported only once.
func (p *Player) open() error {
	if p.initialized {
		return nil
	}
	if p.initErr != nil {
		return p.initErr
	}
	if err := p.out.Init(SampleRate, SampleRate.N(bufferLatency)); err != nil {
		p.initErr = fmt.Errorf("audio: cannot open speaker: %w", err)
		p.log.Warn("audio disabled", "error", err)
		return p.initErr
	}
	p.out.Play(p.master)
	p.initialized = true
	p.log.Debug("speaker ready", "rate", int(SampleRate))
	return nil
}

// locked runs fn while the speaker is not reading the mixer.
func (p *Player) locked(fn func()) {
	if !p.initialized {
		fn()
		return
	}
	p.out.Lock()
	defer p.out.Unlock()
	fn()
}

// PlaySound starts a cue on top of whatever is playing.
func (p *Player) PlaySound(kind nimbus.Sound) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted {
		return nil
	}
	s, ok := Cue(kind, SampleRate)
	if !ok {
		return fmt.Errorf("audio: unknown sound %q", kind)
	}
	if err := p.open(); err != nil {
		return err
	}
	p.locked(func() { p.mixer.Add(s) })
	return nil
}

// StartMusic (re)starts the ambient loop.
func (p *Player) StartMusic() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted {
		return nil
	}
	if err := p.open(); err != nil {
		return err
	}
	p.stopMusic()

	ctrl := &beep.Ctrl{Streamer: NewAmbientPad(SampleRate)}
	p.locked(func() { p.mixer.Add(ctrl) })
	p.music = ctrl
	return nil
}

// StopMusic stops the ambient loop. Stopping twice is harmless.
func (p *Player) StopMusic() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopMusic()
	return nil
}

// stopMusic detaches the loop; a Ctrl without a streamer drains and the
// mixer drops it.
func (p *Player) stopMusic() {
	if p.music == nil {
		return
	}
	ctrl := p.music
	p.locked(func() {
		ctrl.Paused = true
		ctrl.Streamer = nil
	})
	p.music = nil
}

// MusicPlaying reports whether the ambient loop is active.
func (p *Player) MusicPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.music != nil
}

// Active returns the number of streams in the mixer.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var n int
	p.locked(func() { n = p.mixer.Len() })
	return n
}

// Close stops every sound.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopMusic()
	p.locked(func() { p.mixer.Clear() })
}
