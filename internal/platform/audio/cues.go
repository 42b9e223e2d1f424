package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/nimbus-block/internal/games/nimbus"
)

// note is a chord voice that starts after At.
type note struct {
	At   time.Duration
	Tone Tone
}

// bell is a fixed-pitch voice fading out exponentially.
func bell(w Wave, freq float64, d time.Duration) Tone {
	return Tone{Wave: w, Freq: freq, Gain: 0.1, GainSweep: SweepExponential, Duration: d}
}

// cues holds the voices of every sound.
var cues = map[nimbus.Sound][]note{
	// Soft click
	nimbus.SoundMove: {{Tone: Tone{
		Wave: WaveSine, Freq: 200, EndFreq: 50, FreqSweep: SweepExponential,
		Gain: 0.05, Duration: 50 * time.Millisecond,
	}}},
	// Glassy ping
	nimbus.SoundRotate: {{Tone: Tone{
		Wave: WaveSine, Freq: 600, EndFreq: 800,
		Gain: 0.05, GainSweep: SweepExponential, Duration: 100 * time.Millisecond,
	}}},
	// Thud
	nimbus.SoundLand: {{Tone: Tone{
		Wave: WaveTriangle, Freq: 100, EndFreq: 40, FreqSweep: SweepExponential,
		Gain: 0.2, Duration: 100 * time.Millisecond,
	}}},
	nimbus.SoundClear: {
		{Tone: bell(WaveSine, 523.25, 400*time.Millisecond)},
		{At: 100 * time.Millisecond, Tone: bell(WaveSine, 659.25, 400*time.Millisecond)},
		{At: 200 * time.Millisecond, Tone: bell(WaveSine, 783.99, 400*time.Millisecond)},
	},
	nimbus.SoundMissionComplete: {
		{Tone: bell(WaveSquare, 440, 600*time.Millisecond)},
		{At: 100 * time.Millisecond, Tone: bell(WaveSine, 880, 600*time.Millisecond)},
		{At: 200 * time.Millisecond, Tone: bell(WaveSine, 1760, 800*time.Millisecond)},
	},
	nimbus.SoundGameOver: {{Tone: Tone{
		Wave: WaveSaw, Freq: 150, EndFreq: 50,
		Gain: 0.3, Duration: 1500 * time.Millisecond,
	}}},
}

// Cue builds the streamer for a sound. It reports false for unknown sounds.
func Cue(kind nimbus.Sound, rate beep.SampleRate) (beep.Streamer, bool) {
	notes, ok := cues[kind]
	if !ok {
		return nil, false
	}
	if len(notes) == 1 && notes[0].At == 0 {
		return NewTone(notes[0].Tone, rate), true
	}

	voices := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		voices = append(voices, delay(n.At, rate, NewTone(n.Tone, rate)))
	}
	return beep.Mix(voices...), true
}

// CueLength returns how long a sound plays.
func CueLength(kind nimbus.Sound) time.Duration {
	var longest time.Duration
	for _, n := range cues[kind] {
		if end := n.At + n.Tone.Duration; end > longest {
			longest = end
		}
	}
	return longest
}
