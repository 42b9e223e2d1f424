package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveSaw
)

// Sweep is how a tone moves between its start and end values.
type Sweep int

const (
	SweepLinear Sweep = iota
	SweepExponential
)

// silentGain is the level exponential gain ramps end at. An exponential
// ramp cannot reach zero.
const silentGain = 0.001

// Tone describes one oscillator voice with a pitch and gain ramp.
type Tone struct {
	Wave      Wave
	Freq      float64 // Start frequency in Hz
	EndFreq   float64 // End frequency; 0 holds Freq
	FreqSweep Sweep
	Gain      float64 // Start gain
	EndGain   float64 // End gain of a linear ramp; equal to Gain holds it
	GainSweep Sweep   // Exponential ramps end at silentGain
	Duration  time.Duration
}

// tone streams a Tone and drains after its duration.
type tone struct {
	def   Tone
	rate  beep.SampleRate
	total int
	pos   int
	phase float64
}

// NewTone returns a streamer for t at the given sample rate.
func NewTone(t Tone, rate beep.SampleRate) beep.Streamer {
	return &tone{def: t, rate: rate, total: rate.N(t.Duration)}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if o.pos >= o.total {
		return 0, false
	}
	for i := range samples {
		if o.pos >= o.total {
			return i, true
		}
		progress := float64(o.pos) / float64(o.total)

		end := o.def.EndGain
		if o.def.GainSweep == SweepExponential {
			end = silentGain
		}
		val := ramp(o.def.Gain, end, progress, o.def.GainSweep) * oscillate(o.def.Wave, o.phase)
		samples[i][0] = val
		samples[i][1] = val

		freq := o.def.Freq
		if o.def.EndFreq > 0 {
			freq = ramp(o.def.Freq, o.def.EndFreq, progress, o.def.FreqSweep)
		}
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.pos++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// oscillate returns the wave value in [-1, 1] at phase in [0, 1).
func oscillate(w Wave, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	case WaveSaw:
		return 2 * (phase - 0.5)
	}
	return math.Sin(2 * math.Pi * phase)
}

// ramp interpolates from a to b at progress p in [0, 1].
func ramp(a, b, p float64, s Sweep) float64 {
	if s == SweepExponential && a > 0 && b > 0 {
		return a * math.Pow(b/a, p)
	}
	return a + (b-a)*p
}

// delay prefixes s with silence.
func delay(d time.Duration, rate beep.SampleRate, s beep.Streamer) beep.Streamer {
	if d <= 0 {
		return s
	}
	return beep.Seq(beep.Silence(rate.N(d)), s)
}

// pad is the endless ambient drone: two sines panned by a slow LFO.
type pad struct {
	rate   beep.SampleRate
	freqs  [2]float64
	gain   float64
	lfo    float64 // Pan LFO rate in Hz
	phases [2]float64
	pan    float64
}

// NewAmbientPad returns the looping C3 + G3 drone.
func NewAmbientPad(rate beep.SampleRate) beep.Streamer {
	return &pad{
		rate:  rate,
		freqs: [2]float64{130.81, 196.00},
		gain:  0.1,
		lfo:   0.1,
	}
}

func (p *pad) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := p.gain * (math.Sin(2*math.Pi*p.phases[0]) + math.Sin(2*math.Pi*p.phases[1]))

		// Equal-power pan, position in [-1, 1]
		pos := math.Sin(2 * math.Pi * p.pan)
		angle := (pos + 1) * math.Pi / 4
		samples[i][0] = v * math.Cos(angle)
		samples[i][1] = v * math.Sin(angle)

		for k := range p.phases {
			p.phases[k] += p.freqs[k] / float64(p.rate)
			p.phases[k] -= math.Floor(p.phases[k])
		}
		p.pan += p.lfo / float64(p.rate)
		p.pan -= math.Floor(p.pan)
	}
	return len(samples), true
}

func (p *pad) Err() error { return nil }
