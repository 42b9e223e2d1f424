package mission

import "time"

// Clock supplies the current time to the engine.
type Clock interface {
	Now() time.Time
}

// GameClock is advanced explicitly by the game loop, so time spent paused
// never reaches the missions.
type GameClock struct {
	epoch   time.Time
	elapsed time.Duration
}

// NewGameClock returns a clock at zero elapsed time.
func NewGameClock() *GameClock {
	return &GameClock{epoch: time.Unix(0, 0).UTC()}
}

// Advance moves the clock forward. Negative durations are ignored.
func (c *GameClock) Advance(d time.Duration) {
	if d > 0 {
		c.elapsed += d
	}
}

// Now returns the simulated wall time.
func (c *GameClock) Now() time.Time {
	return c.epoch.Add(c.elapsed)
}

// Elapsed returns total advanced time.
func (c *GameClock) Elapsed() time.Duration {
	return c.elapsed
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
