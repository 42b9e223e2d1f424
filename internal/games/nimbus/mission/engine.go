package mission

import (
	"fmt"
	"time"
)

// Engine tracks the active mission and routes gameplay events to it.
// Every hook returns whether the active mission is now complete; the caller
// decides when to advance with Next.
type Engine struct {
	queue     []Mission
	active    Mission
	progress  int
	combo     int
	noRotate  int
	started   time.Time
	completed int
	clock     Clock
}

// NewEngine serves the given queue, then the endless mission forever.
func NewEngine(queue []Mission, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	e := &Engine{
		queue: append([]Mission(nil), queue...),
		clock: clock,
	}
	e.activate()
	return e
}

// Next advances to the following mission (or a fresh endless mission) and
// resets all per-mission counters. A completed active mission is counted.
func (e *Engine) Next() Mission {
	if e.Complete() {
		e.completed++
	}
	e.activate()
	return e.active
}

func (e *Engine) activate() {
	if len(e.queue) > 0 {
		e.active = e.queue[0]
		e.queue = e.queue[1:]
	} else {
		e.active = Endless
	}
	e.progress = 0
	e.combo = 0
	e.noRotate = 0
	e.started = e.clock.Now()
}

// Active returns the current mission.
func (e *Engine) Active() Mission {
	return e.active
}

// Progress returns the active mission's progress.
func (e *Engine) Progress() int {
	return e.progress
}

// Combo returns the consecutive clearing-lock counter.
func (e *Engine) Combo() int {
	return e.combo
}

// NoRotateStreak returns the current run of locks without rotation.
func (e *Engine) NoRotateStreak() int {
	return e.noRotate
}

// Started returns when the active mission began.
func (e *Engine) Started() time.Time {
	return e.started
}

// Completed returns how many missions have been completed.
func (e *Engine) Completed() int {
	return e.completed
}

// Remaining returns the number of queued missions after the active one.
func (e *Engine) Remaining() int {
	return len(e.queue)
}

// Complete reports whether progress has reached the target.
func (e *Engine) Complete() bool {
	return e.progress >= e.active.Target
}

// OnBlockClear handles removed blocks. shapeID is empty for the aggregate
// count and set for a per-shape tally.
func (e *Engine) OnBlockClear(count int, shapeID string) bool {
	switch e.active.Type {
	case TypeClearBlocks:
		if shapeID == "" {
			e.progress += count
		}
	case TypeColorClear:
		if shapeID != "" && shapeID == e.active.Color {
			e.progress += count
		}
	}
	return e.Complete()
}

// OnSegmentClear handles the result of one clear pass. segments == 0 breaks
// the combo chain.
func (e *Engine) OnSegmentClear(segments, blocks int) bool {
	switch e.active.Type {
	case TypeSegment:
		if segments > 0 {
			e.progress++
		}
	case TypePerfection:
		if segments == 1 && blocks == 14 {
			e.progress++
		}
	}

	if segments > 0 {
		e.combo++
		if e.active.Type == TypeCombo && e.combo >= e.active.Target {
			e.progress = e.active.Target
		}
	} else {
		e.combo = 0
	}
	return e.Complete()
}

// OnPieceLock handles a landed piece.
func (e *Engine) OnPieceLock(didRotate bool) bool {
	if e.active.Type == TypeNoRotate {
		if didRotate {
			e.noRotate = 0
		} else {
			e.noRotate++
		}
		e.progress = e.noRotate
	}
	return e.Complete()
}

// OnScore handles points gained.
func (e *Engine) OnScore(points int) bool {
	switch e.active.Type {
	case TypeScore, TypeSurviveScore:
		e.progress += points
	}
	return e.Complete()
}

// UpdateTime refreshes time-based progress from the clock.
func (e *Engine) UpdateTime() bool {
	if e.active.Type == TypeSurviveTime {
		e.progress = int(e.clock.Now().Sub(e.started) / time.Second)
	}
	return e.Complete()
}

// Status is a read-only view for HUDs.
type Status struct {
	Mission   Mission `json:"mission"`
	Progress  int     `json:"progress"`
	Completed int     `json:"completed"`
	Remaining int     `json:"remaining"`
}

// Status returns the current view.
func (e *Engine) Status() Status {
	return Status{
		Mission:   e.active,
		Progress:  e.progress,
		Completed: e.completed,
		Remaining: len(e.queue),
	}
}

// ProgressText formats progress as "n/target", capped at the target.
func (s Status) ProgressText() string {
	return fmt.Sprintf("%d/%d", min(s.Progress, s.Mission.Target), s.Mission.Target)
}
