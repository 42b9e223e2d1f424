package nimbus

import (
	"math/rand"

	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/board"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/piece"
)

// QueueMin is the minimum number of upcoming pieces kept after every spawn.
const QueueMin = 5

// Active is the falling piece.
type Active struct {
	Def       *piece.Definition
	Rot       int
	X, Y      int
	DidRotate bool
	CanHold   bool
}

// Shape returns the current rotation matrix.
func (a Active) Shape() piece.Shape {
	return a.Def.Shape(a.Rot)
}

// HoldResult describes what a hold request did.
type HoldResult int

const (
	HoldIgnored   HoldResult = iota // already held since the last spawn
	HoldStored                      // slot was empty, a new piece spawned
	HoldSwapped                     // active and held pieces exchanged
	HoldBlocked                     // swap target collides, nothing changed
	HoldToppedOut                   // slot was empty and the new spawn collided
)

// Controller owns the falling piece, the upcoming queue and the hold slot.
type Controller struct {
	board  *board.Board
	rng    *rand.Rand
	queue  []*piece.Definition
	active Active
	live   bool
	held   *piece.Definition
}

// NewController fills the queue from rng. No piece is active until Spawn.
func NewController(b *board.Board, rng *rand.Rand) *Controller {
	c := &Controller{board: b, rng: rng}
	c.refill()
	return c
}

func (c *Controller) refill() {
	for len(c.queue) < QueueMin {
		c.queue = append(c.queue, piece.Random(c.rng))
	}
}

// SpawnX is the column of a matrix's left edge when centered on the board.
func SpawnX(width int) int {
	return board.Cols/2 - width/2
}

// Spawn pops the next piece and places it at the top center. It returns
// false when the spawn placement collides; no piece is placed in that case.
func (c *Controller) Spawn() bool {
	def := c.queue[0]
	c.queue = c.queue[1:]
	c.refill()
	return c.place(def)
}

func (c *Controller) place(def *piece.Definition) bool {
	next := Active{
		Def:     def,
		X:       SpawnX(def.Shape(0).Width()),
		Y:       0,
		CanHold: true,
	}
	if c.board.Collide(next.Shape(), next.X, next.Y) {
		c.live = false
		return false
	}
	c.active = next
	c.live = true
	return true
}

// Live reports whether a piece is falling.
func (c *Controller) Live() bool {
	return c.live
}

// Active returns the falling piece.
func (c *Controller) Active() Active {
	return c.active
}

// Held returns the hold slot, nil when empty.
func (c *Controller) Held() *piece.Definition {
	return c.held
}

// Queue returns up to n upcoming definitions.
func (c *Controller) Queue(n int) []*piece.Definition {
	n = min(n, len(c.queue))
	out := make([]*piece.Definition, n)
	copy(out, c.queue[:n])
	return out
}

// QueueLen returns the number of queued pieces.
func (c *Controller) QueueLen() int {
	return len(c.queue)
}

func (c *Controller) collides(rot, x, y int) bool {
	return c.board.Collide(c.active.Def.Shape(rot), x, y)
}

// Move shifts the piece one column. It returns false if the move collided.
func (c *Controller) Move(dir int) bool {
	if !c.live {
		return false
	}
	x := c.active.X + dir
	if c.collides(c.active.Rot, x, c.active.Y) {
		return false
	}
	c.active.X = x
	return true
}

// kickSteps returns the successive x adjustments tried after a rotation:
// +1, -2, +3, -4, ... while the magnitude stays within width.
func kickSteps(width int) []int {
	steps := make([]int, 0, width)
	for i := 1; i <= width; i++ {
		if i%2 == 1 {
			steps = append(steps, i)
		} else {
			steps = append(steps, -i)
		}
	}
	return steps
}

// Rotate turns the piece by dir quarter turns (+1 clockwise, -1 counter
// clockwise), kicking sideways if needed. On failure the pose is unchanged.
func (c *Controller) Rotate(dir int) bool {
	if !c.live {
		return false
	}
	rot := ((c.active.Rot+dir)%4 + 4) % 4
	x := c.active.X
	if c.collides(rot, x, c.active.Y) {
		ok := false
		for _, step := range kickSteps(c.active.Def.Shape(rot).Width()) {
			x += step
			if !c.collides(rot, x, c.active.Y) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	c.active.Rot = rot
	c.active.X = x
	c.active.DidRotate = true
	return true
}

// Descend moves the piece down one row. It returns false when the piece has
// landed, leaving it at its last valid row.
func (c *Controller) Descend() bool {
	if !c.live {
		return false
	}
	if c.collides(c.active.Rot, c.active.X, c.active.Y+1) {
		return false
	}
	c.active.Y++
	return true
}

// DropDistance returns how many rows the piece can fall.
func (c *Controller) DropDistance() int {
	if !c.live {
		return 0
	}
	n := 0
	for !c.collides(c.active.Rot, c.active.X, c.active.Y+n+1) {
		n++
	}
	return n
}

// HardDrop moves the piece to the lowest valid row and returns the rows fallen.
func (c *Controller) HardDrop() int {
	n := c.DropDistance()
	c.active.Y += n
	return n
}

// Lock merges the piece into the board and reports whether it was rotated.
// The controller has no live piece afterwards.
func (c *Controller) Lock() bool {
	if !c.live {
		return false
	}
	a := c.active
	c.board.Merge(a.Shape(), a.X, a.Y, a.Def.Color, a.Def.Kind)
	c.live = false
	return a.DidRotate
}

// Hold stores or swaps the active piece. Allowed once per spawn.
func (c *Controller) Hold() HoldResult {
	if !c.live || !c.active.CanHold {
		return HoldIgnored
	}
	current := c.active.Def

	if c.held == nil {
		c.held = current
		if !c.Spawn() {
			return HoldToppedOut
		}
		c.active.CanHold = false
		return HoldStored
	}

	swap := c.held
	prev := c.active
	if !c.place(swap) {
		c.active = prev
		c.live = true
		return HoldBlocked
	}
	c.held = current
	c.active.CanHold = false
	return HoldSwapped
}
