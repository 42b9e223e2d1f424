package nimbus

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/board"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/piece"
)

func mustDef(t *testing.T, id string) *piece.Definition {
	t.Helper()
	d, ok := piece.ByID(id)
	require.True(t, ok, "unknown piece %s", id)
	return d
}

func newTestController(seed int64) (*Controller, *board.Board) {
	b := board.New()
	return NewController(b, rand.New(rand.NewSource(seed))), b
}

func TestSpawnCentered(t *testing.T) {
	c, _ := newTestController(1)
	next := c.Queue(1)[0]

	require.True(t, c.Spawn())
	a := c.Active()
	assert.Same(t, next, a.Def)
	assert.Equal(t, 4, a.X)
	assert.Equal(t, 0, a.Y)
	assert.Equal(t, 0, a.Rot)
	assert.True(t, a.CanHold)
	assert.False(t, a.DidRotate)
}

func TestQueueInvariant(t *testing.T) {
	c, b := newTestController(2)
	require.GreaterOrEqual(t, c.QueueLen(), QueueMin)
	for rangeIdx, rangeEnd := 0, 500; rangeIdx < rangeEnd; rangeIdx++ {
		b.Reset()
		require.True(t, c.Spawn())
		require.GreaterOrEqual(t, c.QueueLen(), QueueMin)
	}
}

func TestSpawnCollision(t *testing.T) {
	c, b := newTestController(3)
	for x, xEnd := 0, board.Cols; x < xEnd; x++ {
		b.Set(x, 2, board.Occupied(core.ColorGray, 0))
	}
	assert.False(t, c.Spawn())
	assert.False(t, c.Live())
	assert.False(t, c.Move(1))
	assert.False(t, c.Rotate(1))
	assert.False(t, c.Lock())
}

func TestMoveStopsAtWalls(t *testing.T) {
	c, _ := newTestController(4)
	require.True(t, c.place(mustDef(t, "spire")))

	moves := 0
	for c.Move(-1) {
		moves++
	}
	assert.Equal(t, 6, moves)
	assert.Equal(t, -2, c.Active().X)

	moves = 0
	for c.Move(1) {
		moves++
	}
	assert.Equal(t, 11, moves)
	assert.Equal(t, 9, c.Active().X)
}

func TestKickSteps(t *testing.T) {
	assert.Equal(t, []int{1, -2, 3, -4, 5}, kickSteps(5))
	assert.Empty(t, kickSteps(0))
}

func TestRotateKicksOffWall(t *testing.T) {
	c, _ := newTestController(5)
	require.True(t, c.place(mustDef(t, "spire")))
	for c.Move(-1) {
	}
	require.Equal(t, -2, c.Active().X)

	require.True(t, c.Rotate(1))
	a := c.Active()
	assert.Equal(t, 1, a.Rot)
	assert.Equal(t, 0, a.X)
	assert.True(t, a.DidRotate)
}

func TestRotateRevertsWhenNoRoom(t *testing.T) {
	c, b := newTestController(6)
	require.True(t, c.place(mustDef(t, "spire")))
	for c.Move(-1) {
	}
	for rangeIdx, rangeEnd := 0, 10; rangeIdx < rangeEnd; rangeIdx++ {
		require.True(t, c.Descend())
	}
	for y := 10; y < 15; y++ {
		for x := 1; x < board.Cols; x++ {
			b.Set(x, y, board.Occupied(core.ColorGray, 0))
		}
	}
	before := c.Active()

	assert.False(t, c.Rotate(1))
	assert.False(t, c.Rotate(-1))
	assert.Equal(t, before, c.Active())
	assert.False(t, b.Collide(c.Active().Shape(), c.Active().X, c.Active().Y))
}

func TestRotateNeverLeavesCollision(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i, iEnd := 0, 2000; i < iEnd; i++ {
		c, b := newTestController(int64(i))
		for y := 8; y < board.Rows; y++ {
			for x, xEnd := 0, board.Cols; x < xEnd; x++ {
				if rng.Float64() < 0.45 {
					b.Set(x, y, board.Occupied(core.ColorGray, 0))
				}
			}
		}
		def := piece.Random(rng)
		if !c.place(def) {
			continue
		}
		for rangeIdx, rangeEnd := 0, rng.Intn(12); rangeIdx < rangeEnd; rangeIdx++ {
			c.Descend()
		}
		for rangeIdx, rangeEnd := 0, rng.Intn(6); rangeIdx < rangeEnd; rangeIdx++ {
			c.Move(rng.Intn(2)*2 - 1)
		}

		before := c.Active()
		dir := rng.Intn(2)*2 - 1
		ok := c.Rotate(dir)
		after := c.Active()

		require.False(t, b.Collide(after.Shape(), after.X, after.Y), "iteration %d", i)
		if ok {
			require.Equal(t, (before.Rot+dir+4)%4, after.Rot)
			require.LessOrEqual(t, abs(after.X-before.X), 3)
			require.Equal(t, before.Y, after.Y)
		} else {
			require.Equal(t, before, after, "iteration %d", i)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestDescendAndHardDrop(t *testing.T) {
	c, _ := newTestController(7)
	require.True(t, c.place(mustDef(t, "spire")))

	assert.Equal(t, board.Rows-5, c.DropDistance())
	assert.Equal(t, board.Rows-5, c.HardDrop())
	assert.False(t, c.Descend())
	assert.Equal(t, board.Rows-5, c.Active().Y)

	assert.False(t, c.Lock())
	assert.False(t, c.Live())
}

func TestLockMerges(t *testing.T) {
	c, b := newTestController(8)
	fist := mustDef(t, "fist")
	require.True(t, c.place(fist))
	turned := c.Rotate(1)
	c.HardDrop()
	rotated := c.Lock()

	assert.Equal(t, piece.CellCount, b.Count())
	assert.Equal(t, turned, rotated)
	assert.Equal(t, fist.Kind, b.At(c.Active().X+2, board.Rows-1).Kind)
}

func TestHoldRules(t *testing.T) {
	c, b := newTestController(9)
	require.True(t, c.Spawn())
	first := c.Active().Def
	upcoming := c.Queue(1)[0]

	assert.Equal(t, HoldStored, c.Hold())
	assert.Same(t, first, c.Held())
	assert.Same(t, upcoming, c.Active().Def)
	assert.False(t, c.Active().CanHold)

	assert.Equal(t, HoldIgnored, c.Hold())
	assert.Same(t, first, c.Held())

	c.HardDrop()
	c.Lock()
	b.Reset()
	require.True(t, c.Spawn())
	second := c.Active().Def
	require.True(t, c.Move(1))
	c.Rotate(1)

	assert.Equal(t, HoldSwapped, c.Hold())
	a := c.Active()
	assert.Same(t, first, a.Def)
	assert.Same(t, second, c.Held())
	assert.Equal(t, SpawnX(piece.Size), a.X)
	assert.Equal(t, 0, a.Y)
	assert.Equal(t, 0, a.Rot)
	assert.False(t, a.DidRotate)
	assert.False(t, a.CanHold)
}

func TestHoldBlockedKeepsPiece(t *testing.T) {
	c, b := newTestController(10)
	require.True(t, c.Spawn())
	require.Equal(t, HoldStored, c.Hold())
	c.HardDrop()
	c.Lock()
	b.Reset()
	require.True(t, c.Spawn())
	for rangeIdx, rangeEnd := 0, 10; rangeIdx < rangeEnd; rangeIdx++ {
		c.Descend()
	}
	for y, yEnd := 0, 5; y < yEnd; y++ {
		for x, xEnd := 0, board.Cols; x < xEnd; x++ {
			b.Set(x, y, board.Occupied(core.ColorGray, 0))
		}
	}
	held := c.Held()
	before := c.Active()

	assert.Equal(t, HoldBlocked, c.Hold())
	assert.Equal(t, before, c.Active())
	assert.Same(t, held, c.Held())
	assert.True(t, c.Live())
}
