// Package board implements the 12×22 Nimbus playfield: cell storage,
// collision and merge queries, and the two-row segment clear engine.
package board

import (
	"strings"

	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/piece"
)

// Board geometry. Row 0 is the top.
const (
	Cols = 12
	Rows = 22
)

// Cell is either empty or occupied by a block of a given color and shape.
type Cell struct {
	occupied bool
	Color    core.Color
	Kind     piece.Kind
}

// Empty is the vacant cell value.
var Empty = Cell{}

// Occupied returns a filled cell.
func Occupied(color core.Color, kind piece.Kind) Cell {
	return Cell{occupied: true, Color: color, Kind: kind}
}

// Filled reports whether the cell holds a block.
func (c Cell) Filled() bool {
	return c.occupied
}

// ShapeID returns the id of the shape that left this block, or "" when empty.
func (c Cell) ShapeID() string {
	if !c.occupied {
		return ""
	}
	if d := piece.ByKind(c.Kind); d != nil {
		return d.ID
	}
	return ""
}

// Board is the mutable playfield grid.
type Board struct {
	cells [Rows][Cols]Cell
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.cells = [Rows][Cols]Cell{}
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// InBounds reports whether (x, y) is a board position.
func InBounds(x, y int) bool {
	return x >= 0 && x < Cols && y >= 0 && y < Rows
}

// At returns the cell at (x, y); positions outside the board read as Empty.
func (b *Board) At(x, y int) Cell {
	if !InBounds(x, y) {
		return Empty
	}
	return b.cells[y][x]
}

// Set writes a cell. Positions outside the board are ignored.
func (b *Board) Set(x, y int, c Cell) {
	if !InBounds(x, y) {
		return
	}
	b.cells[y][x] = c
}

// Collide reports whether shape placed with its matrix origin at (x, y)
// overlaps a block or leaves the board. Empty matrix cells are never checked.
func (b *Board) Collide(s piece.Shape, x, y int) bool {
	for dy := 0; dy < piece.Size; dy++ {
		for dx := 0; dx < piece.Size; dx++ {
			if !s[dy][dx] {
				continue
			}
			bx, by := x+dx, y+dy
			if !InBounds(bx, by) || b.cells[by][bx].occupied {
				return true
			}
		}
	}
	return false
}

// Merge writes the shape's cells into the board. The caller guarantees the
// placement does not collide.
func (b *Board) Merge(s piece.Shape, x, y int, color core.Color, kind piece.Kind) {
	for _, c := range s.Cells() {
		b.Set(x+c.DX, y+c.DY, Occupied(color, kind))
	}
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for y := range b.cells {
		for x := range b.cells[y] {
			if b.cells[y][x].occupied {
				n++
			}
		}
	}
	return n
}

// Height returns the number of rows from the highest block to the floor.
func (b *Board) Height() int {
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if b.cells[y][x].occupied {
				return Rows - y
			}
		}
	}
	return 0
}

// String renders the grid with '#' for blocks and '.' for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((Cols + 1) * Rows)
	for y := 0; y < Rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < Cols; x++ {
			if b.cells[y][x].occupied {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
