package board

import (
	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/piece"
)

// MinRun is the narrowest band-filled run that forms a segment.
const MinRun = 7

// PointsPerBlock is the score unit for each removed block.
const PointsPerBlock = 50

// Span is one segment: columns [X0, X1) of rows Row and Row+1.
type Span struct {
	Row int
	X0  int
	X1  int
}

// Width returns the number of columns in the span.
func (s Span) Width() int {
	return s.X1 - s.X0
}

// Tally counts removed blocks that came from one shape.
type Tally struct {
	Kind    piece.Kind
	ShapeID string
	Count   int
}

// Report describes one clear pass.
type Report struct {
	Segments int
	Blocks   int
	Spans    []Span
	Tallies  []Tally // catalog order
}

// Points returns the score earned by the pass.
func (r Report) Points() int {
	return r.Blocks * PointsPerBlock * r.Segments
}

// Perfect reports whether the pass removed exactly one 2×MinRun band.
func (r Report) Perfect() bool {
	return r.Segments == 1 && r.Blocks == 2*MinRun
}

// Clear finds every segment, removes the marked cells and compacts each
// column downward. When no segment exists the board is left untouched.
func (b *Board) Clear() Report {
	var marked [Rows][Cols]bool
	var rep Report

	for y := 0; y < Rows-1; y++ {
		run := 0
		for x := 0; x <= Cols; x++ {
			if x < Cols && b.cells[y][x].occupied && b.cells[y+1][x].occupied {
				run++
				continue
			}
			if run >= MinRun {
				span := Span{Row: y, X0: x - run, X1: x}
				for cx := span.X0; cx < span.X1; cx++ {
					marked[y][cx] = true
					marked[y+1][cx] = true
				}
				rep.Spans = append(rep.Spans, span)
				rep.Segments++
			}
			run = 0
		}
	}

	if rep.Segments == 0 {
		return rep
	}

	tally := intmap.New[piece.Kind, int](piece.Count())
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if !marked[y][x] {
				continue
			}
			c := b.cells[y][x]
			n, _ := tally.Get(c.Kind)
			tally.Put(c.Kind, n+1)
			b.cells[y][x] = Empty
			rep.Blocks++
		}
	}

	for k := 0; k < piece.Count(); k++ {
		kind := piece.Kind(k)
		if n, ok := tally.Get(kind); ok {
			rep.Tallies = append(rep.Tallies, Tally{Kind: kind, ShapeID: piece.ByKind(kind).ID, Count: n})
		}
	}

	b.compact()
	return rep
}

// compact drops every column's blocks to the floor, keeping their order.
func (b *Board) compact() {
	for x := 0; x < Cols; x++ {
		write := Rows - 1
		for read := Rows - 1; read >= 0; read-- {
			c := b.cells[read][x]
			if !c.occupied {
				continue
			}
			if read != write {
				b.cells[write][x] = c
				b.cells[read][x] = Empty
			}
			write--
		}
	}
}
