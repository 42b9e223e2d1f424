// Package piece holds the Nimbus piece catalog: five-cell shapes authored on
// a 5×5 matrix and their four precomputed clockwise rotations.
package piece

import "strings"

// Size is the side of every piece matrix.
const Size = 5

// Shape is a square occupancy matrix indexed [row][col].
type Shape [Size][Size]bool

// Offset is an occupied cell of a shape relative to its matrix origin.
type Offset struct {
	DX, DY int
}

// ParseShape builds a shape from Size rows of '#' (filled) and '.' (empty).
// Authoring errors panic; the catalog is static data.
func ParseShape(rows ...string) Shape {
	if len(rows) != Size {
		panic("piece: shape needs 5 rows")
	}
	var s Shape
	for y, row := range rows {
		if len(row) != Size {
			panic("piece: shape row " + row + " is not 5 wide")
		}
		for x, ch := range row {
			switch ch {
			case '#':
				s[y][x] = true
			case '.':
			default:
				panic("piece: bad shape rune in " + row)
			}
		}
	}
	return s
}

// RotateCW returns the shape turned 90° clockwise about the matrix centre.
func (s Shape) RotateCW() Shape {
	var r Shape
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			r[y][x] = s[Size-1-x][y]
		}
	}
	return r
}

// Width is the matrix width used for spawn centering and the kick cap.
func (s Shape) Width() int {
	return Size
}

// Count returns the number of occupied cells.
func (s Shape) Count() int {
	n := 0
	for y := range s {
		for x := range s[y] {
			if s[y][x] {
				n++
			}
		}
	}
	return n
}

// Cells lists occupied cells in row-major order.
func (s Shape) Cells() []Offset {
	cells := make([]Offset, 0, Size)
	for y := range s {
		for x := range s[y] {
			if s[y][x] {
				cells = append(cells, Offset{DX: x, DY: y})
			}
		}
	}
	return cells
}

// Bounds returns the tight bounding box of the occupied cells.
// An empty shape reports ok=false.
func (s Shape) Bounds() (minX, minY, maxX, maxY int, ok bool) {
	minX, minY = Size, Size
	maxX, maxY = -1, -1
	for y := range s {
		for x := range s[y] {
			if !s[y][x] {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	return minX, minY, maxX, maxY, maxX >= 0
}

// String renders the matrix with '#' and '.' rows.
func (s Shape) String() string {
	var b strings.Builder
	for y := range s {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := range s[y] {
			if s[y][x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
