package piece

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/nimbus-block/internal/core"
)

// CellCount is the number of cells in every piece.
const CellCount = 5

// Kind indexes a definition in catalog order.
type Kind uint8

// Definition is an immutable catalog entry.
type Definition struct {
	Kind      Kind
	ID        string
	Name      string
	Color     core.Color
	Rotations [4]Shape
}

// Shape returns the rotation variant for index rot (taken mod 4).
func (d *Definition) Shape(rot int) Shape {
	return d.Rotations[((rot%4)+4)%4]
}

type authored struct {
	id    string
	name  string
	color core.Color
	rows  [Size]string
}

// Base (0°) shapes. Each is a distinct one-sided pentomino.
var authoredShapes = []authored{
	{"javelin", "Javelin", core.ColorBrightRed, [Size]string{
		"..#..",
		"..#..",
		"..#..",
		"..##.",
		".....",
	}},
	{"scepter", "Scepter", core.ColorOrange, [Size]string{
		"..#..",
		"..#..",
		".###.",
		".....",
		".....",
	}},
	{"stairs", "Stairs", core.ColorAmber, [Size]string{
		"..#..",
		"..##.",
		"...##",
		".....",
		".....",
	}},
	{"cradle", "Cradle", core.ColorLime, [Size]string{
		".#.#.",
		".###.",
		".....",
		".....",
		".....",
	}},
	{"h_minor", "H-Minor", core.ColorBrightGreen, [Size]string{
		".#...",
		"##...",
		".#...",
		".#...",
		".....",
	}},
	{"signpost", "Signpost", core.ColorGreen, [Size]string{
		"..#..",
		".###.",
		"..#..",
		".....",
		".....",
	}},
	{"snake", "Snake", core.ColorTeal, [Size]string{
		"..#..",
		"..#..",
		".##..",
		".#...",
		".....",
	}},
	{"pipe", "Pipe", core.ColorBrightCyan, [Size]string{
		"##...",
		".#...",
		".##..",
		".....",
		".....",
	}},
	{"lightning", "Lightning", core.ColorSky, [Size]string{
		"..#..",
		"..##.",
		".##..",
		".....",
		".....",
	}},
	{"corner", "Corner", core.ColorBrightBlue, [Size]string{
		".#...",
		".#...",
		".###.",
		".....",
		".....",
	}},
	{"throne", "Throne", core.ColorIndigo, [Size]string{
		".#...",
		".##..",
		".#...",
		".#...",
		".....",
	}},
	{"boat", "Boat", core.ColorMagenta, [Size]string{
		".....",
		".##..",
		"..##.",
		"..#..",
		".....",
	}},
	{"key", "Key", core.ColorPurple, [Size]string{
		".##..",
		".##..",
		".#...",
		".....",
		".....",
	}},
	{"fist", "Fist", core.ColorBrightMagenta, [Size]string{
		".##..",
		".##..",
		"..#..",
		".....",
		".....",
	}},
	{"glider", "Glider", core.ColorPink, [Size]string{
		".#...",
		".#...",
		".##..",
		"..#..",
		".....",
	}},
	{"spire", "Spire", core.ColorBrightYellow, [Size]string{
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
	}},
}

var (
	catalog = buildCatalog()
	byID    = indexCatalog(catalog)
)

func buildCatalog() []*Definition {
	defs := make([]*Definition, len(authoredShapes))
	for i, a := range authoredShapes {
		base := ParseShape(a.rows[:]...)
		if n := base.Count(); n != CellCount {
			panic(fmt.Sprintf("piece: %s has %d cells", a.id, n))
		}
		d := &Definition{Kind: Kind(i), ID: a.id, Name: a.name, Color: a.color}
		d.Rotations[0] = base
		for r := 1; r < 4; r++ {
			d.Rotations[r] = d.Rotations[r-1].RotateCW()
		}
		defs[i] = d
	}
	return defs
}

func indexCatalog(defs []*Definition) map[string]*Definition {
	m := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}

// Catalog returns all definitions in catalog order.
// The definitions are shared and must not be modified.
func Catalog() []*Definition {
	out := make([]*Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Count returns the number of pieces in the catalog.
func Count() int {
	return len(catalog)
}

// ByKind returns the definition for k, or nil when out of range.
func ByKind(k Kind) *Definition {
	if int(k) >= len(catalog) {
		return nil
	}
	return catalog[k]
}

// ByID looks a definition up by its shape id.
func ByID(id string) (*Definition, bool) {
	d, ok := byID[id]
	return d, ok
}

// Random draws one definition uniformly.
func Random(rng *rand.Rand) *Definition {
	return catalog[rng.Intn(len(catalog))]
}
