package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Predefined colors. The pastel block tones come after the basic ANSI set.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorAmber
	ColorLime
	ColorTeal
	ColorSky
	ColorIndigo
	ColorPurple
	ColorPink
)

// String returns a lowercase color name.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

var colorNames = [...]string{
	"default", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright_red", "bright_green", "bright_yellow", "bright_blue",
	"bright_magenta", "bright_cyan", "bright_white", "orange", "gray",
	"amber", "lime", "teal", "sky", "indigo", "purple", "pink",
}
