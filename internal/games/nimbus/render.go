package nimbus

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/nimbus-block/internal/core"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/board"
	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/piece"
)

// Layout
const (
	cellWidth = 2 // terminal columns per board cell
	boardW    = board.Cols*cellWidth + 2
	boardH    = board.Rows + 2
	hudGap    = 2
	hudW      = 32
	minW      = boardW + hudGap + hudW
	minH      = boardH
)

// Glyphs
const (
	blockGlyph = '█'
	ghostGlyph = '░'
	emptyGlyph = '·'
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.board == nil {
		return
	}

	if dst.Width() < minW || dst.Height() < minH {
		g.renderTooSmall(dst)
		return
	}

	ox := (dst.Width() - minW) / 2
	oy := (dst.Height() - minH) / 2

	g.renderBoard(dst, ox, oy)
	g.renderHUD(dst, ox+boardW+hudGap, oy)
	g.renderOverlay(dst, ox, oy)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorYellow)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minW, minH), core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen, ox, oy int) {
	dst.DrawBox(core.NewRect(ox, oy, boardW, boardH), core.ColorGray)

	for y, yEnd := 0, board.Rows; y < yEnd; y++ {
		for x, xEnd := 0, board.Cols; x < xEnd; x++ {
			c := g.board.At(x, y)
			if c.Filled() {
				drawBlock(dst, ox, oy, x, y, blockGlyph, c.Color)
			} else {
				drawBlock(dst, ox, oy, x, y, emptyGlyph, core.ColorGray)
			}
		}
	}

	if !g.ctrl.Live() || g.state == StateIdle {
		return
	}
	a := g.ctrl.Active()
	shape := a.Shape()

	ghostY := a.Y + g.ctrl.DropDistance()
	for _, off := range shape.Cells() {
		drawBlock(dst, ox, oy, a.X+off.DX, ghostY+off.DY, ghostGlyph, a.Def.Color)
	}

	px, py := roundPos(g.renderX), roundPos(g.renderY)
	for _, off := range shape.Cells() {
		drawBlock(dst, ox, oy, px+off.DX, py+off.DY, blockGlyph, a.Def.Color)
	}
}

// drawBlock draws one board cell; cells outside the well are skipped.
func drawBlock(dst *core.Screen, ox, oy, x, y int, r rune, c core.Color) {
	if !board.InBounds(x, y) {
		return
	}
	sx := ox + 1 + x*cellWidth
	sy := oy + 1 + y
	if r == emptyGlyph {
		dst.SetColored(sx, sy, ' ', c)
		dst.SetColored(sx+1, sy, r, c)
		return
	}
	dst.SetColored(sx, sy, r, c)
	dst.SetColored(sx+1, sy, r, c)
}

func (g *Game) renderHUD(dst *core.Screen, x, y int) {
	hud := g.overlay.HUD()
	status := hud.Mission

	dst.DrawTextColor(x, y, strings.ToUpper(g.Title()), core.ColorBrightCyan)
	dst.DrawTextColor(x, y+2, fmt.Sprintf("SCORE     %d", hud.Score), core.ColorBrightWhite)
	dst.DrawTextColor(x, y+3, fmt.Sprintf("MISSIONS  %d", status.Completed), core.ColorWhite)

	dst.DrawTextColor(x, y+5, fmt.Sprintf("MISSION · %s", status.Mission.Tier), core.ColorBrightYellow)
	dst.DrawTextColor(x, y+6, truncate(status.Mission.Desc, hudW), core.ColorWhite)
	dst.DrawTextColor(x, y+7, progressBar(status.Progress, status.Mission.Target, 16)+" "+status.ProgressText(), core.ColorBrightGreen)

	dst.DrawTextColor(x, y+9, "NEXT", core.ColorGray)
	for i, def := range g.ctrl.Queue(g.cfg.Queue.Preview) {
		drawMini(dst, x+i*6, y+10, def)
	}

	dst.DrawTextColor(x, y+16, "HOLD", core.ColorGray)
	if held := g.ctrl.Held(); held != nil {
		drawMini(dst, x, y+17, held)
	}
	if g.ctrl.Live() && !g.ctrl.Active().CanHold {
		dst.DrawTextColor(x+6, y+19, "(used)", core.ColorGray)
	}
}

// drawMini draws a piece at one terminal cell per block, trimmed to its bounds.
func drawMini(dst *core.Screen, x, y int, def *piece.Definition) {
	shape := def.Shape(0)
	minX, minY, _, _, ok := shape.Bounds()
	if !ok {
		return
	}
	for _, off := range shape.Cells() {
		dst.SetColored(x+off.DX-minX, y+off.DY-minY, blockGlyph, def.Color)
	}
}

func (g *Game) renderOverlay(dst *core.Screen, ox, oy int) {
	var lines []string
	color := core.ColorBrightWhite

	switch g.overlay.Screen() {
	case ScreenStart:
		lines = []string{
			g.Title(),
			"",
			"ENTER to start",
			"",
			"←/→ move   ↓ soft drop",
			"↑/x rotate  z ccw",
			"space hard drop",
			"c hold    p pause",
		}
		color = core.ColorBrightCyan
	case ScreenPause:
		lines = []string{"PAUSED", "", "P to resume"}
		color = core.ColorBrightYellow
	case ScreenGameOver:
		lines = []string{
			"GAME OVER",
			"",
			fmt.Sprintf("Score %d", g.score),
			fmt.Sprintf("Missions %d", g.stats.MissionsCompleted),
			"",
			"R restart  Q quit",
		}
		color = core.ColorBrightRed
	case ScreenMission:
		if banner := g.overlay.Banner(); banner != "" {
			lines = []string{banner}
			color = core.ColorBrightGreen
		}
	}
	if len(lines) == 0 {
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w = min(w+4, boardW-2)
	h := len(lines) + 2
	box := core.NewRect(ox+(boardW-w)/2, oy+(boardH-h)/2, w, h)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, color)
	inner := box.Inset(1)
	for i, l := range lines {
		lx := inner.X + (inner.W-len([]rune(l)))/2
		dst.DrawTextColor(lx, inner.Y+i, l, color)
	}
}

func progressBar(progress, target, width int) string {
	if target <= 0 {
		return "[" + strings.Repeat("-", width) + "]"
	}
	filled := core.Clamp(progress*width/target, 0, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
