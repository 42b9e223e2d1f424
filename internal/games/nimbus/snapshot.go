package nimbus

import "github.com/vovakirdan/nimbus-block/internal/games/nimbus/board"

// Snapshot contains the observable game state for tests, replays and
// external renderers. Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick  int    `json:"tick"`
	State string `json:"state"`
	Score int    `json:"score"`

	// Active piece (empty PieceID when none)
	PieceID   string  `json:"piece_id,omitempty"`
	Rotation  int     `json:"rotation"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	RenderX   float64 `json:"render_x"`
	RenderY   float64 `json:"render_y"`
	DidRotate bool    `json:"did_rotate"`
	CanHold   bool    `json:"can_hold"`

	Queue []string `json:"queue"`
	Hold  string   `json:"hold,omitempty"`

	MissionID        string `json:"mission_id"`
	MissionProgress  int    `json:"mission_progress"`
	MissionsComplete int    `json:"missions_complete"`
	Combo            int    `json:"combo"`

	// Board cells row-major; "" for empty, otherwise the shape id.
	Cells []string `json:"cells"`
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:             g.ticks,
		State:            g.state.String(),
		Score:            g.score,
		RenderX:          g.renderX,
		RenderY:          g.renderY,
		MissionID:        g.missions.Active().ID,
		MissionProgress:  g.missions.Progress(),
		MissionsComplete: g.missions.Completed(),
		Combo:            g.missions.Combo(),
		Cells:            make([]string, 0, board.Rows*board.Cols),
	}

	if g.ctrl.Live() {
		a := g.ctrl.Active()
		s.PieceID = a.Def.ID
		s.Rotation = a.Rot
		s.X, s.Y = a.X, a.Y
		s.DidRotate = a.DidRotate
		s.CanHold = a.CanHold
	}
	for _, def := range g.ctrl.Queue(QueueMin) {
		s.Queue = append(s.Queue, def.ID)
	}
	if held := g.ctrl.Held(); held != nil {
		s.Hold = held.ID
	}

	for y, yEnd := 0, board.Rows; y < yEnd; y++ {
		for x, xEnd := 0, board.Cols; x < xEnd; x++ {
			s.Cells = append(s.Cells, g.board.At(x, y).ShapeID())
		}
	}
	return s
}
