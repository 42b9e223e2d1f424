package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/vovakirdan/nimbus-block/internal/registry"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

// ModeBoard is one table on the leaderboard page.
type ModeBoard struct {
	Mode  registry.GameInfo
	Runs  []storage.Run
	Error bool
}

const pageStyle = `body{font-family:ui-monospace,monospace;background:#111827;color:#e5e7eb;margin:2rem}
h1{color:#fcd34d;letter-spacing:.3em}h2{color:#93c5fd}
table{border-collapse:collapse;margin-bottom:2rem}
th,td{padding:.3rem .9rem;text-align:right}th{border-bottom:1px solid #4b5563}
td.player{text-align:left}.empty{color:#6b7280;font-style:italic}`

// LeaderboardPage renders the best runs of every mode.
func LeaderboardPage(boards []ModeBoard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<title>Nimbus Block - Leaderboard</title><style>")
		b.WriteString(pageStyle)
		b.WriteString("</style></head><body><h1>NIMBUS BLOCK</h1>")
		for _, board := range boards {
			writeBoard(&b, board)
		}
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeBoard(b *strings.Builder, board ModeBoard) {
	fmt.Fprintf(b, "<section id=\"%s\"><h2>%s</h2>",
		templ.EscapeString(board.Mode.ID), templ.EscapeString(board.Mode.Title))

	switch {
	case board.Error:
		b.WriteString("<p class=\"empty\">Scores are unavailable right now.</p></section>")
		return
	case len(board.Runs) == 0:
		b.WriteString("<p class=\"empty\">No runs recorded yet.</p></section>")
		return
	}

	b.WriteString("<table><thead><tr><th>#</th><th>Score</th><th>Missions</th>")
	b.WriteString("<th>Blocks</th><th>Time</th><th>Player</th><th>Date</th></tr></thead><tbody>")
	for i, r := range board.Runs {
		secs := int(r.Duration.Seconds())
		fmt.Fprintf(b, "<tr><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d:%02d</td><td class=\"player\">%s</td><td>%s</td></tr>",
			i+1, r.Score, r.MissionsCompleted, r.BlocksCleared, secs/60, secs%60,
			templ.EscapeString(r.Player), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("</tbody></table></section>")
}

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	modes := registry.List()
	boards := make([]ModeBoard, 0, len(modes))
	for _, m := range modes {
		runs, err := s.store.TopRuns(m.ID, defaultLimit)
		if err != nil {
			s.log.Error("store query failed", "query", "top runs", "mode", m.ID, "error", err)
		}
		boards = append(boards, ModeBoard{Mode: m, Runs: runs, Error: err != nil})
	}
	render(w, r, LeaderboardPage(boards))
}
