package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/nimbus-block/internal/games/nimbus/mission"
	"github.com/vovakirdan/nimbus-block/internal/registry"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

// List limits.
const (
	defaultLimit = 10
	maxLimit     = 100
)

func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/", s.leaderboard)
	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/modes", s.modes)
		r.Get("/scores/{mode}", s.scores)
		r.Get("/runs", s.recentRuns)
		r.Get("/runs/{id}", s.run)
		r.Get("/missions", s.missions)
	})
}

type scoreJSON struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type missionJSON struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Target int    `json:"target"`
	Desc   string `json:"desc"`
	Color  string `json:"color,omitempty"`
	Tier   string `json:"tier"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n")) //nolint:errcheck // Client gone
}

func (s *Server) modes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, registry.List())
}

func (s *Server) scores(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	if !registry.Exists(mode) {
		s.writeJSON(w, http.StatusNotFound, errorJSON{Error: "unknown mode " + strconv.Quote(mode)})
		return
	}

	entries, err := s.store.TopScores(mode, parseLimit(r))
	if err != nil {
		s.fail(w, "top scores", err)
		return
	}
	out := make([]scoreJSON, len(entries))
	for i, e := range entries {
		out[i] = scoreJSON{Rank: i + 1, Score: e.Score, CreatedAt: e.CreatedAt}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) recentRuns(w http.ResponseWriter, r *http.Request) {
	var (
		runs []storage.Run
		err  error
	)
	if mode := r.URL.Query().Get("mode"); mode != "" {
		runs, err = s.store.TopRuns(mode, parseLimit(r))
	} else {
		runs, err = s.store.RecentRuns(parseLimit(r))
	}
	if err != nil {
		s.fail(w, "runs", err)
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.store.RunByID(id)
	if err != nil {
		s.fail(w, "run", err)
		return
	}
	if run == nil {
		s.writeJSON(w, http.StatusNotFound, errorJSON{Error: "run not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) missions(w http.ResponseWriter, _ *http.Request) {
	all := mission.All()
	out := make([]missionJSON, len(all))
	for i, m := range all {
		out[i] = missionJSON{
			ID:     m.ID,
			Type:   string(m.Type),
			Target: m.Target,
			Desc:   m.Desc,
			Color:  m.Color,
			Tier:   m.Tier.String(),
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// parseLimit reads ?limit= clamped to [1, maxLimit].
func parseLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.log.Error("store query failed", "query", what, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response failed", "error", err)
	}
}
