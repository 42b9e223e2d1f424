package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/nimbus-block/internal/core"
	_ "github.com/vovakirdan/nimbus-block/internal/games/nimbus"
	"github.com/vovakirdan/nimbus-block/internal/storage"
)

type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) TopScores(string, int) ([]storage.ScoreEntry, error) { return nil, errBroken }
func (brokenStore) TopRuns(string, int) ([]storage.Run, error)          { return nil, errBroken }
func (brokenStore) RecentRuns(int) ([]storage.Run, error)               { return nil, errBroken }
func (brokenStore) RunByID(string) (*storage.Run, error)                { return nil, errBroken }

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store *storage.Store) storage.Run {
	t.Helper()
	var best storage.Run
	for i, score := range []int{700, 2100, 350} {
		run, err := store.SaveRun(core.RunStats{
			Mode:              "nimbus",
			MissionsCompleted: i,
			BlocksCleared:     14 * (i + 1),
			Duration:          time.Duration(i+1) * time.Minute,
		}, score, "<ada>")
		require.NoError(t, err)
		if score == 2100 {
			best = run
		}
	}
	return best
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := NewServer(newTestStore(t), DefaultConfig())
	rec := get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestScores(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	srv := NewServer(store, DefaultConfig())

	rec := get(t, srv.Handler(), "/api/scores/nimbus?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []scoreJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2100, got[0].Score)
	assert.Equal(t, 700, got[1].Score)
}

func TestScoresUnknownMode(t *testing.T) {
	srv := NewServer(newTestStore(t), DefaultConfig())
	rec := get(t, srv.Handler(), "/api/scores/tetris")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown mode")
}

func TestRuns(t *testing.T) {
	store := newTestStore(t)
	best := seed(t, store)
	srv := NewServer(store, DefaultConfig())

	rec := get(t, srv.Handler(), "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	var recent []storage.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	assert.Len(t, recent, 3)

	rec = get(t, srv.Handler(), "/api/runs?mode=nimbus&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var top []storage.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, best.ID, top[0].ID)

	rec = get(t, srv.Handler(), "/api/runs/"+best.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var one storage.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, 2100, one.Score)
	assert.Equal(t, 2*time.Minute, one.Duration)

	rec = get(t, srv.Handler(), "/api/runs/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunsEmptyIsArray(t *testing.T) {
	srv := NewServer(newTestStore(t), DefaultConfig())
	rec := get(t, srv.Handler(), "/api/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestMissions(t *testing.T) {
	srv := NewServer(newTestStore(t), DefaultConfig())
	rec := get(t, srv.Handler(), "/api/missions")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []missionJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 13)
	assert.Equal(t, "Easy", got[0].Tier)
	last := got[len(got)-1]
	assert.Equal(t, "endless", last.ID)
	assert.Equal(t, 10000, last.Target)
}

func TestModes(t *testing.T) {
	srv := NewServer(newTestStore(t), DefaultConfig())
	rec := get(t, srv.Handler(), "/api/modes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nimbus_endless")
}

func TestLeaderboardPage(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	srv := NewServer(store, DefaultConfig())

	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "NIMBUS BLOCK")
	assert.Contains(t, body, "<td>2100</td>")
	assert.Contains(t, body, "&lt;ada&gt;")
	assert.NotContains(t, body, "<ada>")
	assert.Contains(t, body, "No runs recorded yet.")
	assert.Less(t, strings.Index(body, "2100"), strings.Index(body, "<td>700</td>"))
}

func TestStoreFailures(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	srv := NewServer(brokenStore{}, cfg)
	srv.log.SetOutput(&logs)

	for _, path := range []string{"/api/scores/nimbus", "/api/runs", "/api/runs/abc"} {
		rec := get(t, srv.Handler(), path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
	}
	assert.Contains(t, logs.String(), "disk on fire")

	rec := get(t, srv.Handler(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", defaultLimit},
		{"limit=5", 5},
		{"limit=0", defaultLimit},
		{"limit=-3", defaultLimit},
		{"limit=abc", defaultLimit},
		{"limit=5000", maxLimit},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/runs?"+tt.query, nil)
		assert.Equal(t, tt.want, parseLimit(req), tt.query)
	}
}

func TestListenAndServeStops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := NewServer(newTestStore(t), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
