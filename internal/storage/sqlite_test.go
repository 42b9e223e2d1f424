package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/nimbus-block/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	// Reopening runs migrations again without error
	store.Close()
	again, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	again.Close()
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("nimbus", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("nimbus_endless", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("nimbus", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	endless, err := store.TopScores("nimbus_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("nimbus")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected 0 for empty table, got %d", high)
	}

	store.SaveScore("nimbus", 700)
	store.SaveScore("nimbus", 2100)
	high, _ = store.HighScore("nimbus")
	if high != 2100 {
		t.Errorf("Expected high score 2100, got %d", high)
	}
}

func sampleStats(mode string, missions int) core.RunStats {
	return core.RunStats{
		Mode:              mode,
		MissionsCompleted: missions,
		BlocksCleared:     42,
		SegmentsCleared:   3,
		PiecesLocked:      60,
		Duration:          95*time.Second + 1234567*time.Nanosecond,
	}
}

func TestSaveRun(t *testing.T) {
	store := openTestStore(t)

	run, err := store.SaveRun(sampleStats("nimbus", 4), 2100, "alice")
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("run id %q is not a UUID: %v", run.ID, err)
	}

	got, err := store.RunByID(run.ID)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("run not found")
	}
	if got.Mode != "nimbus" || got.Player != "alice" || got.Score != 2100 {
		t.Errorf("unexpected run: %+v", got)
	}
	if got.MissionsCompleted != 4 || got.BlocksCleared != 42 || got.SegmentsCleared != 3 || got.PiecesLocked != 60 {
		t.Errorf("stats not persisted: %+v", got)
	}
	if got.Duration != 95001*time.Millisecond {
		t.Errorf("Duration = %v, want 1m35.001s", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	// The run also lands on the score board.
	high, _ := store.HighScore("nimbus")
	if high != 2100 {
		t.Errorf("HighScore = %d, want 2100", high)
	}
}

func TestSaveRunRejectsEmptyMode(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(core.RunStats{}, 10, ""); err == nil {
		t.Error("expected error for empty mode")
	}
}

func TestRunByIDMissing(t *testing.T) {
	store := openTestStore(t)
	got, err := store.RunByID(uuid.NewString())
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestTopAndRecentRuns(t *testing.T) {
	store := openTestStore(t)

	scores := []int{300, 900, 600}
	for i, s := range scores {
		if _, err := store.SaveRun(sampleStats("nimbus", i), s, ""); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(sampleStats("nimbus_endless", 0), 5000, ""); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	top, err := store.TopRuns("nimbus", 2)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 2 || top[0].Score != 900 || top[1].Score != 600 {
		t.Errorf("unexpected top runs: %+v", top)
	}

	recent, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("Expected 4 recent runs, got %d", len(recent))
	}
	if recent[0].Mode != "nimbus_endless" {
		t.Errorf("most recent run = %+v, want the endless run", recent[0])
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(sampleStats("nimbus", 1), 100, "")
	store.SaveRun(sampleStats("nimbus_endless", 1), 200, "")

	if err := store.ClearScores("nimbus"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if runs, _ := store.TopRuns("nimbus", 10); len(runs) != 0 {
		t.Errorf("Expected no runs after clear, got %d", len(runs))
	}
	if scores, _ := store.TopScores("nimbus", 10); len(scores) != 0 {
		t.Errorf("Expected no scores after clear, got %d", len(scores))
	}
	if runs, _ := store.TopRuns("nimbus_endless", 10); len(runs) != 1 {
		t.Error("other modes should be untouched")
	}
}

func TestGetGameStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(sampleStats("nimbus", 2), 100, "")
	store.SaveRun(sampleStats("nimbus", 7), 300, "")

	stats, err := store.GetGameStats("nimbus")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.BestMissions != 7 {
		t.Errorf("BestMissions = %d, want 7", stats.BestMissions)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not parsed")
	}

	empty, err := store.GetGameStats("unknown")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for unknown game: %+v", empty)
	}
}

func TestParseTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want time.Time
	}{
		{"time value", now, now},
		{"sqlite text", "2026-03-01 12:30:00", now},
		{"rfc3339", "2026-03-01T12:30:00Z", now},
		{"garbage", "yesterday", time.Time{}},
		{"nil", nil, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTime(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
