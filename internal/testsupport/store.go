package testsupport

import (
	"context"
	"testing"
	"time"

	"dubsync/internal/config"
	"dubsync/internal/history"
)

// MustOpenStore opens a history.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordRun inserts a finished run for tests using the provided store.
func RecordRun(t testing.TB, store *history.Store, id, status string, started time.Time) history.Run {
	t.Helper()

	finished := started.Add(time.Minute)
	run := history.Run{
		ID:         id,
		Kind:       history.KindMerge,
		Video:      "/videos/" + id + ".mp4",
		Output:     "/out/" + id + ".mp4",
		Strategy:   "frame_blend",
		Status:     status,
		Chunks:     3,
		StartedAt:  started,
		FinishedAt: &finished,
	}
	if err := store.Record(context.Background(), run); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return run
}
