package testutil

import (
	"context"
	"testing"

	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedTasks inserts tasks into s, failing the test on the first error.
func SeedTasks(t *testing.T, s store.TaskStore, tasks ...model.Task) {
	t.Helper()

	for _, task := range tasks {
		if err := s.CreateTask(context.Background(), task); err != nil {
			t.Fatalf("seeding task %s: %v", task.ID, err)
		}
	}
}
