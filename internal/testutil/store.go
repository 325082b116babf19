package testutil

import (
	"testing"

	"rawmatch/internal/match"
	"rawmatch/internal/store"
)

// NewTestStore creates an in-memory SQLite index store with schema applied.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) match.IndexStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}
