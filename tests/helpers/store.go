// Package helpers provides shared test constructors.
package helpers

import (
	"testing"

	"github.com/medbot/intake/store"
)

// NewTestStore returns a fresh in-memory store.
func NewTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return store.NewMemoryStore()
}

// NewTestSQLiteStore returns a SQLite store backed by ":memory:".
func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
