package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestRun creates a successful run with minimal required fields.
func createTestRun(id string, minute int) Run {
	return Run{
		ID:        id,
		StartedAt: testEpoch.Add(time.Duration(minute) * time.Minute),
		SQL:       "SELECT name FROM people.csv",
		QueryHash: "hash-" + id,
		BaseDir:   "/data",
		Status:    StatusOK,
		Rows:      2,
		Digest:    "digest-" + id,
	}
}
