package db

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestOpenCreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "chat_cache.db")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := store.SaveMessage("gpt-3.5-turbo", "hello", "hi", 5); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	store.Close()

	// Reopening against the same file must not recreate tables or lose rows
	store, err = Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer store.Close()

	history, err := store.GetChatHistory(50)
	if err != nil {
		t.Fatalf("GetChatHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected 1 message after reopen, got %d", len(history))
	}
}

func TestGetStats(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveMessage("m", "q", "a", 1); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.MessageCount != 1 {
		t.Errorf("expected 1 message, got %d", stats.MessageCount)
	}
	if stats.AnalyticsCount != 0 {
		t.Errorf("expected 0 analytics samples, got %d", stats.AnalyticsCount)
	}
	if stats.DBSizeBytes <= 0 {
		t.Errorf("expected positive database size, got %d", stats.DBSizeBytes)
	}
}
