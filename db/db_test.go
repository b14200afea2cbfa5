// ABOUTME: Tests for database open, WAL mode, and store wiring
// ABOUTME: Provides the shared setupTestStores helper
package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gsteen1788/bd-os-sub000/store"
)

func setupTestStores(t *testing.T) *store.Stores {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	stores, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 11 {
		t.Errorf("Expected at least 11 tables, got %d", count)
	}

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	_, err := OpenDatabase("/proc/invalid/nonexistent/test.db")
	if err == nil {
		t.Error("Expected error for invalid path, but OpenDatabase succeeded")
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "test.db")

	stores, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer stores.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
