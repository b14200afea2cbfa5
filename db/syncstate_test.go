// ABOUTME: Tests for sync state and import-log persistence
package db

import (
	"context"
	"testing"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestSyncStateStatusLifecycle(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	missing, err := stores.SyncState.Get(ctx, "calendar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil before any sync state exists")
	}

	if err := stores.SyncState.SetStatus(ctx, "calendar", models.SyncStatusSyncing, nil); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	state, err := stores.SyncState.Get(ctx, "calendar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if state == nil || state.Status != models.SyncStatusSyncing {
		t.Fatalf("Unexpected state: %+v", state)
	}

	msg := "token expired"
	if err := stores.SyncState.SetStatus(ctx, "calendar", models.SyncStatusError, &msg); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	state, err = stores.SyncState.Get(ctx, "calendar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if state.Status != models.SyncStatusError {
		t.Errorf("Expected error status, got %s", state.Status)
	}
	if state.ErrorMessage == nil || *state.ErrorMessage != "token expired" {
		t.Error("Error message did not persist")
	}
}

func TestSyncStateSetTokenClearsError(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	msg := "boom"
	if err := stores.SyncState.SetStatus(ctx, "calendar", models.SyncStatusError, &msg); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	if err := stores.SyncState.SetToken(ctx, "calendar", "sync-token-123"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	state, err := stores.SyncState.Get(ctx, "calendar")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if state.Status != models.SyncStatusIdle {
		t.Errorf("Expected idle status after token update, got %s", state.Status)
	}
	if state.LastSyncToken == nil || *state.LastSyncToken != "sync-token-123" {
		t.Error("Sync token did not persist")
	}
	if state.ErrorMessage != nil {
		t.Errorf("Error message should be cleared, got %q", *state.ErrorMessage)
	}
	if state.LastSyncTime == nil {
		t.Error("LastSyncTime should be set by SetToken")
	}
}

func TestSyncStateImportLog(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	exists, err := stores.SyncState.ImportExists(ctx, "calendar", "event-1")
	if err != nil {
		t.Fatalf("ImportExists failed: %v", err)
	}
	if exists {
		t.Error("Import should not exist before logging")
	}

	if err := stores.SyncState.LogImport(ctx, "import-1", "calendar", "event-1", "meeting", "meeting-1"); err != nil {
		t.Fatalf("LogImport failed: %v", err)
	}

	exists, err = stores.SyncState.ImportExists(ctx, "calendar", "event-1")
	if err != nil {
		t.Fatalf("ImportExists failed: %v", err)
	}
	if !exists {
		t.Error("Import should exist after logging")
	}

	// Same source ID for a different service is distinct.
	exists, err = stores.SyncState.ImportExists(ctx, "email", "event-1")
	if err != nil {
		t.Fatalf("ImportExists failed: %v", err)
	}
	if exists {
		t.Error("Import for a different service should not exist")
	}
}
