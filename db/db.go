// ABOUTME: Database connection management and store construction
// ABOUTME: Opens WAL-mode SQLite with foreign keys on and runs migrations
package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gsteen1788/bd-os-sub000/store"
)

// OpenDatabase opens the SQLite database at path, creating parent
// directories as needed, and converges the schema.
func OpenDatabase(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// Single connection avoids database-locked errors under SQLite.
	db.SetMaxOpenConns(1)

	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// NewStores wires one repository per entity family over db.
func NewStores(db *sql.DB) *store.Stores {
	return &store.Stores{
		Organizations: NewOrganizationRepository(db),
		Contacts:      NewContactRepository(db),
		Opportunities: NewOpportunityRepository(db),
		Meetings:      NewMeetingRepository(db),
		Protemoi:      NewProtemoiRepository(db),
		Tasks:         NewTaskRepository(db),
		WeekReviews:   NewWeekReviewRepository(db),
		Tracker:       NewTrackerRepository(db),
		SyncState:     NewSyncStateRepository(db),
		Closer:        db.Close,
	}
}

// Open opens the database and returns the wired store aggregate.
func Open(path string) (*store.Stores, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStores(db), nil
}
