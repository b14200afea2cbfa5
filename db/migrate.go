// ABOUTME: Forward-only idempotent schema migrations
// ABOUTME: Ordered named steps; additive column patches guarded by PRAGMA checks
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// A step is one named, idempotent migration. Steps run in order on
// every startup; apply must be safe to re-run against a store that
// already satisfies it.
type step struct {
	name  string
	apply func(ctx context.Context, db *sql.DB) error
}

// exec wraps a statement that is idempotent on its own, such as
// CREATE TABLE IF NOT EXISTS.
func exec(stmt string) func(ctx context.Context, db *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	}
}

// addColumn adds a column only when it does not exist yet. An
// already-present column is the converged state, not an error;
// anything else surfaces.
func addColumn(table, column, decl string) func(ctx context.Context, db *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		exists, err := columnExists(ctx, db, table, column)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		_, err = db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
		return err
	}
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrations is the ordered step list. Column patches for a table must
// come after that table's creation step. Append only; never reorder or
// rewrite shipped steps.
var migrations = []step{
	{"create organizations", exec(`
		CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			industry TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index organizations name", exec(`CREATE INDEX IF NOT EXISTS idx_organizations_name ON organizations(name)`)},

	{"create contacts", exec(`
		CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			organization_id TEXT REFERENCES organizations(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			title TEXT,
			email TEXT,
			phone TEXT,
			thinking_preference TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index contacts organization", exec(`CREATE INDEX IF NOT EXISTS idx_contacts_organization_id ON contacts(organization_id)`)},

	{"create protemoi_entries", exec(`
		CREATE TABLE IF NOT EXISTS protemoi_entries (
			id TEXT PRIMARY KEY,
			contact_id TEXT NOT NULL UNIQUE REFERENCES contacts(id) ON DELETE CASCADE,
			organization_id TEXT REFERENCES organizations(id) ON DELETE SET NULL,
			relationship_type TEXT NOT NULL,
			stage TEXT NOT NULL,
			next_step TEXT NOT NULL DEFAULT '',
			due_date DATETIME,
			last_touch_at DATETIME,
			next_touch_at DATETIME,
			importance INTEGER,
			is_internal INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},

	{"create opportunities", exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			organization_id TEXT REFERENCES organizations(id) ON DELETE SET NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'OPEN',
			next_step TEXT NOT NULL DEFAULT '',
			value_cents INTEGER,
			currency TEXT NOT NULL DEFAULT 'USD',
			probability INTEGER,
			sponsor TEXT,
			expected_close DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index opportunities stage", exec(`CREATE INDEX IF NOT EXISTS idx_opportunities_stage ON opportunities(stage)`)},
	{"index opportunities organization", exec(`CREATE INDEX IF NOT EXISTS idx_opportunities_organization_id ON opportunities(organization_id)`)},

	{"create meetings", exec(`
		CREATE TABLE IF NOT EXISTS meetings (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			start_time DATETIME,
			end_time DATETIME,
			location TEXT,
			status TEXT NOT NULL DEFAULT 'SCHEDULED',
			organization_id TEXT REFERENCES organizations(id) ON DELETE SET NULL,
			opportunity_id TEXT REFERENCES opportunities(id) ON DELETE SET NULL,
			protemoi_id TEXT REFERENCES protemoi_entries(id) ON DELETE SET NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index meetings start", exec(`CREATE INDEX IF NOT EXISTS idx_meetings_start_time ON meetings(start_time)`)},

	{"create meeting_attendees", exec(`
		CREATE TABLE IF NOT EXISTS meeting_attendees (
			id TEXT PRIMARY KEY,
			meeting_id TEXT NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
			contact_id TEXT REFERENCES contacts(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			thinking_preference TEXT,
			buy_in_role TEXT,
			role TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index meeting_attendees meeting", exec(`CREATE INDEX IF NOT EXISTS idx_meeting_attendees_meeting_id ON meeting_attendees(meeting_id)`)},

	{"create week_reviews", exec(`
		CREATE TABLE IF NOT EXISTS week_reviews (
			id TEXT PRIMARY KEY,
			week_start DATETIME NOT NULL,
			week_end DATETIME NOT NULL,
			reflection TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},

	{"create tasks", exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'TODO',
			task_type TEXT NOT NULL DEFAULT 'NEXT_STEP',
			due_date DATETIME,
			week_review_id TEXT REFERENCES week_reviews(id) ON DELETE SET NULL,
			big_impact TEXT,
			in_control TEXT,
			growth_oriented TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},
	{"index tasks status", exec(`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`)},

	{"create task_links", exec(`
		CREATE TABLE IF NOT EXISTS task_links (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`)},
	{"index task_links task", exec(`CREATE INDEX IF NOT EXISTS idx_task_links_task_id ON task_links(task_id)`)},
	{"index task_links entity", exec(`CREATE INDEX IF NOT EXISTS idx_task_links_entity ON task_links(entity_type, entity_id)`)},

	{"create tracker_goals", exec(`
		CREATE TABLE IF NOT EXISTS tracker_goals (
			id TEXT PRIMARY KEY,
			metric TEXT NOT NULL UNIQUE,
			target REAL NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)},

	{"create sync_state", exec(`
		CREATE TABLE IF NOT EXISTS sync_state (
			service TEXT PRIMARY KEY,
			last_sync_time DATETIME,
			last_sync_token TEXT,
			status TEXT,
			error_message TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)},
	{"create sync_log", exec(`
		CREATE TABLE IF NOT EXISTS sync_log (
			id TEXT PRIMARY KEY,
			source_service TEXT NOT NULL,
			source_id TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(source_service, source_id)
		)`)},

	// Additive patches. Each ran against databases created before the
	// column existed; the guard makes them no-ops everywhere else.
	{"organizations add logo_ref", addColumn("organizations", "logo_ref", "TEXT")},
	{"contacts add buy_in_role", addColumn("contacts", "buy_in_role", "TEXT")},
	{"opportunities add obstacle", addColumn("opportunities", "obstacle", "TEXT")},
	{"tasks add tag", addColumn("tasks", "tag", "TEXT")},
	{"tasks add actual_minutes", addColumn("tasks", "actual_minutes", "INTEGER")},
}

// Migrate converges the schema by running every step in order. Steps
// already satisfied do nothing; a genuinely failing step reports which
// one broke.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, s := range migrations {
		if err := s.apply(ctx, db); err != nil {
			return fmt.Errorf("migration %q: %w", s.name, err)
		}
	}
	return nil
}
