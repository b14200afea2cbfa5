// ABOUTME: Protemoi (relationship-nurturing) repository over SQLite
// ABOUTME: One entry per contact, enforced by a uniqueness constraint
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type ProtemoiRepository struct {
	db *sql.DB
}

func NewProtemoiRepository(db *sql.DB) *ProtemoiRepository {
	return &ProtemoiRepository{db: db}
}

const protemoiColumns = `id, contact_id, organization_id, relationship_type, stage, next_step, due_date, last_touch_at, next_touch_at, importance, is_internal, created_at, updated_at`

func scanProtemoi(scan func(dest ...any) error) (*models.ProtemoiEntry, error) {
	var (
		e          models.ProtemoiEntry
		orgID      sql.NullString
		dueDate    sql.NullTime
		lastTouch  sql.NullTime
		nextTouch  sql.NullTime
		importance sql.NullInt64
		internal   int
	)
	err := scan(&e.ID, &e.ContactID, &orgID, &e.RelationshipType, &e.Stage, &e.NextStep,
		&dueDate, &lastTouch, &nextTouch, &importance, &internal, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.OrganizationID = strPtr(orgID)
	e.DueDate = timePtr(dueDate)
	e.LastTouchAt = timePtr(lastTouch)
	e.NextTouchAt = timePtr(nextTouch)
	e.Importance = intPtr(importance)
	e.Internal = internal != 0
	return &e, nil
}

func (r *ProtemoiRepository) FindByID(ctx context.Context, id string) (*models.ProtemoiEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+protemoiColumns+` FROM protemoi_entries WHERE id = ?`, id)
	e, err := scanProtemoi(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *ProtemoiRepository) FindByContactID(ctx context.Context, contactID string) (*models.ProtemoiEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+protemoiColumns+` FROM protemoi_entries WHERE contact_id = ?`, contactID)
	e, err := scanProtemoi(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *ProtemoiRepository) FindAll(ctx context.Context) ([]models.ProtemoiEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+protemoiColumns+` FROM protemoi_entries ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ProtemoiEntry
	for rows.Next() {
		e, err := scanProtemoi(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *ProtemoiRepository) Save(ctx context.Context, e *models.ProtemoiEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	// A second entry for an already-tracked contact trips the UNIQUE
	// constraint on contact_id and surfaces as store.ErrConstraint.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO protemoi_entries (id, contact_id, organization_id, relationship_type, stage, next_step,
			due_date, last_touch_at, next_touch_at, importance, is_internal, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contact_id = excluded.contact_id,
			organization_id = excluded.organization_id,
			relationship_type = excluded.relationship_type,
			stage = excluded.stage,
			next_step = excluded.next_step,
			due_date = excluded.due_date,
			last_touch_at = excluded.last_touch_at,
			next_touch_at = excluded.next_touch_at,
			importance = excluded.importance,
			is_internal = excluded.is_internal,
			updated_at = excluded.updated_at
	`, e.ID, e.ContactID, nullStr(e.OrganizationID), string(e.RelationshipType), string(e.Stage), e.NextStep,
		nullTime(e.DueDate), nullTime(e.LastTouchAt), nullTime(e.NextTouchAt), nullInt(e.Importance),
		boolToInt(e.Internal), e.CreatedAt, e.UpdatedAt)

	return wrapConstraint(err)
}

func (r *ProtemoiRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM protemoi_entries WHERE id = ?`, id)
	return wrapConstraint(err)
}
