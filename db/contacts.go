// ABOUTME: Contact repository over SQLite
// ABOUTME: CRUD, search, and organization fan-out lookups
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `id, organization_id, name, title, email, phone, thinking_preference, buy_in_role, notes, created_at, updated_at`

func scanContact(scan func(dest ...any) error) (*models.Contact, error) {
	var (
		c       models.Contact
		orgID   sql.NullString
		title   sql.NullString
		email   sql.NullString
		phone   sql.NullString
		thinkPr sql.NullString
		buyIn   sql.NullString
		notes   sql.NullString
	)
	err := scan(&c.ID, &orgID, &c.Name, &title, &email, &phone, &thinkPr, &buyIn, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.OrganizationID = strPtr(orgID)
	c.Title = title.String
	c.Email = email.String
	c.Phone = phone.String
	c.Notes = notes.String
	if thinkPr.Valid {
		v := models.ThinkingPreference(thinkPr.String)
		c.ThinkingPreference = &v
	}
	if buyIn.Valid {
		v := models.BuyInRole(buyIn.String)
		c.BuyInRole = &v
	}
	return &c, nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *ContactRepository) FindAll(ctx context.Context) ([]models.Contact, error) {
	return r.query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY updated_at DESC`)
}

func (r *ContactRepository) Search(ctx context.Context, query string) ([]models.Contact, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(title, '')) LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern, pattern)
}

func (r *ContactRepository) FindByOrganizationID(ctx context.Context, orgID string) ([]models.Contact, error) {
	return r.query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE organization_id = ?
		ORDER BY updated_at DESC
	`, orgID)
}

func (r *ContactRepository) Save(ctx context.Context, c *models.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	var thinkPr, buyIn sql.NullString
	if c.ThinkingPreference != nil {
		thinkPr = sql.NullString{String: string(*c.ThinkingPreference), Valid: true}
	}
	if c.BuyInRole != nil {
		buyIn = sql.NullString{String: string(*c.BuyInRole), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, organization_id, name, title, email, phone, thinking_preference, buy_in_role, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			name = excluded.name,
			title = excluded.title,
			email = excluded.email,
			phone = excluded.phone,
			thinking_preference = excluded.thinking_preference,
			buy_in_role = excluded.buy_in_role,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, c.ID, nullStr(c.OrganizationID), c.Name, c.Title, c.Email, c.Phone, thinkPr, buyIn, c.Notes, c.CreatedAt, c.UpdatedAt)

	return wrapConstraint(err)
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	return wrapConstraint(err)
}

func (r *ContactRepository) query(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}
