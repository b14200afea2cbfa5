// ABOUTME: Organization repository over SQLite
// ABOUTME: CRUD plus search; upsert-by-ID save
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, industry, logo_ref, notes, created_at, updated_at`

func scanOrganization(scan func(dest ...any) error) (*models.Organization, error) {
	var (
		org      models.Organization
		industry sql.NullString
		logoRef  sql.NullString
		notes    sql.NullString
	)
	err := scan(&org.ID, &org.Name, &industry, &logoRef, &notes, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	org.Industry = industry.String
	org.LogoRef = logoRef.String
	org.Notes = notes.String
	return &org, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)
	org, err := scanOrganization(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return org, err
}

func (r *OrganizationRepository) FindAll(ctx context.Context) ([]models.Organization, error) {
	return r.query(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY updated_at DESC`)
}

func (r *OrganizationRepository) Search(ctx context.Context, query string) ([]models.Organization, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.query(ctx, `
		SELECT `+organizationColumns+` FROM organizations
		WHERE LOWER(name) LIKE ? OR LOWER(industry) LIKE ? OR LOWER(COALESCE(notes, '')) LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern, pattern)
}

func (r *OrganizationRepository) Save(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, industry, logo_ref, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			logo_ref = excluded.logo_ref,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, org.ID, org.Name, org.Industry, org.LogoRef, org.Notes, org.CreatedAt, org.UpdatedAt)

	return wrapConstraint(err)
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	return wrapConstraint(err)
}

func (r *OrganizationRepository) query(ctx context.Context, query string, args ...any) ([]models.Organization, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows.Scan)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *org)
	}
	return orgs, rows.Err()
}
