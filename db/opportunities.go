// ABOUTME: Opportunity repository over SQLite
// ABOUTME: CRUD, search, and stage/organization filters
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type OpportunityRepository struct {
	db *sql.DB
}

func NewOpportunityRepository(db *sql.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

const opportunityColumns = `id, name, organization_id, stage, status, next_step, value_cents, currency, probability, sponsor, obstacle, expected_close, created_at, updated_at`

func scanOpportunity(scan func(dest ...any) error) (*models.Opportunity, error) {
	var (
		o           models.Opportunity
		orgID       sql.NullString
		valueCents  sql.NullInt64
		probability sql.NullInt64
		sponsor     sql.NullString
		obstacle    sql.NullString
		expClose    sql.NullTime
	)
	err := scan(&o.ID, &o.Name, &orgID, &o.Stage, &o.Status, &o.NextStep,
		&valueCents, &o.Currency, &probability, &sponsor, &obstacle, &expClose,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.OrganizationID = strPtr(orgID)
	o.ValueCents = int64Ptr(valueCents)
	o.Probability = intPtr(probability)
	o.Sponsor = sponsor.String
	o.Obstacle = obstacle.String
	o.ExpectedClose = timePtr(expClose)
	return &o, nil
}

func (r *OpportunityRepository) FindByID(ctx context.Context, id string) (*models.Opportunity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = ?`, id)
	o, err := scanOpportunity(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *OpportunityRepository) FindAll(ctx context.Context) ([]models.Opportunity, error) {
	return r.query(ctx, `SELECT `+opportunityColumns+` FROM opportunities ORDER BY updated_at DESC`)
}

func (r *OpportunityRepository) Search(ctx context.Context, query string) ([]models.Opportunity, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.query(ctx, `
		SELECT `+opportunityColumns+` FROM opportunities
		WHERE LOWER(name) LIKE ? OR LOWER(next_step) LIKE ? OR LOWER(COALESCE(sponsor, '')) LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern, pattern)
}

func (r *OpportunityRepository) FindByOrganizationID(ctx context.Context, orgID string) ([]models.Opportunity, error) {
	return r.query(ctx, `
		SELECT `+opportunityColumns+` FROM opportunities
		WHERE organization_id = ?
		ORDER BY updated_at DESC
	`, orgID)
}

func (r *OpportunityRepository) FindAllByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error) {
	return r.query(ctx, `
		SELECT `+opportunityColumns+` FROM opportunities
		WHERE stage = ?
		ORDER BY updated_at DESC
	`, string(stage))
}

func (r *OpportunityRepository) Save(ctx context.Context, o *models.Opportunity) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.StatusOpen
	}
	if o.Currency == "" {
		o.Currency = models.CurrencyUSD
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO opportunities (id, name, organization_id, stage, status, next_step,
			value_cents, currency, probability, sponsor, obstacle, expected_close, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			organization_id = excluded.organization_id,
			stage = excluded.stage,
			status = excluded.status,
			next_step = excluded.next_step,
			value_cents = excluded.value_cents,
			currency = excluded.currency,
			probability = excluded.probability,
			sponsor = excluded.sponsor,
			obstacle = excluded.obstacle,
			expected_close = excluded.expected_close,
			updated_at = excluded.updated_at
	`, o.ID, o.Name, nullStr(o.OrganizationID), string(o.Stage), string(o.Status), o.NextStep,
		nullInt64(o.ValueCents), string(o.Currency), nullInt(o.Probability), o.Sponsor, o.Obstacle,
		nullTime(o.ExpectedClose), o.CreatedAt, o.UpdatedAt)

	return wrapConstraint(err)
}

func (r *OpportunityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = ?`, id)
	return wrapConstraint(err)
}

func (r *OpportunityRepository) query(ctx context.Context, query string, args ...any) ([]models.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opps []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *o)
	}
	return opps, rows.Err()
}
