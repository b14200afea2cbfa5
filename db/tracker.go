// ABOUTME: Tracker goal repository over SQLite
// ABOUTME: One row per metric; upsert conflicts on metric name, not ID
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type TrackerRepository struct {
	db *sql.DB
}

func NewTrackerRepository(db *sql.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

const trackerColumns = `id, metric, target, created_at, updated_at`

func scanTrackerGoal(scan func(dest ...any) error) (*models.TrackerGoal, error) {
	var g models.TrackerGoal
	err := scan(&g.ID, &g.Metric, &g.Target, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *TrackerRepository) FindByMetric(ctx context.Context, metric models.TrackerMetric) (*models.TrackerGoal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+trackerColumns+` FROM tracker_goals WHERE metric = ?`, string(metric))
	g, err := scanTrackerGoal(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *TrackerRepository) FindAll(ctx context.Context) ([]models.TrackerGoal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+trackerColumns+` FROM tracker_goals ORDER BY metric`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.TrackerGoal
	for rows.Next() {
		g, err := scanTrackerGoal(rows.Scan)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Upsert conflicts on the metric name: setting a goal for an existing
// metric overwrites its target in place.
func (r *TrackerRepository) Upsert(ctx context.Context, g *models.TrackerGoal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracker_goals (id, metric, target, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(metric) DO UPDATE SET
			target = excluded.target,
			updated_at = excluded.updated_at
	`, g.ID, string(g.Metric), g.Target, g.CreatedAt, g.UpdatedAt)

	return wrapConstraint(err)
}

func (r *TrackerRepository) Delete(ctx context.Context, metric models.TrackerMetric) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tracker_goals WHERE metric = ?`, string(metric))
	return wrapConstraint(err)
}
