// ABOUTME: Week review repository over SQLite
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type WeekReviewRepository struct {
	db *sql.DB
}

func NewWeekReviewRepository(db *sql.DB) *WeekReviewRepository {
	return &WeekReviewRepository{db: db}
}

const weekReviewColumns = `id, week_start, week_end, reflection, created_at, updated_at`

func scanWeekReview(scan func(dest ...any) error) (*models.WeekReview, error) {
	var (
		w          models.WeekReview
		reflection sql.NullString
	)
	err := scan(&w.ID, &w.WeekStart, &w.WeekEnd, &reflection, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Reflection = reflection.String
	return &w, nil
}

func (r *WeekReviewRepository) FindByID(ctx context.Context, id string) (*models.WeekReview, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekReviewColumns+` FROM week_reviews WHERE id = ?`, id)
	w, err := scanWeekReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func (r *WeekReviewRepository) FindLatest(ctx context.Context) (*models.WeekReview, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+weekReviewColumns+` FROM week_reviews
		ORDER BY week_start DESC
		LIMIT 1
	`)
	w, err := scanWeekReview(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func (r *WeekReviewRepository) Save(ctx context.Context, w *models.WeekReview) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO week_reviews (id, week_start, week_end, reflection, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			week_start = excluded.week_start,
			week_end = excluded.week_end,
			reflection = excluded.reflection,
			updated_at = excluded.updated_at
	`, w.ID, w.WeekStart, w.WeekEnd, w.Reflection, w.CreatedAt, w.UpdatedAt)

	return wrapConstraint(err)
}

func (r *WeekReviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM week_reviews WHERE id = ?`, id)
	return wrapConstraint(err)
}
