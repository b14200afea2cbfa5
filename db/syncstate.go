// ABOUTME: Sync state and import-log repository over SQLite
// ABOUTME: Tracks incremental-sync tokens and imported source IDs per service
package db

import (
	"context"
	"database/sql"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type SyncStateRepository struct {
	db *sql.DB
}

func NewSyncStateRepository(db *sql.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

func (r *SyncStateRepository) Get(ctx context.Context, service string) (*models.SyncState, error) {
	var (
		state     models.SyncState
		syncTime  sql.NullTime
		syncToken sql.NullString
		status    sql.NullString
		errMsg    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT service, last_sync_time, last_sync_token, status, error_message, created_at, updated_at
		FROM sync_state
		WHERE service = ?
	`, service).Scan(&state.Service, &syncTime, &syncToken, &status, &errMsg, &state.CreatedAt, &state.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state.LastSyncTime = timePtr(syncTime)
	state.LastSyncToken = strPtr(syncToken)
	state.Status = status.String
	state.ErrorMessage = strPtr(errMsg)
	return &state, nil
}

func (r *SyncStateRepository) SetStatus(ctx context.Context, service, status string, errMsg *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, status, nullStr(errMsg))
	return wrapConstraint(err)
}

func (r *SyncStateRepository) SetToken(ctx context.Context, service, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (service, last_sync_time, last_sync_token, status, created_at, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = CURRENT_TIMESTAMP,
			last_sync_token = excluded.last_sync_token,
			status = excluded.status,
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, token, models.SyncStatusIdle)
	return wrapConstraint(err)
}

func (r *SyncStateRepository) ImportExists(ctx context.Context, service, sourceID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sync_log
		WHERE source_service = ? AND source_id = ?
	`, service, sourceID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SyncStateRepository) LogImport(ctx context.Context, id, service, sourceID, entityType, entityID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_log (id, source_service, source_id, entity_type, entity_id, imported_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, service, sourceID, entityType, entityID)
	return wrapConstraint(err)
}
