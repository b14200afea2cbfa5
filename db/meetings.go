// ABOUTME: Meeting and attendee repository over SQLite
// ABOUTME: Upcoming/history queries plus attendee fan-out with cascade delete
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type MeetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

const meetingColumns = `id, title, start_time, end_time, location, status, organization_id, opportunity_id, protemoi_id, notes, created_at, updated_at`

func scanMeeting(scan func(dest ...any) error) (*models.Meeting, error) {
	var (
		m          models.Meeting
		startTime  sql.NullTime
		endTime    sql.NullTime
		location   sql.NullString
		status     sql.NullString
		orgID      sql.NullString
		oppID      sql.NullString
		protemoiID sql.NullString
		notes      sql.NullString
	)
	err := scan(&m.ID, &m.Title, &startTime, &endTime, &location, &status,
		&orgID, &oppID, &protemoiID, &notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.StartTime = timePtr(startTime)
	m.EndTime = timePtr(endTime)
	m.Location = location.String
	// A missing status reads back as SCHEDULED.
	m.Status = models.MeetingScheduled
	if status.Valid && status.String != "" {
		m.Status = models.MeetingStatus(status.String)
	}
	m.OrganizationID = strPtr(orgID)
	m.OpportunityID = strPtr(oppID)
	m.ProtemoiID = strPtr(protemoiID)
	m.Notes = notes.String
	return &m, nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	m, err := scanMeeting(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *MeetingRepository) FindAll(ctx context.Context) ([]models.Meeting, error) {
	return r.query(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY updated_at DESC`)
}

func (r *MeetingRepository) Search(ctx context.Context, query string) ([]models.Meeting, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return r.query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE LOWER(title) LIKE ? OR LOWER(COALESCE(location, '')) LIKE ?
		ORDER BY updated_at DESC
	`, pattern, pattern)
}

func (r *MeetingRepository) FindByOpportunityID(ctx context.Context, oppID string) ([]models.Meeting, error) {
	return r.query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE opportunity_id = ?
		ORDER BY updated_at DESC
	`, oppID)
}

// FindUpcoming lists non-completed meetings, oldest start first, so the
// most-overdue meeting tops the list.
func (r *MeetingRepository) FindUpcoming(ctx context.Context, limit int) ([]models.Meeting, error) {
	return r.query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE status != ?
		ORDER BY start_time ASC
		LIMIT ?
	`, string(models.MeetingCompleted), limit)
}

func (r *MeetingRepository) FindHistory(ctx context.Context, limit int) ([]models.Meeting, error) {
	return r.query(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE status = ?
		ORDER BY start_time DESC
		LIMIT ?
	`, string(models.MeetingCompleted), limit)
}

func (r *MeetingRepository) Save(ctx context.Context, m *models.Meeting) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = models.MeetingScheduled
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meetings (id, title, start_time, end_time, location, status,
			organization_id, opportunity_id, protemoi_id, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			location = excluded.location,
			status = excluded.status,
			organization_id = excluded.organization_id,
			opportunity_id = excluded.opportunity_id,
			protemoi_id = excluded.protemoi_id,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, m.ID, m.Title, nullTime(m.StartTime), nullTime(m.EndTime), m.Location, string(m.Status),
		nullStr(m.OrganizationID), nullStr(m.OpportunityID), nullStr(m.ProtemoiID), m.Notes,
		m.CreatedAt, m.UpdatedAt)

	return wrapConstraint(err)
}

func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = ?`, id)
	return wrapConstraint(err)
}

const attendeeColumns = `id, meeting_id, contact_id, name, thinking_preference, buy_in_role, role, notes, created_at, updated_at`

func scanAttendee(scan func(dest ...any) error) (*models.MeetingAttendee, error) {
	var (
		a         models.MeetingAttendee
		contactID sql.NullString
		thinkPr   sql.NullString
		buyIn     sql.NullString
		role      sql.NullString
		notes     sql.NullString
	)
	err := scan(&a.ID, &a.MeetingID, &contactID, &a.Name, &thinkPr, &buyIn, &role, &notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ContactID = strPtr(contactID)
	if thinkPr.Valid {
		v := models.ThinkingPreference(thinkPr.String)
		a.ThinkingPreference = &v
	}
	if buyIn.Valid {
		v := models.BuyInRole(buyIn.String)
		a.BuyInRole = &v
	}
	a.Role = role.String
	a.Notes = notes.String
	return &a, nil
}

func (r *MeetingRepository) AttendeesByMeeting(ctx context.Context, meetingID string) ([]models.MeetingAttendee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+attendeeColumns+` FROM meeting_attendees
		WHERE meeting_id = ?
		ORDER BY created_at ASC
	`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []models.MeetingAttendee
	for rows.Next() {
		a, err := scanAttendee(rows.Scan)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, *a)
	}
	return attendees, rows.Err()
}

func (r *MeetingRepository) SaveAttendee(ctx context.Context, a *models.MeetingAttendee) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	var thinkPr, buyIn sql.NullString
	if a.ThinkingPreference != nil {
		thinkPr = sql.NullString{String: string(*a.ThinkingPreference), Valid: true}
	}
	if a.BuyInRole != nil {
		buyIn = sql.NullString{String: string(*a.BuyInRole), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meeting_attendees (id, meeting_id, contact_id, name, thinking_preference, buy_in_role, role, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			meeting_id = excluded.meeting_id,
			contact_id = excluded.contact_id,
			name = excluded.name,
			thinking_preference = excluded.thinking_preference,
			buy_in_role = excluded.buy_in_role,
			role = excluded.role,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, a.ID, a.MeetingID, nullStr(a.ContactID), a.Name, thinkPr, buyIn, a.Role, a.Notes, a.CreatedAt, a.UpdatedAt)

	return wrapConstraint(err)
}

func (r *MeetingRepository) DeleteAttendee(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meeting_attendees WHERE id = ?`, id)
	return wrapConstraint(err)
}

func (r *MeetingRepository) query(ctx context.Context, query string, args ...any) ([]models.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows.Scan)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}
