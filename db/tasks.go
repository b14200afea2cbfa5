// ABOUTME: Task and task-link repository over SQLite
// ABOUTME: Link set replaced transactionally on save; links populated after fetch
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, status, task_type, due_date, week_review_id, tag, big_impact, in_control, growth_oriented, actual_minutes, created_at, updated_at`

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		dueDate     sql.NullTime
		weekReview  sql.NullString
		tag         sql.NullString
		bigImpact   sql.NullString
		inControl   sql.NullString
		growth      sql.NullString
		minutes     sql.NullInt64
	)
	err := scan(&t.ID, &t.Title, &description, &t.Status, &t.Type, &dueDate, &weekReview,
		&tag, &bigImpact, &inControl, &growth, &minutes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.DueDate = timePtr(dueDate)
	t.WeekReviewID = strPtr(weekReview)
	t.Tag = tag.String
	t.BigImpact = bigImpact.String
	t.InControl = inControl.String
	t.GrowthOriented = growth.String
	t.ActualMinutes = intPtr(minutes)
	return &t, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.populateLinks(ctx, []*models.Task{t})
	return t, nil
}

// FindPending lists tasks whose status is neither DONE nor CANCELED,
// due date ascending with undated tasks last.
func (r *TaskRepository) FindPending(ctx context.Context) ([]models.Task, error) {
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status NOT IN (?, ?)
		ORDER BY due_date IS NULL, due_date ASC
	`, string(models.TaskDone), string(models.TaskCanceled))
}

func (r *TaskRepository) FindHistory(ctx context.Context, limit int) ([]models.Task, error) {
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, string(models.TaskDone), limit)
}

func (r *TaskRepository) FindByLinkedEntity(ctx context.Context, entityType models.LinkedEntityType, entityID string) ([]models.Task, error) {
	return r.query(ctx, `
		SELECT DISTINCT t.id, t.title, t.description, t.status, t.task_type, t.due_date, t.week_review_id,
			t.tag, t.big_impact, t.in_control, t.growth_oriented, t.actual_minutes, t.created_at, t.updated_at
		FROM tasks t
		JOIN task_links l ON l.task_id = t.id
		WHERE l.entity_type = ? AND l.entity_id = ?
		ORDER BY t.created_at DESC
	`, string(entityType), entityID)
}

// Save upserts the task and replaces its link set in one transaction,
// so a crash cannot strand a task with half its links.
func (r *TaskRepository) Save(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Type == "" {
		t.Type = models.TaskNextStep
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, task_type, due_date, week_review_id,
			tag, big_impact, in_control, growth_oriented, actual_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			task_type = excluded.task_type,
			due_date = excluded.due_date,
			week_review_id = excluded.week_review_id,
			tag = excluded.tag,
			big_impact = excluded.big_impact,
			in_control = excluded.in_control,
			growth_oriented = excluded.growth_oriented,
			actual_minutes = excluded.actual_minutes,
			updated_at = excluded.updated_at
	`, t.ID, t.Title, t.Description, string(t.Status), string(t.Type), nullTime(t.DueDate),
		nullStr(t.WeekReviewID), t.Tag, t.BigImpact, t.InControl, t.GrowthOriented,
		nullInt(t.ActualMinutes), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return wrapConstraint(err)
	}

	// Replacement semantics: drop the old set, insert the current one.
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_links WHERE task_id = ?`, t.ID); err != nil {
		return wrapConstraint(err)
	}
	for i := range t.Links {
		link := &t.Links[i]
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
		link.TaskID = t.ID
		if link.CreatedAt.IsZero() {
			link.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_links (id, task_id, entity_type, entity_id, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, link.ID, link.TaskID, string(link.EntityType), link.EntityID, link.CreatedAt)
		if err != nil {
			return wrapConstraint(err)
		}
	}

	return wrapConstraint(tx.Commit())
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return wrapConstraint(err)
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Task, len(tasks))
	for i := range tasks {
		ptrs[i] = &tasks[i]
	}
	r.populateLinks(ctx, ptrs)
	return tasks, nil
}

// populateLinks fetches the link sets for a batch of tasks. A failing
// lookup degrades to tasks with empty link sets; the base rows still
// reach the caller.
func (r *TaskRepository) populateLinks(ctx context.Context, tasks []*models.Task) {
	if len(tasks) == 0 {
		return
	}

	placeholders := make([]string, len(tasks))
	args := make([]any, len(tasks))
	byID := make(map[string]*models.Task, len(tasks))
	for i, t := range tasks {
		placeholders[i] = "?"
		args[i] = t.ID
		byID[t.ID] = t
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, entity_type, entity_id, created_at
		FROM task_links
		WHERE task_id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY created_at ASC
	`, args...)
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var link models.TaskLink
		if err := rows.Scan(&link.ID, &link.TaskID, &link.EntityType, &link.EntityID, &link.CreatedAt); err != nil {
			return
		}
		if t, ok := byID[link.TaskID]; ok {
			t.Links = append(t.Links, link)
		}
	}
}
