// ABOUTME: Tests for task and task-link persistence
// ABOUTME: Covers link replacement, linked-entity queries, and pending ordering
package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestTaskSaveReplacesLinks(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	opp := &models.Opportunity{
		Name:     "Deal",
		Stage:    models.StageListenLearn,
		Status:   models.StatusOpen,
		Currency: models.CurrencyUSD,
	}
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Save opportunity failed: %v", err)
	}
	contact := &models.Contact{Name: "Alice"}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}

	task := &models.Task{
		Title: "Send proposal",
		Links: []models.TaskLink{
			{EntityType: models.LinkOpportunity, EntityID: opp.ID},
			{EntityType: models.LinkContact, EntityID: contact.ID},
		},
	}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save task failed: %v", err)
	}

	found, err := stores.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(found.Links))
	}

	// Saving with a different set replaces, never merges.
	task.Links = []models.TaskLink{
		{EntityType: models.LinkContact, EntityID: contact.ID},
	}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Second Save failed: %v", err)
	}

	found, err = stores.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Links) != 1 {
		t.Fatalf("Expected 1 link after replacement, got %d", len(found.Links))
	}
	if found.Links[0].EntityType != models.LinkContact {
		t.Errorf("Wrong surviving link: %+v", found.Links[0])
	}
	if found.PrimaryLink() == nil || found.PrimaryLink().EntityID != contact.ID {
		t.Error("PrimaryLink should reflect the first stored link")
	}
}

func TestTaskSaveClearsAllLinks(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	task := &models.Task{
		Title: "Orphan me",
		Links: []models.TaskLink{
			{EntityType: models.LinkOrganization, EntityID: "some-org"},
		},
	}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	task.Links = nil
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save with empty links failed: %v", err)
	}

	found, err := stores.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Links) != 0 {
		t.Errorf("Expected no links, got %d", len(found.Links))
	}
	if found.PrimaryLink() != nil {
		t.Error("PrimaryLink should be nil for an unlinked task")
	}
}

func TestTaskFindByLinkedEntity(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two"} {
		task := &models.Task{
			Title: title,
			Links: []models.TaskLink{
				{EntityType: models.LinkMeeting, EntityID: "meeting-1"},
			},
		}
		if err := stores.Tasks.Save(ctx, task); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	unrelated := &models.Task{
		Title: "Three",
		Links: []models.TaskLink{
			{EntityType: models.LinkMeeting, EntityID: "meeting-2"},
		},
	}
	if err := stores.Tasks.Save(ctx, unrelated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tasks, err := stores.Tasks.FindByLinkedEntity(ctx, models.LinkMeeting, "meeting-1")
	if err != nil {
		t.Fatalf("FindByLinkedEntity failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks for meeting-1, got %d", len(tasks))
	}
	for _, task := range tasks {
		if len(task.Links) == 0 {
			t.Error("Links were not populated on linked-entity query")
		}
	}
}

func TestTaskFindPendingOrdering(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	later := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	undated := &models.Task{Title: "undated"}
	if err := stores.Tasks.Save(ctx, undated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	lateTask := &models.Task{Title: "later", DueDate: &later}
	if err := stores.Tasks.Save(ctx, lateTask); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	soonTask := &models.Task{Title: "sooner", DueDate: &sooner}
	if err := stores.Tasks.Save(ctx, soonTask); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	done := &models.Task{Title: "done", Status: models.TaskDone}
	if err := stores.Tasks.Save(ctx, done); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	canceled := &models.Task{Title: "canceled", Status: models.TaskCanceled}
	if err := stores.Tasks.Save(ctx, canceled); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	pending, err := stores.Tasks.FindPending(ctx)
	if err != nil {
		t.Fatalf("FindPending failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Expected 3 pending tasks, got %d", len(pending))
	}
	if pending[0].Title != "sooner" || pending[1].Title != "later" || pending[2].Title != "undated" {
		t.Errorf("Wrong order: %s, %s, %s", pending[0].Title, pending[1].Title, pending[2].Title)
	}
}

func TestTaskFindHistory(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	minutes := 45
	done := &models.Task{Title: "done", Status: models.TaskDone, ActualMinutes: &minutes}
	if err := stores.Tasks.Save(ctx, done); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	open := &models.Task{Title: "open"}
	if err := stores.Tasks.Save(ctx, open); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	history, err := stores.Tasks.FindHistory(ctx, 10)
	if err != nil {
		t.Fatalf("FindHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 done task, got %d", len(history))
	}
	if history[0].ActualMinutes == nil || *history[0].ActualMinutes != 45 {
		t.Error("ActualMinutes did not round trip")
	}
}

func TestTaskDeleteCascadesLinks(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	task := &models.Task{
		Title: "linked",
		Links: []models.TaskLink{
			{EntityType: models.LinkOrganization, EntityID: "org-1"},
		},
	}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := stores.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	tasks, err := stores.Tasks.FindByLinkedEntity(ctx, models.LinkOrganization, "org-1")
	if err != nil {
		t.Fatalf("FindByLinkedEntity failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks after delete, got %d", len(tasks))
	}
}

func TestTaskQueriesSurviveLinkLookupFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer sqlDB.Close()
	repo := NewTaskRepository(sqlDB)
	ctx := context.Background()

	task := &models.Task{
		Title: "Send recap",
		Links: []models.TaskLink{{EntityType: models.LinkMeeting, EntityID: "meeting-1"}},
	}
	if err := repo.Save(ctx, task); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Break the follow-up link lookup while the base rows stay intact.
	if _, err := sqlDB.ExecContext(ctx, `DROP TABLE task_links`); err != nil {
		t.Fatalf("DROP TABLE failed: %v", err)
	}

	pending, err := repo.FindPending(ctx)
	if err != nil {
		t.Fatalf("FindPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending task, got %d", len(pending))
	}
	if len(pending[0].Links) != 0 {
		t.Errorf("Expected empty link set, got %d links", len(pending[0].Links))
	}

	found, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected the base task row back")
	}
	if len(found.Links) != 0 {
		t.Errorf("Expected empty link set, got %d links", len(found.Links))
	}
}

func TestTaskDefaultsOnSave(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	task := &models.Task{Title: "bare"}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Status != models.TaskTodo {
		t.Errorf("Expected TODO default, got %s", found.Status)
	}
	if found.Type != models.TaskNextStep {
		t.Errorf("Expected NEXT_STEP default, got %s", found.Type)
	}
}
