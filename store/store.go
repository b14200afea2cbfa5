// ABOUTME: Repository interfaces shared by the SQLite and in-memory backends
// ABOUTME: Defines per-entity-family stores, the Stores aggregate, and backend config
package store

import (
	"context"
	"errors"

	"github.com/gsteen1788/bd-os-sub000/models"
)

// ErrConstraint marks uniqueness or foreign-key violations so callers
// can distinguish them from plain storage failures with errors.Is.
var ErrConstraint = errors.New("storage constraint violation")

// Backend selects the storage implementation. The choice is made once
// at process start and injected; there is no per-call switching.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Config is the single configuration value the composition root passes
// to the factory.
type Config struct {
	Backend Backend
	// Path is the database file path, used only by the sqlite backend.
	Path string
}

// OrganizationStore provides CRUD and queries for organizations.
//
// All FindByID methods in this package return (nil, nil) when no row
// matches; not-found is a result, not an error. Save upserts by ID and
// rewrites UpdatedAt. Delete is a no-op when the ID is absent.
type OrganizationStore interface {
	FindByID(ctx context.Context, id string) (*models.Organization, error)
	FindAll(ctx context.Context) ([]models.Organization, error)
	Search(ctx context.Context, query string) ([]models.Organization, error)
	Save(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id string) error
}

type ContactStore interface {
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	FindAll(ctx context.Context) ([]models.Contact, error)
	Search(ctx context.Context, query string) ([]models.Contact, error)
	FindByOrganizationID(ctx context.Context, orgID string) ([]models.Contact, error)
	Save(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
}

type OpportunityStore interface {
	FindByID(ctx context.Context, id string) (*models.Opportunity, error)
	FindAll(ctx context.Context) ([]models.Opportunity, error)
	Search(ctx context.Context, query string) ([]models.Opportunity, error)
	FindByOrganizationID(ctx context.Context, orgID string) ([]models.Opportunity, error)
	FindAllByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error)
	Save(ctx context.Context, opp *models.Opportunity) error
	Delete(ctx context.Context, id string) error
}

type MeetingStore interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	FindAll(ctx context.Context) ([]models.Meeting, error)
	Search(ctx context.Context, query string) ([]models.Meeting, error)
	FindByOpportunityID(ctx context.Context, oppID string) ([]models.Meeting, error)
	// FindUpcoming returns meetings not yet COMPLETED, oldest start time
	// first, so overdue meetings surface before upcoming ones. Product
	// choice: catch up on what you missed. Limit follows SQL LIMIT
	// semantics: zero returns nothing, negative is uncapped.
	FindUpcoming(ctx context.Context, limit int) ([]models.Meeting, error)
	// FindHistory returns COMPLETED meetings, newest start time first.
	FindHistory(ctx context.Context, limit int) ([]models.Meeting, error)
	Save(ctx context.Context, meeting *models.Meeting) error
	Delete(ctx context.Context, id string) error

	AttendeesByMeeting(ctx context.Context, meetingID string) ([]models.MeetingAttendee, error)
	SaveAttendee(ctx context.Context, attendee *models.MeetingAttendee) error
	DeleteAttendee(ctx context.Context, id string) error
}

type ProtemoiStore interface {
	FindByID(ctx context.Context, id string) (*models.ProtemoiEntry, error)
	FindAll(ctx context.Context) ([]models.ProtemoiEntry, error)
	// FindByContactID returns at most one entry; each contact has at
	// most one active entry.
	FindByContactID(ctx context.Context, contactID string) (*models.ProtemoiEntry, error)
	Save(ctx context.Context, entry *models.ProtemoiEntry) error
	Delete(ctx context.Context, id string) error
}

type TaskStore interface {
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// FindPending returns tasks whose status is not DONE or CANCELED,
	// due date ascending, undated tasks last.
	FindPending(ctx context.Context) ([]models.Task, error)
	// FindHistory returns DONE tasks, most recently updated first.
	FindHistory(ctx context.Context, limit int) ([]models.Task, error)
	FindByLinkedEntity(ctx context.Context, entityType models.LinkedEntityType, entityID string) ([]models.Task, error)
	// Save upserts the task and replaces its link set. If the link
	// lookup backing a multi-row query fails, tasks are still returned
	// with empty link sets.
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

type WeekReviewStore interface {
	FindByID(ctx context.Context, id string) (*models.WeekReview, error)
	// FindLatest returns the review with the most recent week start, or
	// nil when none exist.
	FindLatest(ctx context.Context) (*models.WeekReview, error)
	Save(ctx context.Context, review *models.WeekReview) error
	Delete(ctx context.Context, id string) error
}

type TrackerStore interface {
	FindByMetric(ctx context.Context, metric models.TrackerMetric) (*models.TrackerGoal, error)
	FindAll(ctx context.Context) ([]models.TrackerGoal, error)
	// Upsert writes the goal keyed by metric name; saving an existing
	// metric overwrites its target.
	Upsert(ctx context.Context, goal *models.TrackerGoal) error
	Delete(ctx context.Context, metric models.TrackerMetric) error
}

// SyncStateStore tracks incremental-sync progress for external services.
type SyncStateStore interface {
	Get(ctx context.Context, service string) (*models.SyncState, error)
	SetStatus(ctx context.Context, service, status string, errMsg *string) error
	SetToken(ctx context.Context, service, token string) error
	ImportExists(ctx context.Context, service, sourceID string) (bool, error)
	LogImport(ctx context.Context, id, service, sourceID, entityType, entityID string) error
}

// Stores bundles one shared repository instance per entity family. The
// factory constructs it once; callers receive it by injection.
type Stores struct {
	Organizations OrganizationStore
	Contacts      ContactStore
	Opportunities OpportunityStore
	Meetings      MeetingStore
	Protemoi      ProtemoiStore
	Tasks         TaskStore
	WeekReviews   WeekReviewStore
	Tracker       TrackerStore
	SyncState     SyncStateStore

	// Closer releases the backing resource, if any.
	Closer func() error
}

// Close releases the backing store.
func (s *Stores) Close() error {
	if s.Closer == nil {
		return nil
	}
	return s.Closer()
}
