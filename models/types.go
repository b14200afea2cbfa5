// ABOUTME: Data models for business-development CRM entities
// ABOUTME: Defines Organization, Contact, Protemoi, Opportunity, Meeting, Task and friends
package models

import (
	"time"
)

// OpportunityStage is the fixed 5-step sales progression.
type OpportunityStage string

const (
	StageListenLearn     OpportunityStage = "LISTEN_LEARN"
	StageCreateCuriosity OpportunityStage = "CREATE_CURIOSITY"
	StageBuildTogether   OpportunityStage = "BUILD_TOGETHER"
	StageGainApproval    OpportunityStage = "GAIN_APPROVAL"
	StageRetainExpand    OpportunityStage = "RETAIN_EXPAND"
)

// OpportunityStages lists every stage in progression order.
var OpportunityStages = []OpportunityStage{
	StageListenLearn,
	StageCreateCuriosity,
	StageBuildTogether,
	StageGainApproval,
	StageRetainExpand,
}

func (s OpportunityStage) Valid() bool {
	for _, v := range OpportunityStages {
		if s == v {
			return true
		}
	}
	return false
}

type OpportunityStatus string

const (
	StatusOpen   OpportunityStatus = "OPEN"
	StatusWon    OpportunityStatus = "WON"
	StatusLost   OpportunityStatus = "LOST"
	StatusPaused OpportunityStatus = "PAUSED"
)

func (s OpportunityStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusWon, StatusLost, StatusPaused:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyZAR Currency = "ZAR"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyGBP, CurrencyZAR:
		return true
	}
	return false
}

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "SCHEDULED"
	MeetingCompleted MeetingStatus = "COMPLETED"
)

func (s MeetingStatus) Valid() bool {
	return s == MeetingScheduled || s == MeetingCompleted
}

// RelationshipType classifies a Protemoi entry. External types describe
// people outside the firm, internal types people inside it.
type RelationshipType string

const (
	RelTypeProspect RelationshipType = "PROSPECT"
	RelTypeClient   RelationshipType = "CLIENT"
	RelTypePartner  RelationshipType = "PARTNER"
	RelTypeAdvocate RelationshipType = "ADVOCATE"
	RelTypeSponsor  RelationshipType = "SPONSOR"
	RelTypePeer     RelationshipType = "PEER"
	RelTypeLeader   RelationshipType = "LEADER"
)

func (t RelationshipType) Valid() bool {
	switch t {
	case RelTypeProspect, RelTypeClient, RelTypePartner, RelTypeAdvocate,
		RelTypeSponsor, RelTypePeer, RelTypeLeader:
		return true
	}
	return false
}

// Internal reports whether the type belongs to the internal taxonomy.
func (t RelationshipType) Internal() bool {
	switch t {
	case RelTypeSponsor, RelTypePeer, RelTypeLeader:
		return true
	}
	return false
}

// RelationshipStage is the nurture progression from Target to Raving Fan.
// TrustedAdvisor applies only to external relationships, Ally only to
// internal ones.
type RelationshipStage string

const (
	RelStageTarget         RelationshipStage = "TARGET"
	RelStageConnected      RelationshipStage = "CONNECTED"
	RelStageEngaged        RelationshipStage = "ENGAGED"
	RelStageTrustedAdvisor RelationshipStage = "TRUSTED_ADVISOR"
	RelStageAlly           RelationshipStage = "ALLY"
	RelStageRavingFan      RelationshipStage = "RAVING_FAN"
)

func (s RelationshipStage) Valid() bool {
	switch s {
	case RelStageTarget, RelStageConnected, RelStageEngaged,
		RelStageTrustedAdvisor, RelStageAlly, RelStageRavingFan:
		return true
	}
	return false
}

// ValidFor reports whether the stage may be used for an internal or
// external relationship.
func (s RelationshipStage) ValidFor(internal bool) bool {
	if !s.Valid() {
		return false
	}
	if s == RelStageTrustedAdvisor {
		return !internal
	}
	if s == RelStageAlly {
		return internal
	}
	return true
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskCanceled   TaskStatus = "CANCELED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone, TaskCanceled:
		return true
	}
	return false
}

// Terminal reports whether the status ends the task's life.
func (s TaskStatus) Terminal() bool {
	return s == TaskDone || s == TaskCanceled
}

type TaskType string

const (
	TaskNextStep TaskType = "NEXT_STEP"
	TaskMIT      TaskType = "MIT"
	TaskAdmin    TaskType = "ADMIN"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskNextStep, TaskMIT, TaskAdmin:
		return true
	}
	return false
}

// LinkedEntityType names the entity families a TaskLink may point at.
type LinkedEntityType string

const (
	LinkOpportunity  LinkedEntityType = "OPPORTUNITY"
	LinkRelationship LinkedEntityType = "RELATIONSHIP"
	LinkMeeting      LinkedEntityType = "MEETING"
	LinkContact      LinkedEntityType = "CONTACT"
	LinkOrganization LinkedEntityType = "ORGANIZATION"
)

func (t LinkedEntityType) Valid() bool {
	switch t {
	case LinkOpportunity, LinkRelationship, LinkMeeting, LinkContact, LinkOrganization:
		return true
	}
	return false
}

// ThinkingPreference is a coarse whole-brain classification used when
// preparing for meetings.
type ThinkingPreference string

const (
	ThinkAnalytical   ThinkingPreference = "ANALYTICAL"
	ThinkPractical    ThinkingPreference = "PRACTICAL"
	ThinkRelational   ThinkingPreference = "RELATIONAL"
	ThinkExperimental ThinkingPreference = "EXPERIMENTAL"
)

func (p ThinkingPreference) Valid() bool {
	switch p {
	case ThinkAnalytical, ThinkPractical, ThinkRelational, ThinkExperimental:
		return true
	}
	return false
}

// BuyInRole is the buy-in priority classification for a contact or
// attendee within a pursuit.
type BuyInRole string

const (
	BuyInEconomic  BuyInRole = "ECONOMIC"
	BuyInTechnical BuyInRole = "TECHNICAL"
	BuyInUser      BuyInRole = "USER"
	BuyInCoach     BuyInRole = "COACH"
)

func (r BuyInRole) Valid() bool {
	switch r {
	case BuyInEconomic, BuyInTechnical, BuyInUser, BuyInCoach:
		return true
	}
	return false
}

// TrackerMetric is the fixed vocabulary of tracked weekly metrics.
type TrackerMetric string

const (
	MetricMeetingsHeld      TrackerMetric = "meetings_held"
	MetricProtemoiTouches   TrackerMetric = "protemoi_touches"
	MetricOpportunitiesOpen TrackerMetric = "opportunities_open"
	MetricMITsCompleted     TrackerMetric = "mits_completed"
)

func (m TrackerMetric) Valid() bool {
	switch m {
	case MetricMeetingsHeld, MetricProtemoiTouches, MetricOpportunitiesOpen, MetricMITsCompleted:
		return true
	}
	return false
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	LogoRef   string    `json:"logo_ref,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contact struct {
	ID                 string              `json:"id"`
	OrganizationID     *string             `json:"organization_id,omitempty"`
	Name               string              `json:"name"`
	Title              string              `json:"title,omitempty"`
	Email              string              `json:"email,omitempty"`
	Phone              string              `json:"phone,omitempty"`
	ThinkingPreference *ThinkingPreference `json:"thinking_preference,omitempty"`
	BuyInRole          *BuyInRole          `json:"buy_in_role,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ProtemoiEntry is a relationship-nurturing record. Each entry wraps
// exactly one Contact; a contact has at most one active entry.
type ProtemoiEntry struct {
	ID               string            `json:"id"`
	ContactID        string            `json:"contact_id"`
	OrganizationID   *string           `json:"organization_id,omitempty"`
	RelationshipType RelationshipType  `json:"relationship_type"`
	Stage            RelationshipStage `json:"stage"`
	NextStep         string            `json:"next_step"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	LastTouchAt      *time.Time        `json:"last_touch_at,omitempty"`
	NextTouchAt      *time.Time        `json:"next_touch_at,omitempty"`
	Importance       *int              `json:"importance,omitempty"` // 0-100
	Internal         bool              `json:"internal"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type Opportunity struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	OrganizationID *string           `json:"organization_id,omitempty"`
	Stage          OpportunityStage  `json:"stage"`
	Status         OpportunityStatus `json:"status"`
	NextStep       string            `json:"next_step"`
	ValueCents     *int64            `json:"value_cents,omitempty"`
	Currency       Currency          `json:"currency"`
	Probability    *int              `json:"probability,omitempty"` // 0-100, not clamped here
	Sponsor        string            `json:"sponsor,omitempty"`
	Obstacle       string            `json:"obstacle,omitempty"`
	ExpectedClose  *time.Time        `json:"expected_close,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type Meeting struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	StartTime      *time.Time    `json:"start_time,omitempty"`
	EndTime        *time.Time    `json:"end_time,omitempty"`
	Location       string        `json:"location,omitempty"`
	Status         MeetingStatus `json:"status"`
	OrganizationID *string       `json:"organization_id,omitempty"`
	OpportunityID  *string       `json:"opportunity_id,omitempty"`
	ProtemoiID     *string       `json:"protemoi_id,omitempty"`
	// Notes holds the serialized meeting-prep payload. Storage treats it
	// as opaque text; see MeetingPrep.
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MeetingAttendee struct {
	ID                 string              `json:"id"`
	MeetingID          string              `json:"meeting_id"`
	ContactID          *string             `json:"contact_id,omitempty"`
	Name               string              `json:"name"`
	ThinkingPreference *ThinkingPreference `json:"thinking_preference,omitempty"`
	BuyInRole          *BuyInRole          `json:"buy_in_role,omitempty"`
	Role               string              `json:"role,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Type        TaskType   `json:"type"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	// Links is the single source of truth for linked entities. The old
	// single linked-entity pair is derived via PrimaryLink.
	Links        []TaskLink `json:"links,omitempty"`
	WeekReviewID *string    `json:"week_review_id,omitempty"`
	Tag          string     `json:"tag,omitempty"`
	// B.I.G. qualifiers, required for MIT tasks.
	BigImpact      string     `json:"big_impact,omitempty"`
	InControl      string     `json:"in_control,omitempty"`
	GrowthOriented string     `json:"growth_oriented,omitempty"`
	ActualMinutes  *int       `json:"actual_minutes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PrimaryLink returns the first link, if any. Older clients expected a
// single linked-entity pair on the task itself; it is computed here and
// never stored.
func (t *Task) PrimaryLink() *TaskLink {
	if len(t.Links) == 0 {
		return nil
	}
	return &t.Links[0]
}

// QualifiesAsMIT reports whether an MIT task carries all three B.I.G.
// qualifiers. Non-MIT tasks always qualify.
func (t *Task) QualifiesAsMIT() bool {
	if t.Type != TaskMIT {
		return true
	}
	return t.BigImpact != "" && t.InControl != "" && t.GrowthOriented != ""
}

type TaskLink struct {
	ID         string           `json:"id"`
	TaskID     string           `json:"task_id"`
	EntityType LinkedEntityType `json:"entity_type"`
	EntityID   string           `json:"entity_id"`
	CreatedAt  time.Time        `json:"created_at"`
}

type WeekReview struct {
	ID         string    `json:"id"`
	WeekStart  time.Time `json:"week_start"`
	WeekEnd    time.Time `json:"week_end"`
	Reflection string    `json:"reflection,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TrackerGoal holds the target for one named metric. Goals upsert by
// metric name, one row per metric.
type TrackerGoal struct {
	ID        string        `json:"id"`
	Metric    TrackerMetric `json:"metric"`
	Target    float64       `json:"target"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SyncState tracks incremental-sync progress for an external service.
type SyncState struct {
	Service       string     `json:"service"`
	LastSyncTime  *time.Time `json:"last_sync_time,omitempty"`
	LastSyncToken *string    `json:"last_sync_token,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)
