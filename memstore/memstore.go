// ABOUTME: Transient in-memory backend implementing the store interfaces
// ABOUTME: Mirrors the SQLite semantics: cascades, uniqueness, ordering
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// Open builds a fully wired transient store aggregate. Everything lives
// in process memory behind one lock; data is gone when the process is.
func Open() *store.Stores {
	m := &mem{
		organizations: map[string]models.Organization{},
		contacts:      map[string]models.Contact{},
		protemoi:      map[string]models.ProtemoiEntry{},
		opportunities: map[string]models.Opportunity{},
		meetings:      map[string]models.Meeting{},
		attendees:     map[string]models.MeetingAttendee{},
		tasks:         map[string]models.Task{},
		weekReviews:   map[string]models.WeekReview{},
		goals:         map[models.TrackerMetric]models.TrackerGoal{},
		syncStates:    map[string]models.SyncState{},
		imports:       map[string]bool{},
	}
	return &store.Stores{
		Organizations: (*organizationStore)(m),
		Contacts:      (*contactStore)(m),
		Opportunities: (*opportunityStore)(m),
		Meetings:      (*meetingStore)(m),
		Protemoi:      (*protemoiStore)(m),
		Tasks:         (*taskStore)(m),
		WeekReviews:   (*weekReviewStore)(m),
		Tracker:       (*trackerStore)(m),
		SyncState:     (*syncStateStore)(m),
	}
}

// mem is the shared state; the per-family types below are views over it
// so cross-entity cascades can reach every table under one lock.
type mem struct {
	mu            sync.RWMutex
	organizations map[string]models.Organization
	contacts      map[string]models.Contact
	protemoi      map[string]models.ProtemoiEntry
	opportunities map[string]models.Opportunity
	meetings      map[string]models.Meeting
	attendees     map[string]models.MeetingAttendee
	tasks         map[string]models.Task
	weekReviews   map[string]models.WeekReview
	goals         map[models.TrackerMetric]models.TrackerGoal
	syncStates    map[string]models.SyncState
	imports       map[string]bool
}

func stamp(id *string, created *time.Time, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type organizationStore mem

func (s *organizationStore) FindByID(_ context.Context, id string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if org, ok := s.organizations[id]; ok {
		return &org, nil
	}
	return nil, nil
}

func (s *organizationStore) FindAll(_ context.Context) ([]models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orgs []models.Organization
	for _, org := range s.organizations {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].UpdatedAt.After(orgs[j].UpdatedAt) })
	return orgs, nil
}

func (s *organizationStore) Search(ctx context.Context, query string) ([]models.Organization, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Organization
	for _, org := range all {
		if containsFold(org.Name, query) || containsFold(org.Industry, query) || containsFold(org.Notes, query) {
			out = append(out, org)
		}
	}
	return out, nil
}

func (s *organizationStore) Save(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	s.organizations[org.ID] = *org
	return nil
}

func (s *organizationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.organizations, id)
	// Set-null cascades, as the schema declares them.
	for cid, c := range s.contacts {
		if c.OrganizationID != nil && *c.OrganizationID == id {
			c.OrganizationID = nil
			s.contacts[cid] = c
		}
	}
	for oid, o := range s.opportunities {
		if o.OrganizationID != nil && *o.OrganizationID == id {
			o.OrganizationID = nil
			s.opportunities[oid] = o
		}
	}
	for mid, m := range s.meetings {
		if m.OrganizationID != nil && *m.OrganizationID == id {
			m.OrganizationID = nil
			s.meetings[mid] = m
		}
	}
	for pid, p := range s.protemoi {
		if p.OrganizationID != nil && *p.OrganizationID == id {
			p.OrganizationID = nil
			s.protemoi[pid] = p
		}
	}
	return nil
}

type contactStore mem

func (s *contactStore) FindByID(_ context.Context, id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contacts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *contactStore) FindAll(_ context.Context) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var contacts []models.Contact
	for _, c := range s.contacts {
		contacts = append(contacts, c)
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].UpdatedAt.After(contacts[j].UpdatedAt) })
	return contacts, nil
}

func (s *contactStore) Search(ctx context.Context, query string) ([]models.Contact, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Contact
	for _, c := range all {
		if containsFold(c.Name, query) || containsFold(c.Email, query) || containsFold(c.Title, query) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *contactStore) FindByOrganizationID(ctx context.Context, orgID string) ([]models.Contact, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Contact
	for _, c := range all {
		if c.OrganizationID != nil && *c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *contactStore) Save(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.contacts[c.ID] = *c
	return nil
}

func (s *contactStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contacts, id)
	// Protemoi entries cascade-delete with their contact; attendee
	// references null out.
	for pid, p := range s.protemoi {
		if p.ContactID == id {
			delete(s.protemoi, pid)
		}
	}
	for aid, a := range s.attendees {
		if a.ContactID != nil && *a.ContactID == id {
			a.ContactID = nil
			s.attendees[aid] = a
		}
	}
	return nil
}

type protemoiStore mem

func (s *protemoiStore) FindByID(_ context.Context, id string) (*models.ProtemoiEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.protemoi[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *protemoiStore) FindByContactID(_ context.Context, contactID string) (*models.ProtemoiEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.protemoi {
		if e.ContactID == contactID {
			return &e, nil
		}
	}
	return nil, nil
}

func (s *protemoiStore) FindAll(_ context.Context) ([]models.ProtemoiEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []models.ProtemoiEntry
	for _, e := range s.protemoi {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.After(entries[j].UpdatedAt) })
	return entries, nil
}

func (s *protemoiStore) Save(_ context.Context, e *models.ProtemoiEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One active entry per contact.
	for _, existing := range s.protemoi {
		if existing.ContactID == e.ContactID && existing.ID != e.ID {
			return fmt.Errorf("%w: contact %s already has a protemoi entry", store.ErrConstraint, e.ContactID)
		}
	}
	stamp(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	s.protemoi[e.ID] = *e
	return nil
}

func (s *protemoiStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.protemoi, id)
	for mid, m := range s.meetings {
		if m.ProtemoiID != nil && *m.ProtemoiID == id {
			m.ProtemoiID = nil
			s.meetings[mid] = m
		}
	}
	return nil
}

type opportunityStore mem

func (s *opportunityStore) FindByID(_ context.Context, id string) (*models.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.opportunities[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (s *opportunityStore) FindAll(_ context.Context) ([]models.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var opps []models.Opportunity
	for _, o := range s.opportunities {
		opps = append(opps, o)
	}
	sort.Slice(opps, func(i, j int) bool { return opps[i].UpdatedAt.After(opps[j].UpdatedAt) })
	return opps, nil
}

func (s *opportunityStore) Search(ctx context.Context, query string) ([]models.Opportunity, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Opportunity
	for _, o := range all {
		if containsFold(o.Name, query) || containsFold(o.NextStep, query) || containsFold(o.Sponsor, query) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *opportunityStore) FindByOrganizationID(ctx context.Context, orgID string) ([]models.Opportunity, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Opportunity
	for _, o := range all {
		if o.OrganizationID != nil && *o.OrganizationID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *opportunityStore) FindAllByStage(ctx context.Context, stage models.OpportunityStage) ([]models.Opportunity, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Opportunity
	for _, o := range all {
		if o.Stage == stage {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *opportunityStore) Save(_ context.Context, o *models.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.Status == "" {
		o.Status = models.StatusOpen
	}
	if o.Currency == "" {
		o.Currency = models.CurrencyUSD
	}
	stamp(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	s.opportunities[o.ID] = *o
	return nil
}

func (s *opportunityStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.opportunities, id)
	for mid, m := range s.meetings {
		if m.OpportunityID != nil && *m.OpportunityID == id {
			m.OpportunityID = nil
			s.meetings[mid] = m
		}
	}
	return nil
}

type meetingStore mem

func (s *meetingStore) FindByID(_ context.Context, id string) (*models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.meetings[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *meetingStore) FindAll(_ context.Context) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var meetings []models.Meeting
	for _, m := range s.meetings {
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].UpdatedAt.After(meetings[j].UpdatedAt) })
	return meetings, nil
}

func (s *meetingStore) Search(ctx context.Context, query string) ([]models.Meeting, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Meeting
	for _, m := range all {
		if containsFold(m.Title, query) || containsFold(m.Location, query) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *meetingStore) FindByOpportunityID(ctx context.Context, oppID string) ([]models.Meeting, error) {
	all, _ := s.FindAll(ctx)
	var out []models.Meeting
	for _, m := range all {
		if m.OpportunityID != nil && *m.OpportunityID == oppID {
			out = append(out, m)
		}
	}
	return out, nil
}

func startOrZero(m models.Meeting) time.Time {
	if m.StartTime == nil {
		return time.Time{}
	}
	return *m.StartTime
}

func (s *meetingStore) FindUpcoming(_ context.Context, limit int) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Meeting
	for _, m := range s.meetings {
		if m.Status != models.MeetingCompleted {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return startOrZero(out[i]).Before(startOrZero(out[j])) })
	// Matches SQLite LIMIT: zero returns nothing, negative is uncapped.
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *meetingStore) FindHistory(_ context.Context, limit int) ([]models.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Meeting
	for _, m := range s.meetings {
		if m.Status == models.MeetingCompleted {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return startOrZero(out[i]).After(startOrZero(out[j])) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *meetingStore) Save(_ context.Context, m *models.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Status == "" {
		m.Status = models.MeetingScheduled
	}
	stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	s.meetings[m.ID] = *m
	return nil
}

func (s *meetingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meetings, id)
	for aid, a := range s.attendees {
		if a.MeetingID == id {
			delete(s.attendees, aid)
		}
	}
	return nil
}

func (s *meetingStore) AttendeesByMeeting(_ context.Context, meetingID string) ([]models.MeetingAttendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MeetingAttendee
	for _, a := range s.attendees {
		if a.MeetingID == meetingID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *meetingStore) SaveAttendee(_ context.Context, a *models.MeetingAttendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	s.attendees[a.ID] = *a
	return nil
}

func (s *meetingStore) DeleteAttendee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attendees, id)
	return nil
}

type taskStore mem

func copyTask(t models.Task) models.Task {
	t.Links = append([]models.TaskLink(nil), t.Links...)
	return t
}

func (s *taskStore) FindByID(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tasks[id]; ok {
		t = copyTask(t)
		return &t, nil
	}
	return nil, nil
}

func (s *taskStore) FindPending(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if !t.Status.Terminal() {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return out, nil
}

func (s *taskStore) FindHistory(_ context.Context, limit int) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.Status == models.TaskDone {
			out = append(out, copyTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *taskStore) FindByLinkedEntity(_ context.Context, entityType models.LinkedEntityType, entityID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		for _, l := range t.Links {
			if l.EntityType == entityType && l.EntityID == entityID {
				out = append(out, copyTask(t))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *taskStore) Save(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Type == "" {
		t.Type = models.TaskNextStep
	}
	stamp(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	for i := range t.Links {
		link := &t.Links[i]
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
		link.TaskID = t.ID
		if link.CreatedAt.IsZero() {
			link.CreatedAt = t.UpdatedAt
		}
	}
	s.tasks[t.ID] = copyTask(*t)
	return nil
}

func (s *taskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
	return nil
}

type weekReviewStore mem

func (s *weekReviewStore) FindByID(_ context.Context, id string) (*models.WeekReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if w, ok := s.weekReviews[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (s *weekReviewStore) FindLatest(_ context.Context) (*models.WeekReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.WeekReview
	for _, w := range s.weekReviews {
		w := w
		if latest == nil || w.WeekStart.After(latest.WeekStart) {
			latest = &w
		}
	}
	return latest, nil
}

func (s *weekReviewStore) Save(_ context.Context, w *models.WeekReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	s.weekReviews[w.ID] = *w
	return nil
}

func (s *weekReviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.weekReviews, id)
	for tid, t := range s.tasks {
		if t.WeekReviewID != nil && *t.WeekReviewID == id {
			t.WeekReviewID = nil
			s.tasks[tid] = t
		}
	}
	return nil
}

type trackerStore mem

func (s *trackerStore) FindByMetric(_ context.Context, metric models.TrackerMetric) (*models.TrackerGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.goals[metric]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *trackerStore) FindAll(_ context.Context) ([]models.TrackerGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var goals []models.TrackerGoal
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].Metric < goals[j].Metric })
	return goals, nil
}

func (s *trackerStore) Upsert(_ context.Context, g *models.TrackerGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.goals[g.Metric]; ok {
		g.ID = existing.ID
		g.CreatedAt = existing.CreatedAt
	}
	stamp(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	s.goals[g.Metric] = *g
	return nil
}

func (s *trackerStore) Delete(_ context.Context, metric models.TrackerMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.goals, metric)
	return nil
}

type syncStateStore mem

func importKey(service, sourceID string) string {
	return service + "\x00" + sourceID
}

func (s *syncStateStore) Get(_ context.Context, service string) (*models.SyncState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.syncStates[service]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *syncStateStore) SetStatus(_ context.Context, service, status string, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.syncStates[service]
	if st.Service == "" {
		st.Service = service
		st.CreatedAt = time.Now().UTC()
	}
	st.Status = status
	st.ErrorMessage = errMsg
	st.UpdatedAt = time.Now().UTC()
	s.syncStates[service] = st
	return nil
}

func (s *syncStateStore) SetToken(_ context.Context, service, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.syncStates[service]
	if st.Service == "" {
		st.Service = service
		st.CreatedAt = time.Now().UTC()
	}
	now := time.Now().UTC()
	st.LastSyncTime = &now
	st.LastSyncToken = &token
	st.Status = models.SyncStatusIdle
	st.ErrorMessage = nil
	st.UpdatedAt = now
	s.syncStates[service] = st
	return nil
}

func (s *syncStateStore) ImportExists(_ context.Context, service, sourceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imports[importKey(service, sourceID)], nil
}

func (s *syncStateStore) LogImport(_ context.Context, _, service, sourceID, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := importKey(service, sourceID)
	if s.imports[key] {
		return fmt.Errorf("%w: %s/%s already imported", store.ErrConstraint, service, sourceID)
	}
	s.imports[key] = true
	return nil
}
