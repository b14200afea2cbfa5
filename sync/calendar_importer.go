// ABOUTME: Calendar event importer mapping Google Calendar events to meetings
// ABOUTME: Handles pagination, incremental sync tokens, and skip rules
package sync

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

const (
	calendarService = "calendar"
	maxResults      = 250 // Google Calendar API max per page
	initialWindow   = -6  // months of history on first sync
)

func newImportID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// shouldSkipEvent reports whether an event has no place in the CRM and
// why. All-day blocks, cancellations, declines, and solo events are
// noise here.
func shouldSkipEvent(event *calendar.Event, userEmail string) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Start == nil {
		return true, "missing start time"
	}
	if event.Start.Date != "" {
		return true, "all-day event"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	for _, attendee := range event.Attendees {
		if attendee.ResponseStatus != "declined" {
			continue
		}
		if attendee.Self || (userEmail != "" && attendee.Email == userEmail) {
			return true, "declined"
		}
	}
	if len(event.Attendees) <= 1 {
		return true, "solo event"
	}
	return false, ""
}

// eventToMeeting maps a calendar event to a SCHEDULED meeting plus its
// attendee rows. The user's own attendee record is excluded.
func eventToMeeting(event *calendar.Event, userEmail string) (*models.Meeting, []models.MeetingAttendee) {
	meeting := &models.Meeting{
		Title:    event.Summary,
		Location: event.Location,
		Status:   models.MeetingScheduled,
	}
	if meeting.Title == "" {
		meeting.Title = "(untitled meeting)"
	}

	if event.Start != nil && event.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
			t = t.UTC()
			meeting.StartTime = &t
		}
	}
	if event.End != nil && event.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
			t = t.UTC()
			meeting.EndTime = &t
		}
	}

	var attendees []models.MeetingAttendee
	for _, a := range event.Attendees {
		if a.Self || a.Email == userEmail || a.Resource {
			continue
		}
		name := a.DisplayName
		if name == "" {
			name = a.Email
		}
		attendees = append(attendees, models.MeetingAttendee{
			Name:  name,
			Notes: a.Email,
		})
	}
	return meeting, attendees
}

// ImportCalendar fetches events from the primary calendar and imports
// the relevant ones as meetings. Incremental runs use the stored sync
// token; a 410 from the API falls back to a time-window fetch.
func ImportCalendar(ctx context.Context, stores *store.Stores, client *calendar.Service, initial bool) error {
	fmt.Println("Syncing Google Calendar...")
	if err := stores.SyncState.SetStatus(ctx, calendarService, models.SyncStatusSyncing, nil); err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	calendarInfo, err := client.CalendarList.Get("primary").Context(ctx).Do()
	if err != nil {
		return failSync(ctx, stores, fmt.Errorf("failed to get user calendar info: %w", err))
	}
	userEmail := calendarInfo.Id

	state, err := stores.SyncState.Get(ctx, calendarService)
	if err != nil {
		return failSync(ctx, stores, fmt.Errorf("failed to get sync state: %w", err))
	}

	call := client.Events.List("primary").
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime")

	windowStart := time.Now().AddDate(0, initialWindow, 0).Format(time.RFC3339)
	switch {
	case initial:
		call = call.TimeMin(windowStart)
		fmt.Println("  → Initial sync...")
	case state != nil && state.LastSyncToken != nil:
		call = call.SyncToken(*state.LastSyncToken)
		fmt.Println("  → Incremental sync...")
	default:
		call = call.TimeMin(windowStart)
		fmt.Println("  → No previous sync found, fetching recent events...")
	}

	imported := 0
	skipped := 0
	pageToken := ""
	nextSyncToken := ""

	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Context(ctx).Do()
		if err != nil {
			// 410 Gone means the sync token expired; refetch by time.
			if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 410 {
				fmt.Println("  → Sync token invalid, falling back to time-based sync...")
				call = client.Events.List("primary").
					MaxResults(maxResults).
					SingleEvents(true).
					OrderBy("startTime").
					TimeMin(windowStart)
				pageToken = ""
				continue
			}
			return failSync(ctx, stores, fmt.Errorf("failed to list events: %w", err))
		}

		for _, event := range events.Items {
			if skip, _ := shouldSkipEvent(event, userEmail); skip {
				skipped++
				continue
			}

			exists, err := stores.SyncState.ImportExists(ctx, calendarService, event.Id)
			if err != nil {
				return failSync(ctx, stores, fmt.Errorf("failed to check sync log: %w", err))
			}
			if exists {
				continue
			}

			meeting, attendees := eventToMeeting(event, userEmail)
			if err := stores.Meetings.Save(ctx, meeting); err != nil {
				return failSync(ctx, stores, fmt.Errorf("failed to save meeting: %w", err))
			}
			for i := range attendees {
				attendees[i].MeetingID = meeting.ID
				if err := stores.Meetings.SaveAttendee(ctx, &attendees[i]); err != nil {
					return failSync(ctx, stores, fmt.Errorf("failed to save attendee: %w", err))
				}
			}
			if err := stores.SyncState.LogImport(ctx, newImportID(), calendarService, event.Id, "meeting", meeting.ID); err != nil {
				return failSync(ctx, stores, fmt.Errorf("failed to log import: %w", err))
			}
			imported++
		}

		if events.NextSyncToken != "" {
			nextSyncToken = events.NextSyncToken
		}
		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if nextSyncToken != "" {
		if err := stores.SyncState.SetToken(ctx, calendarService, nextSyncToken); err != nil {
			return fmt.Errorf("failed to store sync token: %w", err)
		}
	} else if err := stores.SyncState.SetStatus(ctx, calendarService, models.SyncStatusIdle, nil); err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	fmt.Printf("  → Imported %d meetings (%d events skipped)\n", imported, skipped)
	return nil
}

func failSync(ctx context.Context, stores *store.Stores, err error) error {
	msg := err.Error()
	_ = stores.SyncState.SetStatus(ctx, calendarService, models.SyncStatusError, &msg)
	return err
}
