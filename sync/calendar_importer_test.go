// ABOUTME: Tests for calendar event skip rules and meeting mapping
package sync

import (
	"testing"

	"google.golang.org/api/calendar/v3"

	"github.com/gsteen1788/bd-os-sub000/models"
)

const testUserEmail = "me@example.com"

func twoAttendees() []*calendar.EventAttendee {
	return []*calendar.EventAttendee{
		{Email: testUserEmail, Self: true, ResponseStatus: "accepted"},
		{Email: "alice@example.com", DisplayName: "Alice"},
	}
}

func TestShouldSkipEvent(t *testing.T) {
	cases := []struct {
		name  string
		event *calendar.Event
		skip  bool
	}{
		{"nil event", nil, true},
		{"missing start", &calendar.Event{Attendees: twoAttendees()}, true},
		{"all-day", &calendar.Event{
			Start:     &calendar.EventDateTime{Date: "2026-09-01"},
			Attendees: twoAttendees(),
		}, true},
		{"cancelled", &calendar.Event{
			Status:    "cancelled",
			Start:     &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: twoAttendees(),
		}, true},
		{"declined by user", &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: []*calendar.EventAttendee{
				{Email: testUserEmail, Self: true, ResponseStatus: "declined"},
				{Email: "alice@example.com"},
			},
		}, true},
		{"declined by email match", &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: []*calendar.EventAttendee{
				{Email: testUserEmail, ResponseStatus: "declined"},
				{Email: "alice@example.com"},
			},
		}, true},
		{"declined by someone else", &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: []*calendar.EventAttendee{
				{Email: testUserEmail, Self: true, ResponseStatus: "accepted"},
				{Email: "alice@example.com", ResponseStatus: "declined"},
			},
		}, false},
		{"solo event", &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: []*calendar.EventAttendee{
				{Email: testUserEmail, Self: true},
			},
		}, true},
		{"real meeting", &calendar.Event{
			Start:     &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
			Attendees: twoAttendees(),
		}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			skip, reason := shouldSkipEvent(c.event, testUserEmail)
			if skip != c.skip {
				t.Errorf("shouldSkipEvent = %v (%s), want %v", skip, reason, c.skip)
			}
		})
	}
}

func TestEventToMeeting(t *testing.T) {
	event := &calendar.Event{
		Summary:  "Pilot review",
		Location: "Room 4",
		Start:    &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
		End:      &calendar.EventDateTime{DateTime: "2026-09-01T10:00:00Z"},
		Attendees: []*calendar.EventAttendee{
			{Email: testUserEmail, Self: true},
			{Email: "alice@example.com", DisplayName: "Alice"},
			{Email: "room@example.com", Resource: true},
			{Email: "bob@example.com"},
		},
	}

	meeting, attendees := eventToMeeting(event, testUserEmail)

	if meeting.Title != "Pilot review" || meeting.Location != "Room 4" {
		t.Errorf("Meeting fields wrong: %+v", meeting)
	}
	if meeting.Status != models.MeetingScheduled {
		t.Errorf("Expected SCHEDULED, got %s", meeting.Status)
	}
	if meeting.StartTime == nil || meeting.EndTime == nil {
		t.Fatal("Times were not parsed")
	}
	if meeting.EndTime.Sub(*meeting.StartTime).Hours() != 1 {
		t.Error("Wrong duration after parse")
	}

	// Self and resource attendees are excluded; Bob has no display
	// name so his email is used.
	if len(attendees) != 2 {
		t.Fatalf("Expected 2 attendees, got %d", len(attendees))
	}
	if attendees[0].Name != "Alice" {
		t.Errorf("Expected Alice first, got %s", attendees[0].Name)
	}
	if attendees[1].Name != "bob@example.com" {
		t.Errorf("Expected email fallback name, got %s", attendees[1].Name)
	}
	if attendees[1].Notes != "bob@example.com" {
		t.Errorf("Expected email preserved in notes, got %s", attendees[1].Notes)
	}
}

func TestEventToMeetingUntitled(t *testing.T) {
	event := &calendar.Event{
		Start: &calendar.EventDateTime{DateTime: "2026-09-01T09:00:00Z"},
	}
	meeting, _ := eventToMeeting(event, testUserEmail)
	if meeting.Title != "(untitled meeting)" {
		t.Errorf("Expected placeholder title, got %q", meeting.Title)
	}
}

func TestNewImportIDUnique(t *testing.T) {
	a := newImportID()
	b := newImportID()
	if a == "" || a == b {
		t.Errorf("Import IDs should be unique and non-empty: %q %q", a, b)
	}
}
