// ABOUTME: Meeting CLI commands
// ABOUTME: Log meetings, show upcoming and history, mark complete
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

func parseTimeFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// LogMeetingCommand records a meeting with optional attendees.
func LogMeetingCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("log-meeting", flag.ExitOnError)
	title := fs.String("title", "", "Meeting title (required)")
	start := fs.String("start", "", "Start time (RFC3339)")
	end := fs.String("end", "", "End time (RFC3339)")
	location := fs.String("location", "", "Location or video link")
	oppID := fs.String("opp", "", "Linked opportunity ID")
	attendees := fs.String("attendees", "", "Comma-separated attendee names")
	notes := fs.String("notes", "", "Meeting notes")
	completed := fs.Bool("completed", false, "Mark the meeting as already held")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	startTime, err := parseTimeFlag(*start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	endTime, err := parseTimeFlag(*end)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	meeting := &models.Meeting{
		Title:     *title,
		StartTime: startTime,
		EndTime:   endTime,
		Location:  *location,
		Status:    models.MeetingScheduled,
		Notes:     *notes,
	}
	if *completed {
		meeting.Status = models.MeetingCompleted
	}
	if *oppID != "" {
		meeting.OpportunityID = oppID
	}

	if err := stores.Meetings.Save(ctx, meeting); err != nil {
		return fmt.Errorf("failed to save meeting: %w", err)
	}

	count := 0
	for _, name := range strings.Split(*attendees, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		attendee := &models.MeetingAttendee{
			MeetingID: meeting.ID,
			Name:      name,
		}
		if err := stores.Meetings.SaveAttendee(ctx, attendee); err != nil {
			return fmt.Errorf("failed to save attendee: %w", err)
		}
		count++
	}

	fmt.Printf("✓ Meeting logged: %s (ID: %s)\n", meeting.Title, meeting.ID)
	if count > 0 {
		fmt.Printf("  Attendees: %d\n", count)
	}
	return nil
}

func printMeetingTable(ctx context.Context, stores *store.Stores, meetings []models.Meeting) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTITLE\tSTATUS\tATTENDEES\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t------\t---------\t--")
	for _, m := range meetings {
		when := "-"
		if m.StartTime != nil {
			when = m.StartTime.Format("2006-01-02 15:04")
		}
		attendees, _ := stores.Meetings.AttendeesByMeeting(ctx, m.ID)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			when, m.Title, m.Status, len(attendees), shortID(m.ID))
	}
	_ = w.Flush()
}

// UpcomingMeetingsCommand shows meetings not yet completed, oldest
// start first so missed meetings surface at the top.
func UpcomingMeetingsCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("upcoming", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Maximum meetings to show")
	_ = fs.Parse(args)

	meetings, err := stores.Meetings.FindUpcoming(ctx, *limit)
	if err != nil {
		return fmt.Errorf("failed to list upcoming meetings: %w", err)
	}
	if len(meetings) == 0 {
		fmt.Println("No upcoming meetings")
		return nil
	}
	printMeetingTable(ctx, stores, meetings)
	return nil
}

// MeetingHistoryCommand shows completed meetings, newest first.
func MeetingHistoryCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("meeting-history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Maximum meetings to show")
	_ = fs.Parse(args)

	meetings, err := stores.Meetings.FindHistory(ctx, *limit)
	if err != nil {
		return fmt.Errorf("failed to list meeting history: %w", err)
	}
	if len(meetings) == 0 {
		fmt.Println("No completed meetings")
		return nil
	}
	printMeetingTable(ctx, stores, meetings)
	return nil
}

// CompleteMeetingCommand marks a meeting complete with optional debrief
// notes appended.
func CompleteMeetingCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("complete-meeting", flag.ExitOnError)
	notes := fs.String("notes", "", "Debrief notes to append")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("meeting ID is required")
	}
	id := fs.Args()[0]

	meeting, err := stores.Meetings.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return fmt.Errorf("meeting not found: %s", id)
	}

	meeting.Status = models.MeetingCompleted
	if *notes != "" {
		if meeting.Notes != "" {
			meeting.Notes += "\n\n"
		}
		meeting.Notes += *notes
	}
	if err := stores.Meetings.Save(ctx, meeting); err != nil {
		return fmt.Errorf("failed to complete meeting: %w", err)
	}

	fmt.Printf("✓ Meeting completed: %s\n", meeting.Title)
	return nil
}
