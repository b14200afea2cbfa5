// ABOUTME: Meeting MCP tool handlers
// ABOUTME: Implements log, upcoming, history, complete, and prep tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

const defaultMeetingLimit = 10

type MeetingHandlers struct {
	stores *store.Stores
}

func NewMeetingHandlers(stores *store.Stores) *MeetingHandlers {
	return &MeetingHandlers{stores: stores}
}

type LogMeetingInput struct {
	Title         string   `json:"title" jsonschema:"Meeting title (required)"`
	StartTime     string   `json:"start_time,omitempty" jsonschema:"Start time (RFC3339)"`
	EndTime       string   `json:"end_time,omitempty" jsonschema:"End time (RFC3339)"`
	Location      string   `json:"location,omitempty" jsonschema:"Location or video link"`
	OpportunityID string   `json:"opportunity_id,omitempty" jsonschema:"Linked opportunity ID"`
	Attendees     []string `json:"attendees,omitempty" jsonschema:"Attendee names"`
	Notes         string   `json:"notes,omitempty" jsonschema:"Meeting notes"`
	Completed     bool     `json:"completed,omitempty" jsonschema:"Mark the meeting as already held"`
}

type AttendeeOutput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ContactID *string `json:"contact_id,omitempty"`
	Role      string  `json:"role,omitempty"`
}

type MeetingOutput struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	StartTime     *string          `json:"start_time,omitempty"`
	EndTime       *string          `json:"end_time,omitempty"`
	Location      string           `json:"location,omitempty"`
	Status        string           `json:"status"`
	OpportunityID *string          `json:"opportunity_id,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	Attendees     []AttendeeOutput `json:"attendees,omitempty"`
}

func meetingToOutput(m *models.Meeting, attendees []models.MeetingAttendee) MeetingOutput {
	out := MeetingOutput{
		ID:            m.ID,
		Title:         m.Title,
		StartTime:     timePtrString(m.StartTime),
		EndTime:       timePtrString(m.EndTime),
		Location:      m.Location,
		Status:        string(m.Status),
		OpportunityID: m.OpportunityID,
		Notes:         m.Notes,
	}
	for i := range attendees {
		out.Attendees = append(out.Attendees, AttendeeOutput{
			ID:        attendees[i].ID,
			Name:      attendees[i].Name,
			ContactID: attendees[i].ContactID,
			Role:      attendees[i].Role,
		})
	}
	return out
}

func (h *MeetingHandlers) LogMeeting(ctx context.Context, request *mcp.CallToolRequest, input LogMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	if input.Title == "" {
		return nil, MeetingOutput{}, fmt.Errorf("title is required")
	}
	start, err := parseTimePtr(input.StartTime)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := parseTimePtr(input.EndTime)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("invalid end_time: %w", err)
	}

	meeting := &models.Meeting{
		Title:         input.Title,
		StartTime:     start,
		EndTime:       end,
		Location:      input.Location,
		Status:        models.MeetingScheduled,
		OpportunityID: strPtrOrNil(input.OpportunityID),
		Notes:         input.Notes,
	}
	if input.Completed {
		meeting.Status = models.MeetingCompleted
	}
	if err := h.stores.Meetings.Save(ctx, meeting); err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to save meeting: %w", err)
	}

	var saved []models.MeetingAttendee
	for _, name := range input.Attendees {
		if name == "" {
			continue
		}
		attendee := &models.MeetingAttendee{
			MeetingID: meeting.ID,
			Name:      name,
		}
		if err := h.stores.Meetings.SaveAttendee(ctx, attendee); err != nil {
			return nil, MeetingOutput{}, fmt.Errorf("failed to save attendee: %w", err)
		}
		saved = append(saved, *attendee)
	}

	return nil, meetingToOutput(meeting, saved), nil
}

type UpcomingMeetingsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum meetings to return (default 10)"`
}

type MeetingListOutput struct {
	Meetings []MeetingOutput `json:"meetings"`
}

func (h *MeetingHandlers) UpcomingMeetings(ctx context.Context, request *mcp.CallToolRequest, input UpcomingMeetingsInput) (*mcp.CallToolResult, MeetingListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultMeetingLimit
	}
	meetings, err := h.stores.Meetings.FindUpcoming(ctx, limit)
	if err != nil {
		return nil, MeetingListOutput{}, fmt.Errorf("failed to list upcoming meetings: %w", err)
	}
	return nil, h.listOutput(ctx, meetings), nil
}

type MeetingHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum meetings to return (default 10)"`
}

func (h *MeetingHandlers) MeetingHistory(ctx context.Context, request *mcp.CallToolRequest, input MeetingHistoryInput) (*mcp.CallToolResult, MeetingListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultMeetingLimit
	}
	meetings, err := h.stores.Meetings.FindHistory(ctx, limit)
	if err != nil {
		return nil, MeetingListOutput{}, fmt.Errorf("failed to list meeting history: %w", err)
	}
	return nil, h.listOutput(ctx, meetings), nil
}

func (h *MeetingHandlers) listOutput(ctx context.Context, meetings []models.Meeting) MeetingListOutput {
	var out MeetingListOutput
	for i := range meetings {
		// Attendee lookup failures degrade to an empty attendee list.
		attendees, _ := h.stores.Meetings.AttendeesByMeeting(ctx, meetings[i].ID)
		out.Meetings = append(out.Meetings, meetingToOutput(&meetings[i], attendees))
	}
	return out
}

type CompleteMeetingInput struct {
	ID    string `json:"id" jsonschema:"Meeting ID (required)"`
	Notes string `json:"notes,omitempty" jsonschema:"Debrief notes to append"`
}

func (h *MeetingHandlers) CompleteMeeting(ctx context.Context, request *mcp.CallToolRequest, input CompleteMeetingInput) (*mcp.CallToolResult, MeetingOutput, error) {
	if input.ID == "" {
		return nil, MeetingOutput{}, fmt.Errorf("id is required")
	}
	meeting, err := h.stores.Meetings.FindByID(ctx, input.ID)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, MeetingOutput{}, fmt.Errorf("meeting not found: %s", input.ID)
	}

	meeting.Status = models.MeetingCompleted
	if input.Notes != "" {
		if meeting.Notes != "" {
			meeting.Notes += "\n\n"
		}
		meeting.Notes += input.Notes
	}
	if err := h.stores.Meetings.Save(ctx, meeting); err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to complete meeting: %w", err)
	}

	attendees, _ := h.stores.Meetings.AttendeesByMeeting(ctx, meeting.ID)
	return nil, meetingToOutput(meeting, attendees), nil
}

type SetMeetingPrepInput struct {
	ID        string   `json:"id" jsonschema:"Meeting ID (required)"`
	Goal      string   `json:"goal,omitempty" jsonschema:"What you want out of the meeting"`
	Risks     []string `json:"risks,omitempty" jsonschema:"Risks and how to mitigate them"`
	Questions []string `json:"questions,omitempty" jsonschema:"Questions to ask"`
	Assets    []string `json:"assets,omitempty" jsonschema:"Assets to bring or send"`
	NextStep  string   `json:"next_step,omitempty" jsonschema:"Proposed next step to land"`
}

func (h *MeetingHandlers) SetMeetingPrep(ctx context.Context, request *mcp.CallToolRequest, input SetMeetingPrepInput) (*mcp.CallToolResult, MeetingOutput, error) {
	if input.ID == "" {
		return nil, MeetingOutput{}, fmt.Errorf("id is required")
	}
	meeting, err := h.stores.Meetings.FindByID(ctx, input.ID)
	if err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to load meeting: %w", err)
	}
	if meeting == nil {
		return nil, MeetingOutput{}, fmt.Errorf("meeting not found: %s", input.ID)
	}

	attendees, _ := h.stores.Meetings.AttendeesByMeeting(ctx, meeting.ID)
	var names []string
	for i := range attendees {
		names = append(names, attendees[i].Name)
	}

	prep := &models.MeetingPrep{
		Goal:      input.Goal,
		Attendees: names,
		Risks:     input.Risks,
		Questions: input.Questions,
		Assets:    input.Assets,
		NextStep:  input.NextStep,
	}
	if err := meeting.SetPrep(prep); err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to encode prep: %w", err)
	}
	if err := h.stores.Meetings.Save(ctx, meeting); err != nil {
		return nil, MeetingOutput{}, fmt.Errorf("failed to save meeting: %w", err)
	}

	return nil, meetingToOutput(meeting, attendees), nil
}
