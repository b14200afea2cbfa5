// ABOUTME: Tests for the meeting-prep payload round trip
package models

import "testing"

func TestMeetingPrepRoundTrip(t *testing.T) {
	m := &Meeting{Title: "Kickoff"}
	prep := &MeetingPrep{
		Goal:      "Agree on pilot scope",
		Attendees: []string{"Alice", "Bob"},
		Risks:     []string{"Budget freeze"},
		Questions: []string{"Who signs off?"},
		Assets:    []string{"one-pager"},
		NextStep:  "Schedule technical deep dive",
	}
	if err := m.SetPrep(prep); err != nil {
		t.Fatalf("SetPrep failed: %v", err)
	}
	if m.Notes == "" {
		t.Fatal("SetPrep did not write notes")
	}

	got, err := m.Prep()
	if err != nil {
		t.Fatalf("Prep failed: %v", err)
	}
	if got.Goal != prep.Goal || got.NextStep != prep.NextStep {
		t.Errorf("Round trip lost data: %+v", got)
	}
	if len(got.Attendees) != 2 || len(got.Questions) != 1 {
		t.Errorf("Round trip lost lists: %+v", got)
	}
}

func TestMeetingPrepEmptyNotes(t *testing.T) {
	m := &Meeting{}
	prep, err := m.Prep()
	if err != nil {
		t.Fatalf("Prep on empty notes failed: %v", err)
	}
	if prep == nil || prep.Goal != "" {
		t.Errorf("Expected empty prep, got %+v", prep)
	}
}

func TestMeetingPrepInvalidNotes(t *testing.T) {
	m := &Meeting{Notes: "free-form debrief, not JSON"}
	if _, err := m.Prep(); err == nil {
		t.Error("Expected error for non-JSON notes")
	}
}
