// ABOUTME: Meeting-preparation payload serialized into Meeting.Notes
// ABOUTME: Typed here, treated as opaque text by the persistence layer
package models

import "encoding/json"

// MeetingPrep is the structured preparation document for a meeting. It
// round-trips through Meeting.Notes as JSON.
type MeetingPrep struct {
	Goal      string   `json:"goal,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
	Risks     []string `json:"risks,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Assets    []string `json:"assets,omitempty"`
	NextStep  string   `json:"next_step,omitempty"`
}

// SetPrep serializes prep into the meeting's notes field.
func (m *Meeting) SetPrep(prep *MeetingPrep) error {
	data, err := json.Marshal(prep)
	if err != nil {
		return err
	}
	m.Notes = string(data)
	return nil
}

// Prep parses the meeting's notes field as a prep document. Empty notes
// yield an empty prep, not an error.
func (m *Meeting) Prep() (*MeetingPrep, error) {
	prep := &MeetingPrep{}
	if m.Notes == "" {
		return prep, nil
	}
	if err := json.Unmarshal([]byte(m.Notes), prep); err != nil {
		return nil, err
	}
	return prep, nil
}
