// ABOUTME: Protemoi MCP tool handlers
// ABOUTME: Implements add, list, touch, and stage-move tools for nurture entries
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

type ProtemoiHandlers struct {
	stores *store.Stores
}

func NewProtemoiHandlers(stores *store.Stores) *ProtemoiHandlers {
	return &ProtemoiHandlers{stores: stores}
}

type AddProtemoiInput struct {
	ContactName      string `json:"contact_name" jsonschema:"Contact name (required; looked up or created)"`
	RelationshipType string `json:"relationship_type" jsonschema:"PROSPECT, CLIENT, PARTNER, ADVOCATE, SPONSOR, PEER, or LEADER (required)"`
	Stage            string `json:"stage,omitempty" jsonschema:"Relationship stage (default TARGET)"`
	NextStep         string `json:"next_step,omitempty" jsonschema:"Next nurture action"`
	DueDate          string `json:"due_date,omitempty" jsonschema:"Next-step due date (RFC3339)"`
	Importance       *int   `json:"importance,omitempty" jsonschema:"Importance 0-100"`
}

type ProtemoiOutput struct {
	ID               string  `json:"id"`
	ContactID        string  `json:"contact_id"`
	ContactName      string  `json:"contact_name,omitempty"`
	RelationshipType string  `json:"relationship_type"`
	Stage            string  `json:"stage"`
	NextStep         string  `json:"next_step,omitempty"`
	DueDate          *string `json:"due_date,omitempty"`
	LastTouchAt      *string `json:"last_touch_at,omitempty"`
	NextTouchAt      *string `json:"next_touch_at,omitempty"`
	Importance       *int    `json:"importance,omitempty"`
	Internal         bool    `json:"internal"`
}

func protemoiToOutput(e *models.ProtemoiEntry, contactName string) ProtemoiOutput {
	return ProtemoiOutput{
		ID:               e.ID,
		ContactID:        e.ContactID,
		ContactName:      contactName,
		RelationshipType: string(e.RelationshipType),
		Stage:            string(e.Stage),
		NextStep:         e.NextStep,
		DueDate:          timePtrString(e.DueDate),
		LastTouchAt:      timePtrString(e.LastTouchAt),
		NextTouchAt:      timePtrString(e.NextTouchAt),
		Importance:       e.Importance,
		Internal:         e.Internal,
	}
}

func (h *ProtemoiHandlers) AddProtemoi(ctx context.Context, request *mcp.CallToolRequest, input AddProtemoiInput) (*mcp.CallToolResult, ProtemoiOutput, error) {
	if input.ContactName == "" {
		return nil, ProtemoiOutput{}, fmt.Errorf("contact_name is required")
	}
	relType := models.RelationshipType(input.RelationshipType)
	if !relType.Valid() {
		return nil, ProtemoiOutput{}, fmt.Errorf("invalid relationship_type: %s", input.RelationshipType)
	}
	stage := models.RelStageTarget
	if input.Stage != "" {
		stage = models.RelationshipStage(input.Stage)
	}
	if !stage.ValidFor(relType.Internal()) {
		return nil, ProtemoiOutput{}, fmt.Errorf("stage %s is not valid for relationship type %s", stage, relType)
	}
	dueDate, err := parseTimePtr(input.DueDate)
	if err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("invalid due_date: %w", err)
	}

	contacts, err := h.stores.Contacts.Search(ctx, input.ContactName)
	if err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("failed to look up contact: %w", err)
	}
	var contact *models.Contact
	if len(contacts) > 0 {
		contact = &contacts[0]
	} else {
		contact = &models.Contact{Name: input.ContactName}
		if err := h.stores.Contacts.Save(ctx, contact); err != nil {
			return nil, ProtemoiOutput{}, fmt.Errorf("failed to create contact: %w", err)
		}
	}

	entry := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		OrganizationID:   contact.OrganizationID,
		RelationshipType: relType,
		Stage:            stage,
		NextStep:         input.NextStep,
		DueDate:          dueDate,
		Importance:       input.Importance,
		Internal:         relType.Internal(),
	}
	if err := h.stores.Protemoi.Save(ctx, entry); err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("failed to save protemoi entry: %w", err)
	}

	return nil, protemoiToOutput(entry, contact.Name), nil
}

type ListProtemoiInput struct{}

type ListProtemoiOutput struct {
	Entries []ProtemoiOutput `json:"entries"`
}

func (h *ProtemoiHandlers) ListProtemoi(ctx context.Context, request *mcp.CallToolRequest, input ListProtemoiInput) (*mcp.CallToolResult, ListProtemoiOutput, error) {
	entries, err := h.stores.Protemoi.FindAll(ctx)
	if err != nil {
		return nil, ListProtemoiOutput{}, fmt.Errorf("failed to list protemoi entries: %w", err)
	}

	var out ListProtemoiOutput
	for i := range entries {
		name := ""
		// Contact lookup failures degrade to a blank name.
		if contact, err := h.stores.Contacts.FindByID(ctx, entries[i].ContactID); err == nil && contact != nil {
			name = contact.Name
		}
		out.Entries = append(out.Entries, protemoiToOutput(&entries[i], name))
	}
	return nil, out, nil
}

type TouchProtemoiInput struct {
	ID          string `json:"id" jsonschema:"Protemoi entry ID (required)"`
	NextStep    string `json:"next_step,omitempty" jsonschema:"New next step after the touch"`
	NextTouchAt string `json:"next_touch_at,omitempty" jsonschema:"When to touch next (RFC3339)"`
	Stage       string `json:"stage,omitempty" jsonschema:"Move to a new relationship stage"`
}

// TouchProtemoi records a touch now and optionally advances the stage.
func (h *ProtemoiHandlers) TouchProtemoi(ctx context.Context, request *mcp.CallToolRequest, input TouchProtemoiInput) (*mcp.CallToolResult, ProtemoiOutput, error) {
	if input.ID == "" {
		return nil, ProtemoiOutput{}, fmt.Errorf("id is required")
	}
	entry, err := h.stores.Protemoi.FindByID(ctx, input.ID)
	if err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("failed to load protemoi entry: %w", err)
	}
	if entry == nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("protemoi entry not found: %s", input.ID)
	}

	now := time.Now().UTC()
	entry.LastTouchAt = &now
	if input.NextStep != "" {
		entry.NextStep = input.NextStep
	}
	nextTouch, err := parseTimePtr(input.NextTouchAt)
	if err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("invalid next_touch_at: %w", err)
	}
	if nextTouch != nil {
		entry.NextTouchAt = nextTouch
	}
	if input.Stage != "" {
		stage := models.RelationshipStage(input.Stage)
		if !stage.ValidFor(entry.Internal) {
			return nil, ProtemoiOutput{}, fmt.Errorf("stage %s is not valid for this relationship", stage)
		}
		entry.Stage = stage
	}

	if err := h.stores.Protemoi.Save(ctx, entry); err != nil {
		return nil, ProtemoiOutput{}, fmt.Errorf("failed to save protemoi entry: %w", err)
	}

	name := ""
	if contact, err := h.stores.Contacts.FindByID(ctx, entry.ContactID); err == nil && contact != nil {
		name = contact.Name
	}
	return nil, protemoiToOutput(entry, name), nil
}
