// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, and update_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

type ContactHandlers struct {
	stores *store.Stores
}

func NewContactHandlers(stores *store.Stores) *ContactHandlers {
	return &ContactHandlers{stores: stores}
}

type AddContactInput struct {
	Name             string `json:"name" jsonschema:"Contact name (required)"`
	Title            string `json:"title,omitempty" jsonschema:"Job title"`
	Email            string `json:"email,omitempty" jsonschema:"Email address"`
	Phone            string `json:"phone,omitempty" jsonschema:"Phone number"`
	OrganizationName string `json:"organization_name,omitempty" jsonschema:"Organization name (looked up or created)"`
	Notes            string `json:"notes,omitempty" jsonschema:"Additional notes"`
}

type ContactOutput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Title          string  `json:"title,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func contactToOutput(c *models.Contact) ContactOutput {
	return ContactOutput{
		ID:             c.ID,
		Name:           c.Name,
		Title:          c.Title,
		Email:          c.Email,
		Phone:          c.Phone,
		OrganizationID: c.OrganizationID,
		Notes:          c.Notes,
		CreatedAt:      timeString(c.CreatedAt),
		UpdatedAt:      timeString(c.UpdatedAt),
	}
}

func (h *ContactHandlers) AddContact(ctx context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}

	contact := &models.Contact{
		Name:  input.Name,
		Title: input.Title,
		Email: input.Email,
		Phone: input.Phone,
		Notes: input.Notes,
	}

	if input.OrganizationName != "" {
		orgs, err := h.stores.Organizations.Search(ctx, input.OrganizationName)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("failed to look up organization: %w", err)
		}
		var orgID string
		if len(orgs) > 0 {
			orgID = orgs[0].ID
		} else {
			org := &models.Organization{Name: input.OrganizationName}
			if err := h.stores.Organizations.Save(ctx, org); err != nil {
				return nil, ContactOutput{}, fmt.Errorf("failed to create organization: %w", err)
			}
			orgID = org.ID
		}
		contact.OrganizationID = &orgID
	}

	if err := h.stores.Contacts.Save(ctx, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query          string `json:"query,omitempty" jsonschema:"Search query (name, email, title)"`
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"Filter by organization ID"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	var (
		contacts []models.Contact
		err      error
	)
	switch {
	case input.OrganizationID != "":
		contacts, err = h.stores.Contacts.FindByOrganizationID(ctx, input.OrganizationID)
	case input.Query != "":
		contacts, err = h.stores.Contacts.Search(ctx, input.Query)
	default:
		contacts, err = h.stores.Contacts.FindAll(ctx)
	}
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	out := make([]ContactOutput, len(contacts))
	for i := range contacts {
		out[i] = contactToOutput(&contacts[i])
	}
	return nil, FindContactsOutput{Contacts: out}, nil
}

type UpdateContactInput struct {
	ID    string `json:"id" jsonschema:"Contact ID (required)"`
	Name  string `json:"name,omitempty" jsonschema:"New name"`
	Title string `json:"title,omitempty" jsonschema:"New title"`
	Email string `json:"email,omitempty" jsonschema:"New email"`
	Phone string `json:"phone,omitempty" jsonschema:"New phone"`
	Notes string `json:"notes,omitempty" jsonschema:"New notes"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contact, err := h.stores.Contacts.FindByID(ctx, input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to load contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found: %s", input.ID)
	}

	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.Title != "" {
		contact.Title = input.Title
	}
	if input.Email != "" {
		contact.Email = input.Email
	}
	if input.Phone != "" {
		contact.Phone = input.Phone
	}
	if input.Notes != "" {
		contact.Notes = input.Notes
	}

	if err := h.stores.Contacts.Save(ctx, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}
