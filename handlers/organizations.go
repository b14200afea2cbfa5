// ABOUTME: Organization MCP tool handlers
// ABOUTME: Implements add_organization and find_organizations tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

type OrganizationHandlers struct {
	stores *store.Stores
}

func NewOrganizationHandlers(stores *store.Stores) *OrganizationHandlers {
	return &OrganizationHandlers{stores: stores}
}

type AddOrganizationInput struct {
	Name     string `json:"name" jsonschema:"Organization name (required)"`
	Industry string `json:"industry,omitempty" jsonschema:"Industry sector"`
	Notes    string `json:"notes,omitempty" jsonschema:"Free-text notes"`
}

type OrganizationOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Industry  string `json:"industry,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func organizationToOutput(org *models.Organization) OrganizationOutput {
	return OrganizationOutput{
		ID:        org.ID,
		Name:      org.Name,
		Industry:  org.Industry,
		Notes:     org.Notes,
		CreatedAt: timeString(org.CreatedAt),
		UpdatedAt: timeString(org.UpdatedAt),
	}
}

func (h *OrganizationHandlers) AddOrganization(ctx context.Context, request *mcp.CallToolRequest, input AddOrganizationInput) (*mcp.CallToolResult, OrganizationOutput, error) {
	if input.Name == "" {
		return nil, OrganizationOutput{}, fmt.Errorf("name is required")
	}

	org := &models.Organization{
		Name:     input.Name,
		Industry: input.Industry,
		Notes:    input.Notes,
	}
	if err := h.stores.Organizations.Save(ctx, org); err != nil {
		return nil, OrganizationOutput{}, fmt.Errorf("failed to create organization: %w", err)
	}

	return nil, organizationToOutput(org), nil
}

type FindOrganizationsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (name, industry, notes); empty lists all"`
}

type FindOrganizationsOutput struct {
	Organizations []OrganizationOutput `json:"organizations"`
}

func (h *OrganizationHandlers) FindOrganizations(ctx context.Context, request *mcp.CallToolRequest, input FindOrganizationsInput) (*mcp.CallToolResult, FindOrganizationsOutput, error) {
	var (
		orgs []models.Organization
		err  error
	)
	if input.Query == "" {
		orgs, err = h.stores.Organizations.FindAll(ctx)
	} else {
		orgs, err = h.stores.Organizations.Search(ctx, input.Query)
	}
	if err != nil {
		return nil, FindOrganizationsOutput{}, fmt.Errorf("failed to find organizations: %w", err)
	}

	out := make([]OrganizationOutput, len(orgs))
	for i := range orgs {
		out[i] = organizationToOutput(&orgs[i])
	}
	return nil, FindOrganizationsOutput{Organizations: out}, nil
}
