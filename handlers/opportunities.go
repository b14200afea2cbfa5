// ABOUTME: Opportunity MCP tool handlers
// ABOUTME: Implements create, find, stage-move, and pipeline tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

type OpportunityHandlers struct {
	stores *store.Stores
}

func NewOpportunityHandlers(stores *store.Stores) *OpportunityHandlers {
	return &OpportunityHandlers{stores: stores}
}

type CreateOpportunityInput struct {
	Name             string `json:"name" jsonschema:"Opportunity name (required)"`
	OrganizationName string `json:"organization_name,omitempty" jsonschema:"Organization name (looked up or created)"`
	Stage            string `json:"stage,omitempty" jsonschema:"Stage: LISTEN_LEARN, CREATE_CURIOSITY, BUILD_TOGETHER, GAIN_APPROVAL, RETAIN_EXPAND (default LISTEN_LEARN)"`
	NextStep         string `json:"next_step,omitempty" jsonschema:"Concrete next action"`
	ValueCents       *int64 `json:"value_cents,omitempty" jsonschema:"Deal value in cents"`
	Currency         string `json:"currency,omitempty" jsonschema:"Currency: USD, GBP, ZAR (default USD)"`
	Probability      *int   `json:"probability,omitempty" jsonschema:"Win probability 0-100"`
	Sponsor          string `json:"sponsor,omitempty" jsonschema:"Internal sponsor name"`
	ExpectedClose    string `json:"expected_close,omitempty" jsonschema:"Expected close date (RFC3339)"`
}

type OpportunityOutput struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	OrganizationID *string `json:"organization_id,omitempty"`
	Stage          string  `json:"stage"`
	Status         string  `json:"status"`
	NextStep       string  `json:"next_step,omitempty"`
	ValueCents     *int64  `json:"value_cents,omitempty"`
	Currency       string  `json:"currency"`
	Probability    *int    `json:"probability,omitempty"`
	Sponsor        string  `json:"sponsor,omitempty"`
	Obstacle       string  `json:"obstacle,omitempty"`
	ExpectedClose  *string `json:"expected_close,omitempty"`
	UpdatedAt      string  `json:"updated_at"`
}

func opportunityToOutput(o *models.Opportunity) OpportunityOutput {
	return OpportunityOutput{
		ID:             o.ID,
		Name:           o.Name,
		OrganizationID: o.OrganizationID,
		Stage:          string(o.Stage),
		Status:         string(o.Status),
		NextStep:       o.NextStep,
		ValueCents:     o.ValueCents,
		Currency:       string(o.Currency),
		Probability:    o.Probability,
		Sponsor:        o.Sponsor,
		Obstacle:       o.Obstacle,
		ExpectedClose:  timePtrString(o.ExpectedClose),
		UpdatedAt:      timeString(o.UpdatedAt),
	}
}

func (h *OpportunityHandlers) CreateOpportunity(ctx context.Context, request *mcp.CallToolRequest, input CreateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if input.Name == "" {
		return nil, OpportunityOutput{}, fmt.Errorf("name is required")
	}

	stage := models.StageListenLearn
	if input.Stage != "" {
		stage = models.OpportunityStage(input.Stage)
		if !stage.Valid() {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
		}
	}
	currency := models.CurrencyUSD
	if input.Currency != "" {
		currency = models.Currency(input.Currency)
		if !currency.Valid() {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid currency: %s", input.Currency)
		}
	}
	expectedClose, err := parseTimePtr(input.ExpectedClose)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("invalid expected_close: %w", err)
	}

	opp := &models.Opportunity{
		Name:          input.Name,
		Stage:         stage,
		Status:        models.StatusOpen,
		NextStep:      input.NextStep,
		ValueCents:    input.ValueCents,
		Currency:      currency,
		Probability:   input.Probability,
		Sponsor:       input.Sponsor,
		ExpectedClose: expectedClose,
	}

	if input.OrganizationName != "" {
		orgs, err := h.stores.Organizations.Search(ctx, input.OrganizationName)
		if err != nil {
			return nil, OpportunityOutput{}, fmt.Errorf("failed to look up organization: %w", err)
		}
		var orgID string
		if len(orgs) > 0 {
			orgID = orgs[0].ID
		} else {
			org := &models.Organization{Name: input.OrganizationName}
			if err := h.stores.Organizations.Save(ctx, org); err != nil {
				return nil, OpportunityOutput{}, fmt.Errorf("failed to create organization: %w", err)
			}
			orgID = org.ID
		}
		opp.OrganizationID = &orgID
	}

	if err := h.stores.Opportunities.Save(ctx, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to create opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type FindOpportunitiesInput struct {
	Query          string `json:"query,omitempty" jsonschema:"Search query (name, sponsor, next step)"`
	Stage          string `json:"stage,omitempty" jsonschema:"Filter by stage"`
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"Filter by organization ID"`
}

type FindOpportunitiesOutput struct {
	Opportunities []OpportunityOutput `json:"opportunities"`
}

func (h *OpportunityHandlers) FindOpportunities(ctx context.Context, request *mcp.CallToolRequest, input FindOpportunitiesInput) (*mcp.CallToolResult, FindOpportunitiesOutput, error) {
	var (
		opps []models.Opportunity
		err  error
	)
	switch {
	case input.Stage != "":
		stage := models.OpportunityStage(input.Stage)
		if !stage.Valid() {
			return nil, FindOpportunitiesOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
		}
		opps, err = h.stores.Opportunities.FindAllByStage(ctx, stage)
	case input.OrganizationID != "":
		opps, err = h.stores.Opportunities.FindByOrganizationID(ctx, input.OrganizationID)
	case input.Query != "":
		opps, err = h.stores.Opportunities.Search(ctx, input.Query)
	default:
		opps, err = h.stores.Opportunities.FindAll(ctx)
	}
	if err != nil {
		return nil, FindOpportunitiesOutput{}, fmt.Errorf("failed to find opportunities: %w", err)
	}

	out := make([]OpportunityOutput, len(opps))
	for i := range opps {
		out[i] = opportunityToOutput(&opps[i])
	}
	return nil, FindOpportunitiesOutput{Opportunities: out}, nil
}

type UpdateOpportunityInput struct {
	ID          string `json:"id" jsonschema:"Opportunity ID (required)"`
	Stage       string `json:"stage,omitempty" jsonschema:"Move to stage"`
	Status      string `json:"status,omitempty" jsonschema:"Set status: OPEN, WON, LOST, PAUSED"`
	NextStep    string `json:"next_step,omitempty" jsonschema:"New next step"`
	ValueCents  *int64 `json:"value_cents,omitempty" jsonschema:"New deal value in cents"`
	Probability *int   `json:"probability,omitempty" jsonschema:"New win probability 0-100"`
	Sponsor     string `json:"sponsor,omitempty" jsonschema:"New sponsor"`
	Obstacle    string `json:"obstacle,omitempty" jsonschema:"Current obstacle"`
}

func (h *OpportunityHandlers) UpdateOpportunity(ctx context.Context, request *mcp.CallToolRequest, input UpdateOpportunityInput) (*mcp.CallToolResult, OpportunityOutput, error) {
	if input.ID == "" {
		return nil, OpportunityOutput{}, fmt.Errorf("id is required")
	}

	opp, err := h.stores.Opportunities.FindByID(ctx, input.ID)
	if err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to load opportunity: %w", err)
	}
	if opp == nil {
		return nil, OpportunityOutput{}, fmt.Errorf("opportunity not found: %s", input.ID)
	}

	if input.Stage != "" {
		stage := models.OpportunityStage(input.Stage)
		if !stage.Valid() {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid stage: %s", input.Stage)
		}
		opp.Stage = stage
	}
	if input.Status != "" {
		status := models.OpportunityStatus(input.Status)
		if !status.Valid() {
			return nil, OpportunityOutput{}, fmt.Errorf("invalid status: %s", input.Status)
		}
		opp.Status = status
	}
	if input.NextStep != "" {
		opp.NextStep = input.NextStep
	}
	if input.ValueCents != nil {
		opp.ValueCents = input.ValueCents
	}
	if input.Probability != nil {
		opp.Probability = input.Probability
	}
	if input.Sponsor != "" {
		opp.Sponsor = input.Sponsor
	}
	if input.Obstacle != "" {
		opp.Obstacle = input.Obstacle
	}

	if err := h.stores.Opportunities.Save(ctx, opp); err != nil {
		return nil, OpportunityOutput{}, fmt.Errorf("failed to update opportunity: %w", err)
	}

	return nil, opportunityToOutput(opp), nil
}

type PipelineInput struct{}

type PipelineStage struct {
	Stage         string              `json:"stage"`
	Count         int                 `json:"count"`
	Opportunities []OpportunityOutput `json:"opportunities"`
}

type PipelineOutput struct {
	Stages []PipelineStage `json:"stages"`
}

// Pipeline groups open opportunities by stage in funnel order.
func (h *OpportunityHandlers) Pipeline(ctx context.Context, request *mcp.CallToolRequest, input PipelineInput) (*mcp.CallToolResult, PipelineOutput, error) {
	opps, err := h.stores.Opportunities.FindAll(ctx)
	if err != nil {
		return nil, PipelineOutput{}, fmt.Errorf("failed to load opportunities: %w", err)
	}

	byStage := make(map[models.OpportunityStage][]OpportunityOutput)
	for i := range opps {
		if opps[i].Status != models.StatusOpen {
			continue
		}
		byStage[opps[i].Stage] = append(byStage[opps[i].Stage], opportunityToOutput(&opps[i]))
	}

	var out PipelineOutput
	for _, stage := range models.OpportunityStages {
		group := byStage[stage]
		out.Stages = append(out.Stages, PipelineStage{
			Stage:         string(stage),
			Count:         len(group),
			Opportunities: group,
		})
	}
	return nil, out, nil
}
