// ABOUTME: Opportunity CLI commands
// ABOUTME: Pursuit tracking across the five-stage funnel
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// AddOpportunityCommand creates a new opportunity.
func AddOpportunityCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("add-opp", flag.ExitOnError)
	name := fs.String("name", "", "Opportunity name (required)")
	org := fs.String("org", "", "Organization name")
	stageFlag := fs.String("stage", string(models.StageListenLearn), "Stage: LISTEN_LEARN, CREATE_CURIOSITY, BUILD_TOGETHER, GAIN_APPROVAL, RETAIN_EXPAND")
	nextStep := fs.String("next-step", "", "Concrete next action")
	valueCents := fs.Int64("value-cents", 0, "Deal value in cents")
	currencyFlag := fs.String("currency", string(models.CurrencyUSD), "Currency: USD, GBP, ZAR")
	sponsor := fs.String("sponsor", "", "Internal sponsor")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	stage := models.OpportunityStage(*stageFlag)
	if !stage.Valid() {
		return fmt.Errorf("invalid stage: %s", *stageFlag)
	}
	currency := models.Currency(*currencyFlag)
	if !currency.Valid() {
		return fmt.Errorf("invalid currency: %s", *currencyFlag)
	}

	opp := &models.Opportunity{
		Name:     *name,
		Stage:    stage,
		Status:   models.StatusOpen,
		NextStep: *nextStep,
		Currency: currency,
		Sponsor:  *sponsor,
	}
	if *valueCents > 0 {
		opp.ValueCents = valueCents
	}
	if *org != "" {
		orgID, err := findOrCreateOrganization(ctx, stores, *org)
		if err != nil {
			return err
		}
		opp.OrganizationID = &orgID
	}

	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity created: %s (ID: %s)\n", opp.Name, opp.ID)
	fmt.Printf("  Stage: %s\n", opp.Stage)
	if opp.NextStep != "" {
		fmt.Printf("  Next step: %s\n", opp.NextStep)
	}
	return nil
}

// ListOpportunitiesCommand lists opportunities, optionally by stage.
func ListOpportunitiesCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-opps", flag.ExitOnError)
	stageFlag := fs.String("stage", "", "Filter by stage")
	query := fs.String("query", "", "Search by name, sponsor, or next step")
	_ = fs.Parse(args)

	var (
		opps []models.Opportunity
		err  error
	)
	switch {
	case *stageFlag != "":
		stage := models.OpportunityStage(*stageFlag)
		if !stage.Valid() {
			return fmt.Errorf("invalid stage: %s", *stageFlag)
		}
		opps, err = stores.Opportunities.FindAllByStage(ctx, stage)
	case *query != "":
		opps, err = stores.Opportunities.Search(ctx, *query)
	default:
		opps, err = stores.Opportunities.FindAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to find opportunities: %w", err)
	}

	if len(opps) == 0 {
		fmt.Println("No opportunities found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSTAGE\tSTATUS\tVALUE\tNEXT STEP\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t------\t-----\t---------\t--")
	for _, opp := range opps {
		value := "-"
		if opp.ValueCents != nil {
			value = fmt.Sprintf("%s %.2f", opp.Currency, float64(*opp.ValueCents)/100)
		}
		nextStep := opp.NextStep
		if nextStep == "" {
			nextStep = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			opp.Name, opp.Stage, opp.Status, value, nextStep, shortID(opp.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d opportunit(ies)\n", len(opps))
	return nil
}

// UpdateOpportunityCommand updates stage, status, or fields of an
// opportunity.
func UpdateOpportunityCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("update-opp", flag.ExitOnError)
	stageFlag := fs.String("stage", "", "Move to stage")
	statusFlag := fs.String("status", "", "Set status: OPEN, WON, LOST, PAUSED")
	nextStep := fs.String("next-step", "", "New next step")
	obstacle := fs.String("obstacle", "", "Current obstacle")
	sponsor := fs.String("sponsor", "", "Internal sponsor")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("opportunity ID is required")
	}
	id := fs.Args()[0]

	opp, err := stores.Opportunities.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load opportunity: %w", err)
	}
	if opp == nil {
		return fmt.Errorf("opportunity not found: %s", id)
	}

	if *stageFlag != "" {
		stage := models.OpportunityStage(*stageFlag)
		if !stage.Valid() {
			return fmt.Errorf("invalid stage: %s", *stageFlag)
		}
		opp.Stage = stage
	}
	if *statusFlag != "" {
		status := models.OpportunityStatus(*statusFlag)
		if !status.Valid() {
			return fmt.Errorf("invalid status: %s", *statusFlag)
		}
		opp.Status = status
	}
	if *nextStep != "" {
		opp.NextStep = *nextStep
	}
	if *obstacle != "" {
		opp.Obstacle = *obstacle
	}
	if *sponsor != "" {
		opp.Sponsor = *sponsor
	}

	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		return fmt.Errorf("failed to update opportunity: %w", err)
	}

	fmt.Printf("✓ Opportunity updated: %s (%s / %s)\n", opp.Name, opp.Stage, opp.Status)
	return nil
}

// PipelineCommand prints open opportunities grouped by stage.
func PipelineCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	_ = fs.Parse(args)

	opps, err := stores.Opportunities.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load opportunities: %w", err)
	}

	byStage := make(map[models.OpportunityStage][]models.Opportunity)
	for _, opp := range opps {
		if opp.Status != models.StatusOpen {
			continue
		}
		byStage[opp.Stage] = append(byStage[opp.Stage], opp)
	}

	for _, stage := range models.OpportunityStages {
		group := byStage[stage]
		fmt.Printf("%s (%d)\n", stage, len(group))
		for _, opp := range group {
			next := opp.NextStep
			if next == "" {
				next = "no next step"
			}
			fmt.Printf("  - %s: %s\n", opp.Name, next)
		}
	}
	return nil
}
