// ABOUTME: Tests for opportunity persistence
// ABOUTME: Covers stage filters, value fields, and upsert semantics
package db

import (
	"context"
	"testing"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestOpportunityRoundTrip(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	value := int64(2_500_000)
	probability := 60
	closeDate := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	opp := &models.Opportunity{
		Name:          "Platform rollout",
		Stage:         models.StageBuildTogether,
		Status:        models.StatusOpen,
		NextStep:      "Share draft SOW by Friday",
		ValueCents:    &value,
		Currency:      models.CurrencyGBP,
		Probability:   &probability,
		Sponsor:       "Priya",
		Obstacle:      "Budget freeze until Q4",
		ExpectedClose: &closeDate,
	}
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.Opportunities.FindByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Opportunity not found after save")
	}
	if found.Stage != models.StageBuildTogether || found.Currency != models.CurrencyGBP {
		t.Errorf("Round trip lost enums: %+v", found)
	}
	if found.ValueCents == nil || *found.ValueCents != 2_500_000 {
		t.Error("ValueCents did not round trip")
	}
	if found.Probability == nil || *found.Probability != 60 {
		t.Error("Probability did not round trip")
	}
	if found.ExpectedClose == nil || !found.ExpectedClose.Equal(closeDate) {
		t.Error("ExpectedClose did not round trip")
	}
}

func TestOpportunityFindAllByStage(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	for i, stage := range []models.OpportunityStage{
		models.StageListenLearn,
		models.StageListenLearn,
		models.StageGainApproval,
	} {
		opp := &models.Opportunity{
			Name:     "Deal " + string(rune('A'+i)),
			Stage:    stage,
			Status:   models.StatusOpen,
			Currency: models.CurrencyUSD,
		}
		if err := stores.Opportunities.Save(ctx, opp); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	listen, err := stores.Opportunities.FindAllByStage(ctx, models.StageListenLearn)
	if err != nil {
		t.Fatalf("FindAllByStage failed: %v", err)
	}
	if len(listen) != 2 {
		t.Errorf("Expected 2 LISTEN_LEARN opportunities, got %d", len(listen))
	}

	approval, err := stores.Opportunities.FindAllByStage(ctx, models.StageGainApproval)
	if err != nil {
		t.Fatalf("FindAllByStage failed: %v", err)
	}
	if len(approval) != 1 {
		t.Errorf("Expected 1 GAIN_APPROVAL opportunity, got %d", len(approval))
	}
}

func TestOpportunityStageMoveAndClose(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	opp := &models.Opportunity{
		Name:     "Renewal",
		Stage:    models.StageListenLearn,
		Status:   models.StatusOpen,
		Currency: models.CurrencyUSD,
	}
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	opp.Stage = models.StageGainApproval
	opp.Status = models.StatusWon
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := stores.Opportunities.FindByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Stage != models.StageGainApproval || found.Status != models.StatusWon {
		t.Errorf("Stage move did not persist: %+v", found)
	}
}

func TestOpportunityFindByOrganizationID(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{Name: "Globex"}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save org failed: %v", err)
	}
	opp := &models.Opportunity{
		Name:           "Globex pilot",
		OrganizationID: &org.ID,
		Stage:          models.StageCreateCuriosity,
		Status:         models.StatusOpen,
		Currency:       models.CurrencyZAR,
	}
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Save opportunity failed: %v", err)
	}

	results, err := stores.Opportunities.FindByOrganizationID(ctx, org.ID)
	if err != nil {
		t.Fatalf("FindByOrganizationID failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Globex pilot" {
		t.Errorf("Unexpected results: %+v", results)
	}
}
