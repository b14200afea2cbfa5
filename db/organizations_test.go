// ABOUTME: Tests for organization persistence
// ABOUTME: Covers round-trip, search, upsert, and delete semantics
package db

import (
	"context"
	"testing"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestOrganizationRoundTrip(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{
		Name:     "Acme Industrial",
		Industry: "Manufacturing",
		Notes:    "Met at the trade show",
	}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if org.ID == "" {
		t.Fatal("Organization ID was not set")
	}
	if org.CreatedAt.IsZero() || org.UpdatedAt.IsZero() {
		t.Error("Timestamps were not set")
	}

	found, err := stores.Organizations.FindByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Organization not found after save")
	}
	if found.Name != "Acme Industrial" || found.Industry != "Manufacturing" {
		t.Errorf("Round trip lost data: %+v", found)
	}
}

func TestOrganizationFindByIDNotFound(t *testing.T) {
	stores := setupTestStores(t)

	found, err := stores.Organizations.FindByID(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("FindByID returned error for missing row: %v", err)
	}
	if found != nil {
		t.Errorf("Expected nil for missing organization, got %+v", found)
	}
}

func TestOrganizationSaveUpserts(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{Name: "Before"}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	org.Name = "After"
	org.Industry = "Finance"
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Second Save failed: %v", err)
	}

	all, err := stores.Organizations.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 organization after upsert, got %d", len(all))
	}
	if all[0].Name != "After" || all[0].Industry != "Finance" {
		t.Errorf("Upsert did not apply: %+v", all[0])
	}
}

func TestOrganizationSearch(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	for _, name := range []string{"Acme Corp", "Globex", "Acme Labs"} {
		if err := stores.Organizations.Save(ctx, &models.Organization{Name: name}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	results, err := stores.Organizations.Search(ctx, "acme")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 matches for 'acme', got %d", len(results))
	}
}

func TestOrganizationDeleteIdempotent(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{Name: "Ephemeral"}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := stores.Organizations.Delete(ctx, org.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting again is a no-op, not an error.
	if err := stores.Organizations.Delete(ctx, org.ID); err != nil {
		t.Errorf("Second Delete failed: %v", err)
	}

	found, err := stores.Organizations.FindByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Error("Organization still present after delete")
	}
}

func TestOrganizationDeleteClearsReferences(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{Name: "Acme"}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save org failed: %v", err)
	}
	contact := &models.Contact{Name: "Alice", OrganizationID: &org.ID}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}
	opp := &models.Opportunity{
		Name:           "Acme rollout",
		OrganizationID: &org.ID,
		Stage:          models.StageListenLearn,
		Status:         models.StatusOpen,
		Currency:       models.CurrencyUSD,
	}
	if err := stores.Opportunities.Save(ctx, opp); err != nil {
		t.Fatalf("Save opportunity failed: %v", err)
	}

	if err := stores.Organizations.Delete(ctx, org.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Contact and opportunity survive with the reference cleared.
	foundContact, err := stores.Contacts.FindByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByID contact failed: %v", err)
	}
	if foundContact == nil {
		t.Fatal("Contact was deleted with its organization")
	}
	if foundContact.OrganizationID != nil {
		t.Errorf("Contact organization reference not cleared: %v", *foundContact.OrganizationID)
	}

	foundOpp, err := stores.Opportunities.FindByID(ctx, opp.ID)
	if err != nil {
		t.Fatalf("FindByID opportunity failed: %v", err)
	}
	if foundOpp == nil {
		t.Fatal("Opportunity was deleted with its organization")
	}
	if foundOpp.OrganizationID != nil {
		t.Errorf("Opportunity organization reference not cleared: %v", *foundOpp.OrganizationID)
	}
}
