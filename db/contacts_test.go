// ABOUTME: Tests for contact persistence
// ABOUTME: Covers organization filters, enum pointers, and cascade to protemoi
package db

import (
	"context"
	"errors"
	"testing"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

func TestContactRoundTrip(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	thinking := models.ThinkAnalytical
	buyIn := models.BuyInEconomic
	contact := &models.Contact{
		Name:               "Alice Moyo",
		Title:              "CFO",
		Email:              "alice@example.com",
		Phone:              "+27 11 555 0100",
		ThinkingPreference: &thinking,
		BuyInRole:          &buyIn,
		Notes:              "Prefers numbers up front",
	}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.Contacts.FindByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Contact not found after save")
	}
	if found.Email != "alice@example.com" || found.Title != "CFO" {
		t.Errorf("Round trip lost data: %+v", found)
	}
	if found.ThinkingPreference == nil || *found.ThinkingPreference != models.ThinkAnalytical {
		t.Error("ThinkingPreference did not round trip")
	}
	if found.BuyInRole == nil || *found.BuyInRole != models.BuyInEconomic {
		t.Error("BuyInRole did not round trip")
	}
}

func TestContactOptionalFieldsStayNil(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	contact := &models.Contact{Name: "Bare Minimum"}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.Contacts.FindByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.OrganizationID != nil {
		t.Error("OrganizationID should be nil")
	}
	if found.ThinkingPreference != nil || found.BuyInRole != nil {
		t.Error("Enum pointers should be nil when never set")
	}
}

func TestContactFindByOrganizationID(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	org := &models.Organization{Name: "Acme"}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		t.Fatalf("Save org failed: %v", err)
	}

	for _, name := range []string{"Alice", "Bob"} {
		c := &models.Contact{Name: name, OrganizationID: &org.ID}
		if err := stores.Contacts.Save(ctx, c); err != nil {
			t.Fatalf("Save contact failed: %v", err)
		}
	}
	if err := stores.Contacts.Save(ctx, &models.Contact{Name: "Charlie"}); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}

	contacts, err := stores.Contacts.FindByOrganizationID(ctx, org.ID)
	if err != nil {
		t.Fatalf("FindByOrganizationID failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("Expected 2 contacts for organization, got %d", len(contacts))
	}
}

func TestContactDeleteCascadesProtemoi(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	contact := &models.Contact{Name: "Alice"}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}
	entry := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		RelationshipType: models.RelTypeProspect,
		Stage:            models.RelStageTarget,
	}
	if err := stores.Protemoi.Save(ctx, entry); err != nil {
		t.Fatalf("Save protemoi failed: %v", err)
	}

	if err := stores.Contacts.Delete(ctx, contact.ID); err != nil {
		t.Fatalf("Delete contact failed: %v", err)
	}

	found, err := stores.Protemoi.FindByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("FindByID protemoi failed: %v", err)
	}
	if found != nil {
		t.Error("Protemoi entry survived its contact's deletion")
	}
}

func TestContactSaveUnknownOrganization(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	orgID := "no-such-org"
	contact := &models.Contact{Name: "Orphan", OrganizationID: &orgID}
	err := stores.Contacts.Save(ctx, contact)
	if !errors.Is(err, store.ErrConstraint) {
		t.Fatalf("Expected store.ErrConstraint for unknown organization, got %v", err)
	}
}
