// ABOUTME: Tests for protemoi entry persistence
// ABOUTME: Covers the one-entry-per-contact constraint and stage progression
package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

func TestProtemoiOneEntryPerContact(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	contact := &models.Contact{Name: "Alice"}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}

	first := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		RelationshipType: models.RelTypeProspect,
		Stage:            models.RelStageTarget,
	}
	if err := stores.Protemoi.Save(ctx, first); err != nil {
		t.Fatalf("First Save failed: %v", err)
	}

	second := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		RelationshipType: models.RelTypeClient,
		Stage:            models.RelStageConnected,
	}
	err := stores.Protemoi.Save(ctx, second)
	if err == nil {
		t.Fatal("Expected constraint error for second entry on same contact")
	}
	if !errors.Is(err, store.ErrConstraint) {
		t.Errorf("Expected store.ErrConstraint, got %v", err)
	}

	// Updating the existing entry is still allowed.
	first.Stage = models.RelStageConnected
	if err := stores.Protemoi.Save(ctx, first); err != nil {
		t.Errorf("Updating existing entry failed: %v", err)
	}
}

func TestProtemoiFindByContactID(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	contact := &models.Contact{Name: "Bob"}
	if err := stores.Contacts.Save(ctx, contact); err != nil {
		t.Fatalf("Save contact failed: %v", err)
	}

	missing, err := stores.Protemoi.FindByContactID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByContactID failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil before entry exists")
	}

	entry := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		RelationshipType: models.RelTypeSponsor,
		Stage:            models.RelStageAlly,
		Internal:         true,
	}
	if err := stores.Protemoi.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.Protemoi.FindByContactID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByContactID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Entry not found by contact ID")
	}
	if !found.Internal {
		t.Error("Internal flag did not round trip")
	}
	if found.Stage != models.RelStageAlly {
		t.Errorf("Expected stage ALLY, got %s", found.Stage)
	}
}

func TestProtemoiStageProgression(t *testing.T) {
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

	entry := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		OrganizationID:   &org.ID,
		RelationshipType: models.RelTypeProspect,
		Stage:            models.RelStageTarget,
		NextStep:         "Send intro note",
	}
	if err := stores.Protemoi.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stages := []models.RelationshipStage{
		models.RelStageConnected,
		models.RelStageEngaged,
		models.RelStageTrustedAdvisor,
		models.RelStageRavingFan,
	}
	for _, stage := range stages {
		now := time.Now().UTC()
		entry.Stage = stage
		entry.LastTouchAt = &now
		if err := stores.Protemoi.Save(ctx, entry); err != nil {
			t.Fatalf("Save at stage %s failed: %v", stage, err)
		}
	}

	found, err := stores.Protemoi.FindByContactID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("FindByContactID failed: %v", err)
	}
	if found.Stage != models.RelStageRavingFan {
		t.Errorf("Expected final stage RAVING_FAN, got %s", found.Stage)
	}
	if found.LastTouchAt == nil {
		t.Error("LastTouchAt did not persist")
	}
}
