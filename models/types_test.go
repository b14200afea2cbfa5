// ABOUTME: Tests for model enums and task helpers
package models

import "testing"

func TestRelationshipStageValidFor(t *testing.T) {
	cases := []struct {
		stage    RelationshipStage
		internal bool
		want     bool
	}{
		{RelStageTarget, false, true},
		{RelStageTarget, true, true},
		{RelStageTrustedAdvisor, false, true},
		{RelStageTrustedAdvisor, true, false},
		{RelStageAlly, true, true},
		{RelStageAlly, false, false},
		{RelStageRavingFan, false, true},
		{RelStageRavingFan, true, true},
		{"BOGUS", false, false},
	}
	for _, c := range cases {
		if got := c.stage.ValidFor(c.internal); got != c.want {
			t.Errorf("%s.ValidFor(%v) = %v, want %v", c.stage, c.internal, got, c.want)
		}
	}
}

func TestRelationshipTypeInternal(t *testing.T) {
	internal := []RelationshipType{RelTypeSponsor, RelTypePeer, RelTypeLeader}
	for _, rt := range internal {
		if !rt.Internal() {
			t.Errorf("%s should be internal", rt)
		}
	}
	external := []RelationshipType{RelTypeProspect, RelTypeClient, RelTypePartner, RelTypeAdvocate}
	for _, rt := range external {
		if rt.Internal() {
			t.Errorf("%s should be external", rt)
		}
	}
}

func TestTaskQualifiesAsMIT(t *testing.T) {
	// Non-MIT tasks never need the qualifiers.
	plain := &Task{Type: TaskNextStep}
	if !plain.QualifiesAsMIT() {
		t.Error("NEXT_STEP task should always qualify")
	}

	incomplete := &Task{Type: TaskMIT, BigImpact: "land the deal"}
	if incomplete.QualifiesAsMIT() {
		t.Error("MIT without all three qualifiers should not qualify")
	}

	complete := &Task{
		Type:           TaskMIT,
		BigImpact:      "land the deal",
		InControl:      "I own the draft",
		GrowthOriented: "opens the enterprise segment",
	}
	if !complete.QualifiesAsMIT() {
		t.Error("MIT with all qualifiers should qualify")
	}
}

func TestTaskPrimaryLink(t *testing.T) {
	task := &Task{}
	if task.PrimaryLink() != nil {
		t.Error("Unlinked task should have nil primary link")
	}

	task.Links = []TaskLink{
		{EntityType: LinkOpportunity, EntityID: "opp-1"},
		{EntityType: LinkContact, EntityID: "contact-1"},
	}
	primary := task.PrimaryLink()
	if primary == nil || primary.EntityID != "opp-1" {
		t.Errorf("Expected first link as primary, got %+v", primary)
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	if TaskTodo.Terminal() || TaskInProgress.Terminal() {
		t.Error("Open statuses should not be terminal")
	}
	if !TaskDone.Terminal() || !TaskCanceled.Terminal() {
		t.Error("DONE and CANCELED should be terminal")
	}
}

func TestOpportunityStageValid(t *testing.T) {
	for _, stage := range OpportunityStages {
		if !stage.Valid() {
			t.Errorf("%s should be valid", stage)
		}
	}
	if OpportunityStage("CLOSING").Valid() {
		t.Error("Unknown stage should be invalid")
	}
}
