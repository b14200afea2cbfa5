// ABOUTME: Tests for tracker goal persistence
// ABOUTME: Goals are keyed by metric, not by ID
package db

import (
	"context"
	"testing"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestTrackerUpsertByMetric(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	goal := &models.TrackerGoal{Metric: models.MetricMeetingsHeld, Target: 5}
	if err := stores.Tracker.Upsert(ctx, goal); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// A second upsert with a fresh struct for the same metric
	// overwrites the target instead of adding a row.
	replacement := &models.TrackerGoal{Metric: models.MetricMeetingsHeld, Target: 8}
	if err := stores.Tracker.Upsert(ctx, replacement); err != nil {
		t.Fatalf("Second Upsert failed: %v", err)
	}

	all, err := stores.Tracker.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 goal after metric upsert, got %d", len(all))
	}
	if all[0].Target != 8 {
		t.Errorf("Expected target 8, got %v", all[0].Target)
	}
}

func TestTrackerFindByMetric(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	missing, err := stores.Tracker.FindByMetric(ctx, models.MetricMITsCompleted)
	if err != nil {
		t.Fatalf("FindByMetric failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for metric with no goal")
	}

	goal := &models.TrackerGoal{Metric: models.MetricProtemoiTouches, Target: 3}
	if err := stores.Tracker.Upsert(ctx, goal); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	found, err := stores.Tracker.FindByMetric(ctx, models.MetricProtemoiTouches)
	if err != nil {
		t.Fatalf("FindByMetric failed: %v", err)
	}
	if found == nil || found.Target != 3 {
		t.Errorf("Unexpected goal: %+v", found)
	}
}

func TestTrackerDelete(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	goal := &models.TrackerGoal{Metric: models.MetricOpportunitiesOpen, Target: 10}
	if err := stores.Tracker.Upsert(ctx, goal); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := stores.Tracker.Delete(ctx, models.MetricOpportunitiesOpen); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting a metric with no goal is a no-op.
	if err := stores.Tracker.Delete(ctx, models.MetricOpportunitiesOpen); err != nil {
		t.Errorf("Second Delete failed: %v", err)
	}

	found, err := stores.Tracker.FindByMetric(ctx, models.MetricOpportunitiesOpen)
	if err != nil {
		t.Fatalf("FindByMetric failed: %v", err)
	}
	if found != nil {
		t.Error("Goal still present after delete")
	}
}
