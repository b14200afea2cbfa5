// ABOUTME: Tests for week review persistence
package db

import (
	"context"
	"testing"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
)

func TestWeekReviewFindLatest(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	missing, err := stores.WeekReviews.FindLatest(ctx)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil before any reviews exist")
	}

	older := &models.WeekReview{
		WeekStart:  time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		WeekEnd:    time.Date(2026, 8, 23, 23, 59, 59, 0, time.UTC),
		Reflection: "Slow week",
	}
	if err := stores.WeekReviews.Save(ctx, older); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	newer := &models.WeekReview{
		WeekStart:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekEnd:    time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
		Reflection: "Two deals advanced",
	}
	if err := stores.WeekReviews.Save(ctx, newer); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	latest, err := stores.WeekReviews.FindLatest(ctx)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest == nil {
		t.Fatal("Expected a latest review")
	}
	if latest.Reflection != "Two deals advanced" {
		t.Errorf("Expected newest review, got %q", latest.Reflection)
	}
}

func TestWeekReviewRoundTrip(t *testing.T) {
	stores := setupTestStores(t)
	ctx := context.Background()

	review := &models.WeekReview{
		WeekStart:  time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		WeekEnd:    time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
		Reflection: "Kept all protemoi touches",
	}
	if err := stores.WeekReviews.Save(ctx, review); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := stores.WeekReviews.FindByID(ctx, review.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil {
		t.Fatal("Review not found after save")
	}
	if !found.WeekStart.Equal(review.WeekStart) {
		t.Errorf("WeekStart did not round trip: %v vs %v", found.WeekStart, review.WeekStart)
	}
	if found.Reflection != "Kept all protemoi touches" {
		t.Errorf("Reflection did not round trip: %q", found.Reflection)
	}
}
