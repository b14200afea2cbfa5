// ABOUTME: Week review and tracker goal CLI commands
// ABOUTME: Weekly reflection plus metric targets keyed by name
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// weekBounds returns the Monday 00:00 UTC start and Sunday end of the
// week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

// StartWeekReviewCommand creates (or updates) the review for the
// current week.
func StartWeekReviewCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("week-review", flag.ExitOnError)
	reflection := fs.String("reflection", "", "Reflection text")
	_ = fs.Parse(args)

	start, end := weekBounds(time.Now())

	review, err := stores.WeekReviews.FindLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest review: %w", err)
	}
	if review == nil || !review.WeekStart.Equal(start) {
		review = &models.WeekReview{WeekStart: start, WeekEnd: end}
	}
	if *reflection != "" {
		review.Reflection = *reflection
	}

	if err := stores.WeekReviews.Save(ctx, review); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	fmt.Printf("✓ Week review saved: %s to %s (ID: %s)\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"), review.ID)
	return nil
}

// ShowWeekReviewCommand prints the latest week review and current
// progress against tracker goals.
func ShowWeekReviewCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("show-review", flag.ExitOnError)
	_ = fs.Parse(args)

	review, err := stores.WeekReviews.FindLatest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest review: %w", err)
	}
	if review == nil {
		fmt.Println("No week reviews yet")
		return nil
	}

	fmt.Printf("Week of %s\n", review.WeekStart.Format("2006-01-02"))
	if review.Reflection != "" {
		fmt.Printf("\n%s\n", review.Reflection)
	}

	goals, err := stores.Tracker.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	if len(goals) > 0 {
		fmt.Println("\nGoals:")
		for _, goal := range goals {
			fmt.Printf("  %s: target %.0f\n", goal.Metric, goal.Target)
		}
	}
	return nil
}

// SetGoalCommand sets the weekly target for a tracked metric. Setting
// an existing metric overwrites its target.
func SetGoalCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("set-goal", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 2 {
		return fmt.Errorf("usage: set-goal METRIC TARGET")
	}
	metric := models.TrackerMetric(fs.Args()[0])
	if !metric.Valid() {
		return fmt.Errorf("invalid metric: %s", fs.Args()[0])
	}
	target, err := strconv.ParseFloat(fs.Args()[1], 64)
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}

	goal := &models.TrackerGoal{Metric: metric, Target: target}
	if err := stores.Tracker.Upsert(ctx, goal); err != nil {
		return fmt.Errorf("failed to set goal: %w", err)
	}

	fmt.Printf("✓ Goal set: %s = %.0f\n", metric, target)
	return nil
}

// ListGoalsCommand prints all tracker goals.
func ListGoalsCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-goals", flag.ExitOnError)
	_ = fs.Parse(args)

	goals, err := stores.Tracker.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}
	if len(goals) == 0 {
		fmt.Println("No goals set")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "METRIC\tTARGET")
	_, _ = fmt.Fprintln(w, "------\t------")
	for _, goal := range goals {
		_, _ = fmt.Fprintf(w, "%s\t%.0f\n", goal.Metric, goal.Target)
	}
	_ = w.Flush()
	return nil
}

// DeleteGoalCommand removes the goal for a metric.
func DeleteGoalCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("delete-goal", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("metric is required")
	}
	metric := models.TrackerMetric(fs.Args()[0])
	if !metric.Valid() {
		return fmt.Errorf("invalid metric: %s", fs.Args()[0])
	}

	if err := stores.Tracker.Delete(ctx, metric); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	fmt.Printf("✓ Goal deleted: %s\n", metric)
	return nil
}
