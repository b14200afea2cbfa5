// ABOUTME: Coach CLI command
// ABOUTME: AI quality scoring for next steps and MIT tasks
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gsteen1788/bd-os-sub000/eval"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// CoachCommand scores a next step or an MIT task for quality.
func CoachCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("coach", flag.ExitOnError)
	taskID := fs.String("task", "", "Score an MIT task by ID")
	model := fs.String("model", "", "Override the model name")
	_ = fs.Parse(args)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	coach, err := eval.NewCoach(ctx, apiKey, *model)
	if err != nil {
		return fmt.Errorf("failed to create coach: %w", err)
	}

	var verdict *eval.Verdict
	switch {
	case *taskID != "":
		task, err := stores.Tasks.FindByID(ctx, *taskID)
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}
		if task == nil {
			return fmt.Errorf("task not found: %s", *taskID)
		}
		verdict, err = coach.EvaluateMIT(ctx, task)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
	case len(fs.Args()) > 0:
		text := strings.Join(fs.Args(), " ")
		verdict, err = coach.EvaluateNextStep(ctx, text)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
	default:
		return fmt.Errorf("give a next step as arguments or --task ID")
	}

	fmt.Printf("Score: %d/100\n", verdict.Score)
	if verdict.Feedback != "" {
		fmt.Printf("\n%s\n", verdict.Feedback)
	}
	for _, s := range verdict.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	return nil
}
