// ABOUTME: Task CLI commands
// ABOUTME: Create, list, and complete tasks with linked entities
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// parseLinkFlags turns repeated TYPE:ID pairs into task links.
func parseLinkFlags(values []string) ([]models.TaskLink, error) {
	var links []models.TaskLink
	for _, v := range values {
		parts := strings.SplitN(v, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("invalid link %q, expected TYPE:ID", v)
		}
		entityType := models.LinkedEntityType(strings.ToUpper(parts[0]))
		if !entityType.Valid() {
			return nil, fmt.Errorf("invalid link entity type: %s", parts[0])
		}
		links = append(links, models.TaskLink{
			EntityType: entityType,
			EntityID:   parts[1],
		})
	}
	return links, nil
}

type linkList []string

func (l *linkList) String() string     { return strings.Join(*l, ",") }
func (l *linkList) Set(v string) error { *l = append(*l, v); return nil }

// AddTaskCommand creates a task, optionally linked to entities via
// repeated --link TYPE:ID flags.
func AddTaskCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	title := fs.String("title", "", "Task title (required)")
	description := fs.String("description", "", "Details")
	typeFlag := fs.String("type", string(models.TaskNextStep), "Task type: NEXT_STEP, MIT, ADMIN")
	due := fs.String("due", "", "Due date (RFC3339)")
	tag := fs.String("tag", "", "Free-form tag")
	bigImpact := fs.String("big-impact", "", "Why this matters (required for MIT)")
	inControl := fs.String("in-control", "", "What is in your control (required for MIT)")
	growth := fs.String("growth", "", "How it grows the business (required for MIT)")
	var links linkList
	fs.Var(&links, "link", "Linked entity as TYPE:ID (repeatable)")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	taskType := models.TaskType(*typeFlag)
	if !taskType.Valid() {
		return fmt.Errorf("invalid task type: %s", *typeFlag)
	}
	dueDate, err := parseTimeFlag(*due)
	if err != nil {
		return fmt.Errorf("invalid --due: %w", err)
	}
	taskLinks, err := parseLinkFlags(links)
	if err != nil {
		return err
	}

	task := &models.Task{
		Title:          *title,
		Description:    *description,
		Status:         models.TaskTodo,
		Type:           taskType,
		DueDate:        dueDate,
		Tag:            *tag,
		Links:          taskLinks,
		BigImpact:      *bigImpact,
		InControl:      *inControl,
		GrowthOriented: *growth,
	}
	if !task.QualifiesAsMIT() {
		return fmt.Errorf("MIT tasks need --big-impact, --in-control, and --growth")
	}

	if err := stores.Tasks.Save(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	fmt.Printf("✓ Task created: %s (ID: %s)\n", task.Title, task.ID)
	if len(task.Links) > 0 {
		fmt.Printf("  Links: %d\n", len(task.Links))
	}
	return nil
}

// ListTasksCommand shows pending tasks, due date ascending.
func ListTasksCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-tasks", flag.ExitOnError)
	_ = fs.Parse(args)

	tasks, err := stores.Tasks.FindPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No pending tasks")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tTYPE\tSTATUS\tTITLE\tLINKS\tID")
	_, _ = fmt.Fprintln(w, "---\t----\t------\t-----\t-----\t--")
	for _, task := range tasks {
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			due, task.Type, task.Status, task.Title, len(task.Links), shortID(task.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d task(s)\n", len(tasks))
	return nil
}

// TaskHistoryCommand shows completed tasks, most recent first.
func TaskHistoryCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("task-history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum tasks to show")
	_ = fs.Parse(args)

	tasks, err := stores.Tasks.FindHistory(ctx, *limit)
	if err != nil {
		return fmt.Errorf("failed to list task history: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No completed tasks")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPLETED\tTYPE\tTITLE\tMINUTES\tID")
	_, _ = fmt.Fprintln(w, "---------\t----\t-----\t-------\t--")
	for _, task := range tasks {
		minutes := "-"
		if task.ActualMinutes != nil {
			minutes = fmt.Sprintf("%d", *task.ActualMinutes)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			task.UpdatedAt.Format("2006-01-02"), task.Type, task.Title, minutes, shortID(task.ID))
	}
	_ = w.Flush()
	return nil
}

// CompleteTaskCommand marks a task done, optionally recording time
// spent.
func CompleteTaskCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("complete-task", flag.ExitOnError)
	minutes := fs.Int("minutes", 0, "Minutes actually spent")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("task ID is required")
	}
	id := fs.Args()[0]

	task, err := stores.Tasks.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task not found: %s", id)
	}

	task.Status = models.TaskDone
	if *minutes > 0 {
		task.ActualMinutes = minutes
	}
	if err := stores.Tasks.Save(ctx, task); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	fmt.Printf("✓ Task completed: %s\n", task.Title)
	return nil
}
