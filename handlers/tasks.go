// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements create-with-links, pending, complete, and link-query tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

type TaskHandlers struct {
	stores *store.Stores
}

func NewTaskHandlers(stores *store.Stores) *TaskHandlers {
	return &TaskHandlers{stores: stores}
}

type TaskLinkInput struct {
	EntityType string `json:"entity_type" jsonschema:"OPPORTUNITY, RELATIONSHIP, MEETING, CONTACT, or ORGANIZATION"`
	EntityID   string `json:"entity_id" jsonschema:"ID of the linked entity"`
}

type CreateTaskInput struct {
	Title          string          `json:"title" jsonschema:"Task title (required)"`
	Description    string          `json:"description,omitempty" jsonschema:"Details"`
	Type           string          `json:"type,omitempty" jsonschema:"NEXT_STEP, MIT, or ADMIN (default NEXT_STEP)"`
	DueDate        string          `json:"due_date,omitempty" jsonschema:"Due date (RFC3339)"`
	Tag            string          `json:"tag,omitempty" jsonschema:"Free-form tag"`
	Links          []TaskLinkInput `json:"links,omitempty" jsonschema:"Entities this task is linked to"`
	BigImpact      string          `json:"big_impact,omitempty" jsonschema:"Why this matters (required for MIT)"`
	InControl      string          `json:"in_control,omitempty" jsonschema:"What is in your control (required for MIT)"`
	GrowthOriented string          `json:"growth_oriented,omitempty" jsonschema:"How it grows the business (required for MIT)"`
}

type TaskLinkOutput struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

type TaskOutput struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Status        string           `json:"status"`
	Type          string           `json:"type"`
	DueDate       *string          `json:"due_date,omitempty"`
	Tag           string           `json:"tag,omitempty"`
	Links         []TaskLinkOutput `json:"links,omitempty"`
	ActualMinutes *int             `json:"actual_minutes,omitempty"`
	UpdatedAt     string           `json:"updated_at"`
}

func taskToOutput(t *models.Task) TaskOutput {
	out := TaskOutput{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Type:          string(t.Type),
		DueDate:       timePtrString(t.DueDate),
		Tag:           t.Tag,
		ActualMinutes: t.ActualMinutes,
		UpdatedAt:     timeString(t.UpdatedAt),
	}
	for i := range t.Links {
		out.Links = append(out.Links, TaskLinkOutput{
			EntityType: string(t.Links[i].EntityType),
			EntityID:   t.Links[i].EntityID,
		})
	}
	return out
}

func (h *TaskHandlers) CreateTask(ctx context.Context, request *mcp.CallToolRequest, input CreateTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Title == "" {
		return nil, TaskOutput{}, fmt.Errorf("title is required")
	}
	taskType := models.TaskNextStep
	if input.Type != "" {
		taskType = models.TaskType(input.Type)
		if !taskType.Valid() {
			return nil, TaskOutput{}, fmt.Errorf("invalid type: %s", input.Type)
		}
	}
	dueDate, err := parseTimePtr(input.DueDate)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("invalid due_date: %w", err)
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         models.TaskTodo,
		Type:           taskType,
		DueDate:        dueDate,
		Tag:            input.Tag,
		BigImpact:      input.BigImpact,
		InControl:      input.InControl,
		GrowthOriented: input.GrowthOriented,
	}
	for _, link := range input.Links {
		entityType := models.LinkedEntityType(link.EntityType)
		if !entityType.Valid() {
			return nil, TaskOutput{}, fmt.Errorf("invalid link entity_type: %s", link.EntityType)
		}
		if link.EntityID == "" {
			return nil, TaskOutput{}, fmt.Errorf("link entity_id is required")
		}
		task.Links = append(task.Links, models.TaskLink{
			EntityType: entityType,
			EntityID:   link.EntityID,
		})
	}
	if !task.QualifiesAsMIT() {
		return nil, TaskOutput{}, fmt.Errorf("MIT tasks need big_impact, in_control, and growth_oriented")
	}

	if err := h.stores.Tasks.Save(ctx, task); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	return nil, taskToOutput(task), nil
}

type PendingTasksInput struct{}

type TaskListOutput struct {
	Tasks []TaskOutput `json:"tasks"`
}

func (h *TaskHandlers) PendingTasks(ctx context.Context, request *mcp.CallToolRequest, input PendingTasksInput) (*mcp.CallToolResult, TaskListOutput, error) {
	tasks, err := h.stores.Tasks.FindPending(ctx)
	if err != nil {
		return nil, TaskListOutput{}, fmt.Errorf("failed to list pending tasks: %w", err)
	}

	var out TaskListOutput
	for i := range tasks {
		out.Tasks = append(out.Tasks, taskToOutput(&tasks[i]))
	}
	return nil, out, nil
}

type TasksForEntityInput struct {
	EntityType string `json:"entity_type" jsonschema:"OPPORTUNITY, RELATIONSHIP, MEETING, CONTACT, or ORGANIZATION (required)"`
	EntityID   string `json:"entity_id" jsonschema:"ID of the linked entity (required)"`
}

func (h *TaskHandlers) TasksForEntity(ctx context.Context, request *mcp.CallToolRequest, input TasksForEntityInput) (*mcp.CallToolResult, TaskListOutput, error) {
	entityType := models.LinkedEntityType(input.EntityType)
	if !entityType.Valid() {
		return nil, TaskListOutput{}, fmt.Errorf("invalid entity_type: %s", input.EntityType)
	}
	if input.EntityID == "" {
		return nil, TaskListOutput{}, fmt.Errorf("entity_id is required")
	}

	tasks, err := h.stores.Tasks.FindByLinkedEntity(ctx, entityType, input.EntityID)
	if err != nil {
		return nil, TaskListOutput{}, fmt.Errorf("failed to find tasks: %w", err)
	}

	var out TaskListOutput
	for i := range tasks {
		out.Tasks = append(out.Tasks, taskToOutput(&tasks[i]))
	}
	return nil, out, nil
}

type CompleteTaskInput struct {
	ID            string `json:"id" jsonschema:"Task ID (required)"`
	ActualMinutes *int   `json:"actual_minutes,omitempty" jsonschema:"Minutes actually spent"`
}

func (h *TaskHandlers) CompleteTask(ctx context.Context, request *mcp.CallToolRequest, input CompleteTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	if input.ID == "" {
		return nil, TaskOutput{}, fmt.Errorf("id is required")
	}
	task, err := h.stores.Tasks.FindByID(ctx, input.ID)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to load task: %w", err)
	}
	if task == nil {
		return nil, TaskOutput{}, fmt.Errorf("task not found: %s", input.ID)
	}

	task.Status = models.TaskDone
	if input.ActualMinutes != nil {
		task.ActualMinutes = input.ActualMinutes
	}
	if err := h.stores.Tasks.Save(ctx, task); err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to complete task: %w", err)
	}

	return nil, taskToOutput(task), nil
}
