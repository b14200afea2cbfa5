// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for assistant integration over stdio
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gsteen1788/bd-os-sub000/handlers"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(ctx context.Context, stores *store.Stores) error {
	log.Println("Starting BD MCP server...")

	orgHandlers := handlers.NewOrganizationHandlers(stores)
	contactHandlers := handlers.NewContactHandlers(stores)
	oppHandlers := handlers.NewOpportunityHandlers(stores)
	meetingHandlers := handlers.NewMeetingHandlers(stores)
	protemoiHandlers := handlers.NewProtemoiHandlers(stores)
	taskHandlers := handlers.NewTaskHandlers(stores)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bd-os",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_organization",
		Description: "Add a new organization",
	}, orgHandlers.AddOrganization)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_organizations",
		Description: "Search organizations by name, industry, or notes",
	}, orgHandlers.FindOrganizations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact, creating its organization if needed",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email, or title",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_opportunity",
		Description: "Create a new opportunity in the five-stage funnel",
	}, oppHandlers.CreateOpportunity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_opportunities",
		Description: "Search opportunities, optionally filtered by stage or organization",
	}, oppHandlers.FindOpportunities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_opportunity",
		Description: "Update an opportunity including stage moves and win/loss status",
	}, oppHandlers.UpdateOpportunity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline",
		Description: "Show open opportunities grouped by stage in funnel order",
	}, oppHandlers.Pipeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_meeting",
		Description: "Log a meeting with optional attendees and opportunity link",
	}, meetingHandlers.LogMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "upcoming_meetings",
		Description: "List meetings not yet completed, oldest start first",
	}, meetingHandlers.UpcomingMeetings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "meeting_history",
		Description: "List completed meetings, newest first",
	}, meetingHandlers.MeetingHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_meeting",
		Description: "Mark a meeting complete with optional debrief notes",
	}, meetingHandlers.CompleteMeeting)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_meeting_prep",
		Description: "Attach a structured preparation document to a meeting",
	}, meetingHandlers.SetMeetingPrep)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_protemoi",
		Description: "Put a contact on the protemoi nurture list",
	}, protemoiHandlers.AddProtemoi)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_protemoi",
		Description: "List all protemoi entries with contact names",
	}, protemoiHandlers.ListProtemoi)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "touch_protemoi",
		Description: "Record a relationship touch and optionally advance the stage",
	}, protemoiHandlers.TouchProtemoi)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a task linked to opportunities, meetings, contacts, or organizations",
	}, taskHandlers.CreateTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pending_tasks",
		Description: "List pending tasks, due date ascending",
	}, taskHandlers.PendingTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "tasks_for_entity",
		Description: "List tasks linked to a given entity",
	}, taskHandlers.TasksForEntity)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task done, optionally recording minutes spent",
	}, taskHandlers.CompleteTask)

	return server.Run(ctx, &mcp.StdioTransport{})
}
