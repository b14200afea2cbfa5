// ABOUTME: Entry point for the BD MCP server and CLI
// ABOUTME: Resolves the storage backend and routes to subcommands
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/gsteen1788/bd-os-sub000/backend"
	"github.com/gsteen1788/bd-os-sub000/cli"
	"github.com/gsteen1788/bd-os-sub000/store"
)

const version = "0.1.0"

func main() {
	// Missing .env is fine, env vars may come from the shell.
	_ = godotenv.Load()

	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/bd-os/bd.db)")
	backendFlag := flag.String("backend", "", "Storage backend: sqlite or memory (default: sqlite, env BDOS_BACKEND)")
	initOnly := flag.Bool("init", false, "Initialize the database and exit")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("bd-os version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	cfg := resolveConfig(*backendFlag, *dbPath)
	stores, err := backend.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() { _ = stores.Close() }()

	if *initOnly {
		log.Printf("Database initialized: %s", cfg.Path)
		return
	}

	ctx := context.Background()
	command := args[0]
	commandArgs := args[1:]

	if err := route(ctx, stores, command, commandArgs); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// resolveConfig picks the backend from the flag, then the BDOS_BACKEND
// env var, defaulting to sqlite with an XDG data-dir path.
func resolveConfig(backendFlag, dbPath string) store.Config {
	name := backendFlag
	if name == "" {
		name = os.Getenv("BDOS_BACKEND")
	}
	if name == "" {
		name = string(store.BackendSQLite)
	}

	cfg := store.Config{Backend: store.Backend(name)}
	if cfg.Backend == store.BackendSQLite {
		if dbPath == "" {
			dbPath = filepath.Join(xdg.DataHome, "bd-os", "bd.db")
		}
		cfg.Path = dbPath
	}
	return cfg
}

func route(ctx context.Context, stores *store.Stores, command string, args []string) error {
	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, stores)

	case "auth":
		return cli.AuthCommand(ctx, args)
	case "sync-calendar":
		return cli.SyncCalendarCommand(ctx, stores, args)
	case "coach":
		return cli.CoachCommand(ctx, stores, args)

	case "add-org":
		return cli.AddOrganizationCommand(ctx, stores, args)
	case "list-orgs":
		return cli.ListOrganizationsCommand(ctx, stores, args)
	case "delete-org":
		return cli.DeleteOrganizationCommand(ctx, stores, args)

	case "add-contact":
		return cli.AddContactCommand(ctx, stores, args)
	case "list-contacts":
		return cli.ListContactsCommand(ctx, stores, args)
	case "update-contact":
		return cli.UpdateContactCommand(ctx, stores, args)
	case "delete-contact":
		return cli.DeleteContactCommand(ctx, stores, args)

	case "add-opp":
		return cli.AddOpportunityCommand(ctx, stores, args)
	case "list-opps":
		return cli.ListOpportunitiesCommand(ctx, stores, args)
	case "update-opp":
		return cli.UpdateOpportunityCommand(ctx, stores, args)
	case "pipeline":
		return cli.PipelineCommand(ctx, stores, args)

	case "log-meeting":
		return cli.LogMeetingCommand(ctx, stores, args)
	case "upcoming":
		return cli.UpcomingMeetingsCommand(ctx, stores, args)
	case "meeting-history":
		return cli.MeetingHistoryCommand(ctx, stores, args)
	case "complete-meeting":
		return cli.CompleteMeetingCommand(ctx, stores, args)

	case "add-protemoi":
		return cli.AddProtemoiCommand(ctx, stores, args)
	case "list-protemoi":
		return cli.ListProtemoiCommand(ctx, stores, args)
	case "touch-protemoi":
		return cli.TouchProtemoiCommand(ctx, stores, args)

	case "add-task":
		return cli.AddTaskCommand(ctx, stores, args)
	case "list-tasks":
		return cli.ListTasksCommand(ctx, stores, args)
	case "task-history":
		return cli.TaskHistoryCommand(ctx, stores, args)
	case "complete-task":
		return cli.CompleteTaskCommand(ctx, stores, args)

	case "week-review":
		return cli.StartWeekReviewCommand(ctx, stores, args)
	case "show-review":
		return cli.ShowWeekReviewCommand(ctx, stores, args)
	case "set-goal":
		return cli.SetGoalCommand(ctx, stores, args)
	case "list-goals":
		return cli.ListGoalsCommand(ctx, stores, args)
	case "delete-goal":
		return cli.DeleteGoalCommand(ctx, stores, args)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println(`bd-os - personal business development CRM

Usage:
  bd-os [flags] COMMAND [args]

Flags:
  -version          Show version and exit
  -db-path PATH     Database path (default: ~/.local/share/bd-os/bd.db)
  -backend NAME     Storage backend: sqlite or memory
  -init             Initialize the database and exit

Commands:
  mcp                         Start the MCP server on stdio
  auth                        Authorize Google Calendar access
  sync-calendar [-initial]    Import calendar events as meetings
  coach [TEXT|-task ID]       Score a next step or MIT task

  add-org, list-orgs, delete-org
  add-contact, list-contacts, update-contact, delete-contact
  add-opp, list-opps, update-opp, pipeline
  log-meeting, upcoming, meeting-history, complete-meeting
  add-protemoi, list-protemoi, touch-protemoi
  add-task, list-tasks, task-history, complete-task
  week-review, show-review, set-goal, list-goals, delete-goal`)
}
