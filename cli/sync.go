// ABOUTME: Google auth and calendar sync CLI commands
// ABOUTME: Device-flow authorization plus incremental meeting import
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/gsteen1788/bd-os-sub000/store"
	"github.com/gsteen1788/bd-os-sub000/sync"
)

// AuthCommand runs the OAuth device flow and stores the token.
func AuthCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	_ = fs.Parse(args)

	config := sync.NewOAuthConfig()
	token, err := sync.Authorize(ctx, config)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if err := sync.SaveToken(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("✓ Authorized. Token saved to %s\n", sync.TokenPath())
	return nil
}

// SyncCalendarCommand imports Google Calendar events as meetings.
// Incremental by default; --initial forces a full time-window import.
func SyncCalendarCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("sync-calendar", flag.ExitOnError)
	initial := fs.Bool("initial", false, "Full import instead of incremental")
	_ = fs.Parse(args)

	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no stored credentials, run auth first: %w", err)
	}
	client, err := sync.NewCalendarClient(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	if err := sync.ImportCalendar(ctx, stores, client, *initial); err != nil {
		return fmt.Errorf("calendar sync failed: %w", err)
	}

	fmt.Println("✓ Calendar sync complete")
	return nil
}
