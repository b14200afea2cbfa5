// ABOUTME: Organization CLI commands
// ABOUTME: Human-friendly commands for managing organizations
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// AddOrganizationCommand adds a new organization.
func AddOrganizationCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("add-org", flag.ExitOnError)
	name := fs.String("name", "", "Organization name (required)")
	industry := fs.String("industry", "", "Industry sector")
	notes := fs.String("notes", "", "Notes about the organization")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	org := &models.Organization{
		Name:     *name,
		Industry: *industry,
		Notes:    *notes,
	}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	fmt.Printf("✓ Organization created: %s (ID: %s)\n", org.Name, org.ID)
	if org.Industry != "" {
		fmt.Printf("  Industry: %s\n", org.Industry)
	}
	return nil
}

// ListOrganizationsCommand lists organizations, optionally filtered.
func ListOrganizationsCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-orgs", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or industry")
	_ = fs.Parse(args)

	var (
		orgs []models.Organization
		err  error
	)
	if *query == "" {
		orgs, err = stores.Organizations.FindAll(ctx)
	} else {
		orgs, err = stores.Organizations.Search(ctx, *query)
	}
	if err != nil {
		return fmt.Errorf("failed to find organizations: %w", err)
	}

	if len(orgs) == 0 {
		fmt.Println("No organizations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tINDUSTRY\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t--")
	for _, org := range orgs {
		industry := org.Industry
		if industry == "" {
			industry = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", org.Name, industry, shortID(org.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d organization(s)\n", len(orgs))
	return nil
}

// DeleteOrganizationCommand removes an organization. Contacts and
// opportunities that referenced it are kept with the reference cleared.
func DeleteOrganizationCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("delete-org", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("organization ID is required")
	}
	id := fs.Args()[0]

	if err := stores.Organizations.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	fmt.Printf("✓ Organization deleted: %s\n", id)
	return nil
}
