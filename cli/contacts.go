// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
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

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findOrCreateOrganization resolves a name to an organization ID,
// creating the organization when no match exists.
func findOrCreateOrganization(ctx context.Context, stores *store.Stores, name string) (string, error) {
	orgs, err := stores.Organizations.Search(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to lookup organization: %w", err)
	}
	if len(orgs) > 0 {
		return orgs[0].ID, nil
	}
	org := &models.Organization{Name: name}
	if err := stores.Organizations.Save(ctx, org); err != nil {
		return "", fmt.Errorf("failed to create organization: %w", err)
	}
	return org.ID, nil
}

// AddContactCommand adds a new contact.
func AddContactCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	org := fs.String("org", "", "Organization name")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact := &models.Contact{
		Name:  *name,
		Title: *title,
		Email: *email,
		Phone: *phone,
		Notes: *notes,
	}

	if *org != "" {
		orgID, err := findOrCreateOrganization(ctx, stores, *org)
		if err != nil {
			return err
		}
		contact.OrganizationID = &orgID
	}

	if err := stores.Contacts.Save(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	if contact.Email != "" {
		fmt.Printf("  Email: %s\n", contact.Email)
	}
	if *org != "" {
		fmt.Printf("  Organization: %s\n", *org)
	}
	return nil
}

// ListContactsCommand lists contacts, optionally filtered.
func ListContactsCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or title")
	_ = fs.Parse(args)

	var (
		contacts []models.Contact
		err      error
	)
	if *query == "" {
		contacts, err = stores.Contacts.FindAll(ctx)
	} else {
		contacts, err = stores.Contacts.Search(ctx, *query)
	}
	if err != nil {
		return fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tEMAIL\tORGANIZATION\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t------------\t--")

	for _, contact := range contacts {
		title := contact.Title
		if title == "" {
			title = "-"
		}
		email := contact.Email
		if email == "" {
			email = "-"
		}
		orgName := "-"
		if contact.OrganizationID != nil {
			org, err := stores.Organizations.FindByID(ctx, *contact.OrganizationID)
			if err == nil && org != nil {
				orgName = org.Name
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			contact.Name, title, email, orgName, shortID(contact.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates an existing contact.
func UpdateContactCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	title := fs.String("title", "", "Job title")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	org := fs.String("org", "", "Organization name")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Args()[0]

	existing, err := stores.Contacts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load contact: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("contact not found: %s", id)
	}

	if *name != "" {
		existing.Name = *name
	}
	if *title != "" {
		existing.Title = *title
	}
	if *email != "" {
		existing.Email = *email
	}
	if *phone != "" {
		existing.Phone = *phone
	}
	if *notes != "" {
		existing.Notes = *notes
	}
	if *org != "" {
		orgID, err := findOrCreateOrganization(ctx, stores, *org)
		if err != nil {
			return err
		}
		existing.OrganizationID = &orgID
	}

	if err := stores.Contacts.Save(ctx, existing); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s\n", existing.Name)
	return nil
}

// DeleteContactCommand removes a contact and its protemoi entry.
func DeleteContactCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("contact ID is required")
	}
	id := fs.Args()[0]

	if err := stores.Contacts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	fmt.Printf("✓ Contact deleted: %s\n", id)
	return nil
}
