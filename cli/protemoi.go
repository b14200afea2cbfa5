// ABOUTME: Protemoi CLI commands
// ABOUTME: Nurture-list management: add, list, touch, advance stage
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gsteen1788/bd-os-sub000/models"
	"github.com/gsteen1788/bd-os-sub000/store"
)

// AddProtemoiCommand puts a contact on the nurture list. Each contact
// can appear at most once.
func AddProtemoiCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("add-protemoi", flag.ExitOnError)
	contactName := fs.String("contact", "", "Contact name (required)")
	relTypeFlag := fs.String("type", "", "Relationship type: PROSPECT, CLIENT, PARTNER, ADVOCATE, SPONSOR, PEER, LEADER (required)")
	stageFlag := fs.String("stage", string(models.RelStageTarget), "Relationship stage")
	nextStep := fs.String("next-step", "", "Next nurture action")
	importance := fs.Int("importance", 0, "Importance 0-100")
	_ = fs.Parse(args)

	if *contactName == "" {
		return fmt.Errorf("--contact is required")
	}
	relType := models.RelationshipType(*relTypeFlag)
	if !relType.Valid() {
		return fmt.Errorf("invalid relationship type: %q", *relTypeFlag)
	}
	stage := models.RelationshipStage(*stageFlag)
	if !stage.ValidFor(relType.Internal()) {
		return fmt.Errorf("stage %s is not valid for type %s", stage, relType)
	}

	contacts, err := stores.Contacts.Search(ctx, *contactName)
	if err != nil {
		return fmt.Errorf("failed to lookup contact: %w", err)
	}
	var contact *models.Contact
	if len(contacts) > 0 {
		contact = &contacts[0]
	} else {
		contact = &models.Contact{Name: *contactName}
		if err := stores.Contacts.Save(ctx, contact); err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
	}

	entry := &models.ProtemoiEntry{
		ContactID:        contact.ID,
		OrganizationID:   contact.OrganizationID,
		RelationshipType: relType,
		Stage:            stage,
		NextStep:         *nextStep,
		Internal:         relType.Internal(),
	}
	if *importance > 0 {
		entry.Importance = importance
	}

	if err := stores.Protemoi.Save(ctx, entry); err != nil {
		if errors.Is(err, store.ErrConstraint) {
			return fmt.Errorf("%s is already on the protemoi list", contact.Name)
		}
		return fmt.Errorf("failed to save protemoi entry: %w", err)
	}

	fmt.Printf("✓ Protemoi entry created: %s (%s, %s)\n", contact.Name, relType, stage)
	return nil
}

// ListProtemoiCommand prints the nurture list.
func ListProtemoiCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("list-protemoi", flag.ExitOnError)
	_ = fs.Parse(args)

	entries, err := stores.Protemoi.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list protemoi entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("Protemoi list is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CONTACT\tTYPE\tSTAGE\tLAST TOUCH\tNEXT STEP\tID")
	_, _ = fmt.Fprintln(w, "-------\t----\t-----\t----------\t---------\t--")
	for _, entry := range entries {
		name := "-"
		if contact, err := stores.Contacts.FindByID(ctx, entry.ContactID); err == nil && contact != nil {
			name = contact.Name
		}
		lastTouch := "never"
		if entry.LastTouchAt != nil {
			lastTouch = entry.LastTouchAt.Format("2006-01-02")
		}
		nextStep := entry.NextStep
		if nextStep == "" {
			nextStep = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name, entry.RelationshipType, entry.Stage, lastTouch, nextStep, shortID(entry.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d entr(ies)\n", len(entries))
	return nil
}

// TouchProtemoiCommand records a touch on an entry and optionally moves
// its stage.
func TouchProtemoiCommand(ctx context.Context, stores *store.Stores, args []string) error {
	fs := flag.NewFlagSet("touch-protemoi", flag.ExitOnError)
	nextStep := fs.String("next-step", "", "New next step after the touch")
	nextTouch := fs.String("next-touch", "", "When to touch next (RFC3339)")
	stageFlag := fs.String("stage", "", "Move to a new relationship stage")
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("protemoi entry ID is required")
	}
	id := fs.Args()[0]

	entry, err := stores.Protemoi.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load protemoi entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("protemoi entry not found: %s", id)
	}

	now := time.Now().UTC()
	entry.LastTouchAt = &now
	if *nextStep != "" {
		entry.NextStep = *nextStep
	}
	nextTouchAt, err := parseTimeFlag(*nextTouch)
	if err != nil {
		return fmt.Errorf("invalid --next-touch: %w", err)
	}
	if nextTouchAt != nil {
		entry.NextTouchAt = nextTouchAt
	}
	if *stageFlag != "" {
		stage := models.RelationshipStage(*stageFlag)
		if !stage.ValidFor(entry.Internal) {
			return fmt.Errorf("stage %s is not valid for this relationship", stage)
		}
		entry.Stage = stage
	}

	if err := stores.Protemoi.Save(ctx, entry); err != nil {
		return fmt.Errorf("failed to save protemoi entry: %w", err)
	}

	fmt.Printf("✓ Touch recorded (stage: %s)\n", entry.Stage)
	return nil
}
