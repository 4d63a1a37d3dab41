package contacts

import (
	"context"
	"fmt"
	"log"

	"task-goblin/src/automation"
)

// List fetches every contact that has a phone number. The first call
// triggers the system Contacts permission prompt.
func (b *Book) List(ctx context.Context) ([]Contact, error) {
	out, err := automation.RunAppleScript(ctx, b.runner, listScript)
	if err != nil {
		return nil, fmt.Errorf("contacts query: %w", err)
	}
	list, err := parseList(out)
	if err != nil {
		return nil, err
	}
	log.Printf("Contacts: loaded %d entries", len(list))
	return list, nil
}
