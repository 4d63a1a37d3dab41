// Package contacts reads the macOS address book. One bulk AppleScript query
// returns every contact at once; per-contact round trips take minutes on a
// large address book.
package contacts

import (
	"fmt"
	"strings"

	"task-goblin/src/automation"
)

// Contact is a single address book entry with its first phone number.
type Contact struct {
	Name  string
	Phone string
}

type Book struct {
	runner automation.Runner
}

func New(runner automation.Runner) *Book {
	return &Book{runner: runner}
}

// listScript emits one "name|phone" line per contact. A contact without a
// readable name keeps an empty field so the line count stays aligned, and
// script-level failures come back as a single "ERROR|<message>" line.
const listScript = `try
	set output to ""
	tell application "Contacts"
		repeat with p in people
			set contactName to ""
			try
				set contactName to (name of p) as string
			end try
			set contactPhone to ""
			if (count of phones of p) > 0 then
				set contactPhone to (value of first phone of p) as string
			end if
			set output to output & contactName & "|" & contactPhone & linefeed
		end repeat
	end tell
	return output
on error errMsg
	return "ERROR|" & errMsg
end try`

// parseList keeps entries that have both a usable name and a phone number.
func parseList(out string) ([]Contact, error) {
	trimmed := strings.TrimSpace(out)
	if strings.HasPrefix(trimmed, "ERROR|") {
		return nil, fmt.Errorf("contacts query: %s", strings.TrimPrefix(trimmed, "ERROR|"))
	}

	var list []Contact
	for _, line := range strings.Split(trimmed, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		phone := strings.TrimSpace(parts[1])
		if name == "" || name == "missing value" || phone == "" {
			continue
		}
		list = append(list, Contact{Name: name, Phone: phone})
	}
	return list, nil
}
