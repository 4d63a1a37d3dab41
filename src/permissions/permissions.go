// Package permissions checks and requests the macOS rights the app depends
// on: Accessibility for synthetic input, Notification Center for banners.
package permissions

import (
	"context"

	"task-goblin/src/automation"
)

// Nudger issues a relative pointer move.
type Nudger interface {
	MoveRelative(dx, dy int)
}

// Request nudges the pointer by zero pixels. The HID access attempt is what
// makes macOS list the app under Accessibility and show the grant prompt;
// the cursor itself never moves.
func Request(n Nudger) {
	n.MoveRelative(0, 0)
}

// OpenAccessibilityPane opens System Settings on the Accessibility pane so
// the user can flip the switch after denying the prompt.
func OpenAccessibilityPane(ctx context.Context, runner automation.Runner) error {
	return automation.OpenSettingsPane(ctx, runner, automation.PaneAccessibilityPrivacy)
}
