package tray

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed icon.svg
var iconSVG []byte

// Resource wraps the embedded goblin icon for the menu bar.
func Resource() fyne.Resource {
	return fyne.NewStaticResource("taskgoblin.svg", iconSVG)
}
