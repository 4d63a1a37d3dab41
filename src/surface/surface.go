// Package surface owns the main window. The rest of the app drives it
// through a narrow interface so one-shot command runs and tests can swap in
// a surface with no window at all.
package surface

import "log"

// Surface is everything the coordination layer may do to the main window.
// Calls are best-effort and safe from any goroutine.
type Surface interface {
	IsVisible() bool
	Show()
	Hide()
	Focus()
	Toggle()

	// EnterOverlay expands the window over the whole screen and keeps it on
	// top. clickThrough lets pointer events fall to the apps beneath.
	EnterOverlay(clickThrough bool)
	// ExitOverlay restores the fixed sidebar.
	ExitOverlay()

	// Toast shows a transient in-window notice.
	Toast(title, message string)
	// Progress reports a long operation for the progress bar.
	Progress(step string, fraction float64)
}

// Headless satisfies Surface without a window; notices go to the log.
type Headless struct{}

var _ Surface = Headless{}

func (Headless) IsVisible() bool { return false }

func (Headless) Show() {}

func (Headless) Hide() {}

func (Headless) Focus() {}

func (Headless) Toggle() {}

func (Headless) EnterOverlay(bool) {}

func (Headless) ExitOverlay() {}

func (Headless) Toast(title, message string) {
	log.Printf("%s: %s", title, message)
}

func (Headless) Progress(step string, fraction float64) {
	log.Printf("%s (%.0f%%)", step, fraction*100)
}
