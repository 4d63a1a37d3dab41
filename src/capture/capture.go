// Package capture produces the screenshot the text pipeline reads. On macOS
// the user selects a region interactively; elsewhere the primary display is
// grabbed whole.
package capture

import "task-goblin/src/automation"

// TempImagePath is where the grabber writes its output. The pipeline deletes
// it after every run.
const TempImagePath = "/tmp/taskgoblin_ocr_capture.png"

// Grabber shells out to screencapture for an interactive region selection.
type Grabber struct {
	runner automation.Runner
}

func New(runner automation.Runner) *Grabber {
	return &Grabber{runner: runner}
}
