// Package clipboard writes text to the system clipboard through a scoped
// pbcopy process; no clipboard handle is held in-process.
package clipboard

import (
	"sync"

	"task-goblin/src/automation"
)

type Writer struct {
	// writeMu serializes writes to prevent corruption under parallel copies.
	writeMu sync.Mutex
	runner  automation.Runner
}

func New(runner automation.Runner) *Writer {
	return &Writer{runner: runner}
}
