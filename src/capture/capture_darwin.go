package capture

import (
	"context"
	"log"
	"os"
)

// Capture runs the interactive grabber and returns the image path. An empty
// path means the user dismissed the selection; that is not an error. Abort is
// detected by the absence of the output file, not by the exit status, since
// screencapture exits non-zero on Escape.
func (g *Grabber) Capture(ctx context.Context) (string, error) {
	// A stale file from an earlier crash must not count as a capture.
	_ = os.Remove(TempImagePath)

	if _, err := g.runner.Run(ctx, "screencapture", "-i", "-x", TempImagePath); err != nil {
		log.Printf("screencapture exited: %v", err)
	}

	if _, err := os.Stat(TempImagePath); err != nil {
		return "", nil
	}
	return TempImagePath, nil
}
