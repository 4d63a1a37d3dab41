package clipboard

import (
	"context"
	"fmt"
)

// Write pipes text into pbcopy and waits for it to finish. A failure is
// reported once; there is no retry.
func (w *Writer) Write(ctx context.Context, text string) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if _, err := w.runner.RunInput(ctx, text, "pbcopy"); err != nil {
		return fmt.Errorf("pbcopy: %w", err)
	}
	return nil
}
