//go:build !darwin

package clipboard

import (
	"context"

	"task-goblin/src/automation"
)

func (w *Writer) Write(ctx context.Context, text string) error {
	return automation.ErrUnsupported
}
