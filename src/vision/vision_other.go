//go:build !darwin

package vision

import (
	"context"

	"task-goblin/src/automation"
)

func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	return "", automation.ErrUnsupported
}
