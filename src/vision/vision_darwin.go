package vision

import (
	"context"
	"fmt"
)

// Recognize extracts text from the image at imagePath. The caller owns the
// file; nothing is deleted here.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.deadline)
	defer cancel()

	out, err := r.runner.Run(ctx, "swift", "-e", script(imagePath, r.languages))
	if err != nil {
		return "", fmt.Errorf("vision recognition: %w", err)
	}
	return interpret(out)
}
