//go:build !darwin

package capture

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/kbinani/screenshot"
)

// Capture grabs the primary display into TempImagePath. Interactive region
// selection needs the macOS screencapture tool; other platforms get a
// full-screen shot instead.
func (g *Grabber) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if screenshot.NumActiveDisplays() == 0 {
		return "", errors.New("no active displays found")
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return "", fmt.Errorf("screen capture: %w", err)
	}

	f, err := os.Create(TempImagePath)
	if err != nil {
		return "", fmt.Errorf("screen capture: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("screen capture: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("screen capture: %w", err)
	}

	return TempImagePath, nil
}
