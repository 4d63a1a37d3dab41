// Package pipeline orchestrates one capture run: grab a region, recognize
// its text, copy the result, and toast the outcome. Runs are linear and
// carry no identity beyond a correlation id in the logs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-goblin/src/logutil"
)

// DefaultSettleDelay is how long the surface gets to disappear from screen
// before the grabber starts.
const DefaultSettleDelay = 300 * time.Millisecond

// Surface is the sliver of the presentation layer a run touches. All calls
// are best-effort.
type Surface interface {
	IsVisible() bool
	Hide()
	Show()
	Focus()
}

// Capturer produces an image file path, or "" when the user aborted.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// Recognizer extracts text from an image file.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// ClipboardWriter transfers text to the system clipboard.
type ClipboardWriter interface {
	Write(ctx context.Context, text string) error
}

// Notifier posts a fire-and-forget toast.
type Notifier interface {
	Notify(title, message string)
}

type Options struct {
	Surface   Surface
	Capture   Capturer
	Recognize Recognizer
	Clipboard ClipboardWriter
	Notifier  Notifier

	// SettleDelay overrides DefaultSettleDelay when positive.
	SettleDelay time.Duration

	// Injectable for tests; default to time.Sleep and os.Remove.
	Sleep      func(time.Duration)
	RemoveFile func(string) error
}

type Result struct {
	Text string
}

// Execute runs the pipeline once. A user abort and a whitespace-only
// extraction both return an empty Result with no error and no toast. Every
// failure is toasted here with the same message the error carries.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Capture == nil {
		return Result{}, errors.New("Capture is required")
	}
	if opts.Recognize == nil {
		return Result{}, errors.New("Recognize is required")
	}
	if opts.Clipboard == nil {
		return Result{}, errors.New("Clipboard is required")
	}

	settle := opts.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	removeFile := opts.RemoveFile
	if removeFile == nil {
		removeFile = os.Remove
	}

	runID := uuid.New().String()
	log.Printf("[%s] capture run started", runID)

	// Get the surface out of the shot, then put it back no matter how the
	// grab went. Visibility is restored right here, not at the end of the run.
	wasVisible := opts.Surface != nil && opts.Surface.IsVisible()
	if wasVisible {
		opts.Surface.Hide()
		sleep(settle)
	}

	imagePath, err := opts.Capture.Capture(ctx)

	if wasVisible {
		opts.Surface.Show()
		opts.Surface.Focus()
	}

	if err != nil {
		log.Printf("[%s] capture failed: %v", runID, err)
		notify(opts.Notifier, "OCR Failed", err.Error())
		return Result{}, err
	}
	if imagePath == "" {
		log.Printf("[%s] capture dismissed by user", runID)
		return Result{}, nil
	}

	text, err := opts.Recognize.Recognize(ctx, imagePath)
	if rmErr := removeFile(imagePath); rmErr != nil && !os.IsNotExist(rmErr) {
		log.Printf("[%s] could not remove %s: %v", runID, imagePath, rmErr)
	}
	if err != nil {
		log.Printf("[%s] recognition failed: %v", runID, err)
		notify(opts.Notifier, "OCR Failed", err.Error())
		return Result{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("[%s] no text recognized", runID)
		return Result{}, nil
	}
	log.Printf("[%s] recognized %d chars: %q", runID, len(text), logutil.Snippet(text))

	if err := opts.Clipboard.Write(ctx, text); err != nil {
		copyErr := fmt.Errorf("Failed to copy: %v", err)
		log.Printf("[%s] %v", runID, copyErr)
		notify(opts.Notifier, "OCR Error", copyErr.Error())
		return Result{}, copyErr
	}

	notify(opts.Notifier, "Text Copied!", "Copied content")
	log.Printf("[%s] capture run completed", runID)
	return Result{Text: text}, nil
}

func notify(n Notifier, title, message string) {
	if n != nil {
		n.Notify(title, message)
	}
}
