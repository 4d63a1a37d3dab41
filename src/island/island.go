// Package island renders the shutdown countdown: a small always-on-top
// strip near the top of the screen with the remaining time and a cancel
// button.
package island

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	Width  = float32(240)
	Height = float32(60)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Countdown is the island window. Show and Close are safe from any
// goroutine and Show replaces a countdown already on screen.
type Countdown struct {
	win      fyne.Window
	onCancel func()

	label *widget.Label
	bar   *widget.ProgressBar

	mu   sync.Mutex
	stop chan struct{}
}

func New(app fyne.App, onCancel func()) *Countdown {
	c := &Countdown{onCancel: onCancel}

	win := app.NewWindow("Shutdown")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash windows carry no native frame or buttons.
		win = driver.CreateSplashWindow()
	}

	c.label = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	c.bar = widget.NewProgressBar()
	cancel := widget.NewButton("Cancel", func() {
		if c.onCancel != nil {
			c.onCancel()
		}
	})

	win.SetContent(container.NewBorder(nil, c.bar, nil, cancel, c.label))
	win.Resize(fyne.NewSize(Width, Height))
	win.SetFixedSize(true)
	c.win = win
	return c
}

// Show brings the countdown up for a shutdown due at target.
func (c *Countdown) Show(target time.Time, total time.Duration) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	c.update(target, total)
	fyne.Do(func() {
		c.win.Show()
	})
	c.placeTopCenter()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.update(target, total)
			}
		}
	}()
}

// Close takes the countdown off screen.
func (c *Countdown) Close() {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.mu.Unlock()
	fyne.Do(func() {
		c.win.Hide()
	})
}

func (c *Countdown) update(target time.Time, total time.Duration) {
	remaining := time.Until(target)
	text := "Shutdown in " + formatCountdown(remaining)
	fraction := progressFraction(remaining, total)
	fyne.Do(func() {
		c.label.SetText(text)
		c.bar.SetValue(fraction)
	})
}

func formatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// progressFraction reports how much of the wait has elapsed.
func progressFraction(remaining, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	if remaining < 0 {
		remaining = 0
	}
	fraction := 1 - remaining.Seconds()/total.Seconds()
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
