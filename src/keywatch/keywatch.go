// Package keywatch turns the global key event stream into a triple-tap
// Control gesture. A dedicated goroutine polls the key snapshot every 20ms
// and counts rising edges; three taps inside the debounce window fire the
// trigger once.
package keywatch

import (
	"context"
	"time"
)

const (
	DefaultPollInterval = 20 * time.Millisecond
	DefaultTapWindow    = 500 * time.Millisecond

	tapsToTrigger = 3
)

// Watcher holds the poll-loop state. Nothing here is shared; only the Run
// goroutine touches the tap bookkeeping.
type Watcher struct {
	controlDown func() bool
	trigger     func()
	interval    time.Duration
	window      time.Duration

	wasDown  bool
	tapCount int
	lastTap  time.Time
}

// New builds a Watcher over a key-state source. trigger must not block: the
// caller hands the capture off to a worker and returns immediately.
func New(controlDown func() bool, trigger func(), window time.Duration) *Watcher {
	if window <= 0 {
		window = DefaultTapWindow
	}
	return &Watcher{
		controlDown: controlDown,
		trigger:     trigger,
		interval:    DefaultPollInterval,
		window:      window,
	}
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.step(now)
		}
	}
}

// step advances the edge detector by one poll. A tap only counts on the
// rising edge, so a held key never accumulates.
func (w *Watcher) step(now time.Time) {
	down := w.controlDown()
	if down && !w.wasDown {
		if !w.lastTap.IsZero() && now.Sub(w.lastTap) < w.window {
			w.tapCount++
		} else {
			w.tapCount = 1
		}
		w.lastTap = now

		if w.tapCount >= tapsToTrigger {
			w.tapCount = 0
			w.trigger()
		}
	}
	w.wasDown = down
}
