// Package jiggler nudges the pointer while the keep-awake mode is on.
package jiggler

import (
	"context"
	"time"

	"task-goblin/src/appstate"
)

// DefaultPeriod is the tick interval of the oscillator.
const DefaultPeriod = 50 * time.Millisecond

// PointerMover moves the pointer relative to its current position. Failures
// are invisible to the caller; a missed nudge is harmless.
type PointerMover interface {
	MoveRelative(dx, dy int)
}

// Jiggler alternates one-unit horizontal nudges, producing a triangle wave
// with amplitude 1. It only reads the shared flag; the tray owns writes.
type Jiggler struct {
	state  *appstate.State
	mover  PointerMover
	period time.Duration
}

func New(state *appstate.State, mover PointerMover) *Jiggler {
	return &Jiggler{state: state, mover: mover, period: DefaultPeriod}
}

// Run ticks until the context is cancelled. Each tick reads the flag and,
// when set, nudges the pointer and flips direction for the next moving tick.
func (j *Jiggler) Run(ctx context.Context) {
	ticker := time.NewTicker(j.period)
	defer ticker.Stop()

	direction := 1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if j.state.MouseMoving() {
				j.mover.MoveRelative(direction, 0)
				direction = -direction
			}
		}
	}
}
