// Package shutdown schedules, reports, and cancels a deferred system
// shutdown. At most one shutdown is pending at a time; scheduling again
// replaces the pending one.
package shutdown

import (
	"context"
	"errors"
	"log"
	"time"

	"task-goblin/src/appstate"
)

// ErrInvalidDelay rejects non-positive delays before any pending schedule is
// touched.
var ErrInvalidDelay = errors.New("delay must be greater than 0")

// Island is the countdown window shown while a shutdown is pending. Both
// methods are best-effort; Show replaces any prior instance.
type Island interface {
	Show(target time.Time, total time.Duration)
	Close()
}

// Scheduler arms one timer per schedule and races it against cancellation.
// The descriptor itself lives in appstate so Status readers and the UI see
// the same record.
type Scheduler struct {
	state   *appstate.State
	island  Island
	execute func(context.Context) error

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// New builds a Scheduler. execute performs the actual system shutdown and is
// called at most once per schedule.
func New(state *appstate.State, island Island, execute func(context.Context) error) *Scheduler {
	return &Scheduler{
		state:   state,
		island:  island,
		execute: execute,
		now:     time.Now,
		after:   func(d time.Duration) <-chan time.Time { return time.After(d) },
	}
}

// Schedule arms a shutdown delaySecs from now, superseding any pending one.
// The superseded timer is signalled and never fires.
func (s *Scheduler) Schedule(delaySecs int64) error {
	if delaySecs <= 0 {
		return ErrInvalidDelay
	}

	delay := time.Duration(delaySecs) * time.Second
	target := s.now().Add(delay)
	cancelCh, generation := s.state.BeginShutdown(target.Unix(), delaySecs)

	log.Printf("Shutdown scheduled in %ds (target %s)", delaySecs, target.Format(time.RFC3339))
	s.island.Show(target, delay)

	go s.await(delay, cancelCh, generation)
	return nil
}

// await races the timer against cancellation. Whoever claims the descriptor
// does the cleanup; the loser returns without side effects.
func (s *Scheduler) await(delay time.Duration, cancelCh <-chan struct{}, generation uint64) {
	select {
	case <-s.after(delay):
		if !s.state.FinishShutdown(generation) {
			// Cancelled or superseded while this goroutine was waking up.
			return
		}
		s.island.Close()
		log.Printf("Shutdown timer elapsed, powering off")
		if err := s.execute(context.Background()); err != nil {
			log.Printf("Shutdown command failed: %v", err)
		}
	case <-cancelCh:
	}
}

// Cancel clears any pending shutdown. It is idempotent and always closes the
// island, even when nothing was pending.
func (s *Scheduler) Cancel() {
	if s.state.CancelShutdown() {
		log.Printf("Pending shutdown cancelled")
	}
	s.island.Close()
}

// Status returns the pending target (unix seconds) and the requested delay,
// both zero when nothing is pending.
func (s *Scheduler) Status() (targetUnix, durationSecs int64) {
	return s.state.ShutdownStatus()
}
