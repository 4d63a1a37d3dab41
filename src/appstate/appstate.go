// Package appstate holds the mutable state shared between the background
// loops, the tray, and the UI commands. One State is created at startup and
// passed by reference; there are no package-level singletons.
package appstate

import "sync"

// State groups the mode flags and the pending-shutdown descriptor. The two
// groups change independently and are guarded by separate mutexes so a slow
// shutdown caller never stalls a flag read from the poll loops.
type State struct {
	flagMu      sync.Mutex
	mouseMoving bool
	petMode     bool
	paintMode   bool
	dialogOpen  bool

	shutdownMu sync.Mutex
	shutdown   shutdownDescriptor
}

// shutdownDescriptor tracks the single pending scheduled shutdown. The cancel
// channel is single-use: whoever removes the descriptor closes it (or drops it
// when the timer already fired). The generation counter lets a superseded
// timer goroutine detect that it no longer owns the descriptor.
type shutdownDescriptor struct {
	targetUnix   int64
	durationSecs int64
	cancel       chan struct{}
	generation   uint64
}

func New() *State {
	return &State{}
}

func (s *State) MouseMoving() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.mouseMoving
}

func (s *State) SetMouseMoving(on bool) {
	s.flagMu.Lock()
	s.mouseMoving = on
	s.flagMu.Unlock()
}

// ToggleMouseMoving flips the flag and returns the new value.
func (s *State) ToggleMouseMoving() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	s.mouseMoving = !s.mouseMoving
	return s.mouseMoving
}

func (s *State) PetMode() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.petMode
}

func (s *State) SetPetMode(on bool) {
	s.flagMu.Lock()
	s.petMode = on
	s.flagMu.Unlock()
}

func (s *State) PaintMode() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.paintMode
}

func (s *State) SetPaintMode(on bool) {
	s.flagMu.Lock()
	s.paintMode = on
	s.flagMu.Unlock()
}

func (s *State) DialogOpen() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return s.dialogOpen
}

func (s *State) SetDialogOpen(open bool) {
	s.flagMu.Lock()
	s.dialogOpen = open
	s.flagMu.Unlock()
}

// ShouldAutoHide reports whether losing focus should hide the window. Any of
// pet mode, paint mode, or an open dialog suppresses auto-hide.
func (s *State) ShouldAutoHide() bool {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	return !s.petMode && !s.paintMode && !s.dialogOpen
}

// BeginShutdown retires any pending shutdown and installs a fresh descriptor,
// all under one lock acquisition so concurrent schedulers serialize cleanly.
// The returned channel closes if the schedule is cancelled or superseded; the
// generation identifies this descriptor to FinishShutdown.
func (s *State) BeginShutdown(targetUnix, durationSecs int64) (<-chan struct{}, uint64) {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	if s.shutdown.cancel != nil {
		close(s.shutdown.cancel)
	}

	s.shutdown.generation++
	s.shutdown.targetUnix = targetUnix
	s.shutdown.durationSecs = durationSecs
	s.shutdown.cancel = make(chan struct{})
	return s.shutdown.cancel, s.shutdown.generation
}

// CancelShutdown signals and clears the pending descriptor, if any. It is
// idempotent and reports whether something was actually pending.
func (s *State) CancelShutdown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	if s.shutdown.cancel == nil {
		return false
	}
	close(s.shutdown.cancel)
	s.shutdown = shutdownDescriptor{generation: s.shutdown.generation}
	return true
}

// FinishShutdown clears the descriptor after its timer fired. A stale
// generation means the descriptor was cancelled or replaced while the timer
// goroutine was waking up; in that case nothing is touched.
func (s *State) FinishShutdown(generation uint64) bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	if s.shutdown.cancel == nil || s.shutdown.generation != generation {
		return false
	}
	s.shutdown = shutdownDescriptor{generation: s.shutdown.generation}
	return true
}

// ShutdownStatus returns the pending target time (unix seconds) and the
// originally requested duration. Both are zero when nothing is pending.
func (s *State) ShutdownStatus() (targetUnix, durationSecs int64) {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()

	if s.shutdown.cancel == nil {
		return 0, 0
	}
	return s.shutdown.targetUnix, s.shutdown.durationSecs
}
