//go:build !darwin

package surface

// Click-through and floating levels are Cocoa features; elsewhere the
// overlay is an ordinary fullscreen window.
func (w *Window) applyClickThrough(on bool) {}

func (w *Window) applyFloating(on bool) {}
