//go:build darwin

package surface

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>
#include <stdint.h>

static void surfaceSetClickThrough(uintptr_t handle, int on) {
	NSWindow *window = (__bridge NSWindow *)(void *)handle;
	dispatch_async(dispatch_get_main_queue(), ^{
		window.ignoresMouseEvents = on ? YES : NO;
	});
}

static void surfaceSetFloating(uintptr_t handle, int on) {
	NSWindow *window = (__bridge NSWindow *)(void *)handle;
	dispatch_async(dispatch_get_main_queue(), ^{
		if (on) {
			window.level = NSFloatingWindowLevel;
			window.collectionBehavior = NSWindowCollectionBehaviorCanJoinAllSpaces |
			                            NSWindowCollectionBehaviorFullScreenAuxiliary;
		} else {
			window.level = NSNormalWindowLevel;
			window.collectionBehavior = NSWindowCollectionBehaviorDefault;
		}
	});
}
*/
import "C"

import "fyne.io/fyne/v2/driver"

// applyClickThrough flips NSWindow.ignoresMouseEvents; fyne has no API for
// pointer pass-through.
func (w *Window) applyClickThrough(on bool) {
	w.withNSWindow(func(handle uintptr) {
		C.surfaceSetClickThrough(C.uintptr_t(handle), cBool(on))
	})
}

// applyFloating keeps the overlay above normal windows and on every Space.
func (w *Window) applyFloating(on bool) {
	w.withNSWindow(func(handle uintptr) {
		C.surfaceSetFloating(C.uintptr_t(handle), cBool(on))
	})
}

func (w *Window) withNSWindow(fn func(handle uintptr)) {
	native, ok := w.win.(driver.NativeWindow)
	if !ok {
		return
	}
	native.RunNative(func(ctx any) {
		if mac, ok := ctx.(driver.MacWindowContext); ok {
			fn(mac.NSWindow)
		}
	})
}

func cBool(on bool) C.int {
	if on {
		return 1
	}
	return 0
}
