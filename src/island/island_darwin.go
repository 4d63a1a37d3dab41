//go:build darwin

package island

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa

#import <Cocoa/Cocoa.h>
#include <stdint.h>

static void islandPlaceTopCenter(uintptr_t handle, double topMargin) {
	NSWindow *window = (__bridge NSWindow *)(void *)handle;
	dispatch_async(dispatch_get_main_queue(), ^{
		NSScreen *screen = [NSScreen mainScreen];
		if (screen == nil) {
			return;
		}
		NSRect screenFrame = screen.frame;
		NSRect windowFrame = window.frame;
		CGFloat x = screenFrame.origin.x + (screenFrame.size.width - windowFrame.size.width) / 2.0;
		CGFloat y = screenFrame.origin.y + screenFrame.size.height - topMargin;
		[window setFrameTopLeftPoint:NSMakePoint(x, y)];
		window.level = NSFloatingWindowLevel;
		window.collectionBehavior = NSWindowCollectionBehaviorCanJoinAllSpaces |
		                            NSWindowCollectionBehaviorFullScreenAuxiliary;
	});
}
*/
import "C"

import "fyne.io/fyne/v2/driver"

const topMargin = 20

// placeTopCenter pins the island where a notch-style indicator is expected.
// fyne can only center windows, so the placement goes through Cocoa.
func (c *Countdown) placeTopCenter() {
	native, ok := c.win.(driver.NativeWindow)
	if !ok {
		return
	}
	native.RunNative(func(ctx any) {
		if mac, ok := ctx.(driver.MacWindowContext); ok {
			C.islandPlaceTopCenter(C.uintptr_t(mac.NSWindow), C.double(topMargin))
		}
	})
}
