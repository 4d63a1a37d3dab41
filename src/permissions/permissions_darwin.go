//go:build darwin

package permissions

/*
#cgo darwin LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static Boolean axTrusted(void) {
	return AXIsProcessTrusted();
}
*/
import "C"

// Trusted reports whether the process already holds Accessibility access.
// It never prompts; Request does that.
func Trusted() bool {
	return C.axTrusted() != C.Boolean(0)
}
