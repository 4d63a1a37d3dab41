//go:build !darwin

package permissions

// Trusted always reports true off macOS; no platform gatekeeper stands
// between the process and synthetic input there.
func Trusted() bool {
	return true
}
