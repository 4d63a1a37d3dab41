package platform

import (
	"fmt"
	"os"
)

// SyncAutostart registers or removes the running binary as a login item,
// matching the settings toggle.
func SyncAutostart(enabled bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("autostart: resolve executable: %w", err)
	}
	if enabled {
		return enableAutostart(execPath)
	}
	return disableAutostart()
}
