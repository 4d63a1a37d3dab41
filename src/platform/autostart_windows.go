//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

const registryValueName = "TaskGoblin"

func enableAutostart(execPath string) error {
	quotedPath := `"` + strings.Trim(execPath, `"`) + `"`
	command := exec.Command(
		"reg", "add", registryRunKey,
		"/v", registryValueName,
		"/t", "REG_SZ",
		"/d", quotedPath,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func disableAutostart() error {
	command := exec.Command(
		"reg", "delete", registryRunKey,
		"/v", registryValueName,
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
