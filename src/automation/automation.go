// Package automation is the single gateway to external macOS tooling
// (osascript, open, screencapture, swift, pbcopy, python3). Every command
// goes through a Runner so callers can be tested with a fake, and every
// failure carries the child's output back to the caller.
package automation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned by OS entry points on platforms where the
// underlying tooling does not exist.
var ErrUnsupported = errors.New("not supported on this platform")

// CommandError reports a spawned command that failed or exited non-zero,
// keeping its captured output for diagnostics.
type CommandError struct {
	Name   string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	detail := e.Stderr
	if detail == "" {
		detail = e.Stdout
	}
	if detail == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, detail)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes external commands. The production implementation shells
// out; tests substitute fakes.
type Runner interface {
	// Run executes the command and returns its trimmed stdout.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// RunInput is Run with data piped to the child's stdin.
	RunInput(ctx context.Context, input, name string, args ...string) (string, error)
}

type execRunner struct{}

// NewRunner returns the os/exec backed Runner.
func NewRunner() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return runCommand(ctx, "", name, args...)
}

func (execRunner) RunInput(ctx context.Context, input, name string, args ...string) (string, error) {
	return runCommand(ctx, input, name, args...)
}

func runCommand(ctx context.Context, input, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if err != nil {
		return out, &CommandError{
			Name:   name,
			Stdout: out,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return out, nil
}

// RunAppleScript evaluates a script via osascript -e.
func RunAppleScript(ctx context.Context, runner Runner, script string) (string, error) {
	return runner.Run(ctx, "osascript", "-e", script)
}

// EscapeAppleScript makes a Go string safe inside an AppleScript double-quoted
// literal.
func EscapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// System Settings deep links used by the UI.
const (
	PaneContactsPrivacy      = "x-apple.systempreferences:com.apple.preference.security?Privacy_Contacts"
	PaneAccessibilityPrivacy = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"
	PaneFocusSettings        = "x-apple.systempreferences:com.apple.Focus-Settings.extension"
)

const shutdownScript = `tell application "System Events" to shut down`

func notificationScript(title, message string) string {
	return fmt.Sprintf(`display notification "%s" with title "%s"`,
		EscapeAppleScript(message), EscapeAppleScript(title))
}
