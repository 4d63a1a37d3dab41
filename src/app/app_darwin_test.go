package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-goblin/src/appstate"
	"task-goblin/src/automation"
)

type recordingRunner struct {
	calls chan []string
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.calls <- append([]string{name}, args...)
	return "", nil
}

func (r *recordingRunner) RunInput(ctx context.Context, input, name string, args ...string) (string, error) {
	r.calls <- append([]string{name}, args...)
	return "", nil
}

func (r *recordingRunner) waitCall(t *testing.T) []string {
	t.Helper()
	select {
	case call := <-r.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a command, got none")
		return nil
	}
}

func TestOpenFocusSettingsDeepLinks(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	runner := &recordingRunner{calls: make(chan []string, 1)}
	a := New(Options{State: state, Surface: s, Runner: runner})

	a.OpenFocusSettings()

	call := runner.waitCall(t)
	if len(call) != 2 || call[0] != "open" || call[1] != automation.PaneFocusSettings {
		t.Errorf("Expected open %s, got %v", automation.PaneFocusSettings, call)
	}
}

func TestOpenContactsSettingsDeepLinks(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	runner := &recordingRunner{calls: make(chan []string, 1)}
	a := New(Options{State: state, Surface: s, Runner: runner})

	a.OpenContactsSettings()

	call := runner.waitCall(t)
	if len(call) != 2 || call[0] != "open" || call[1] != automation.PaneContactsPrivacy {
		t.Errorf("Expected open %s, got %v", automation.PaneContactsPrivacy, call)
	}
}

func TestOpenAccessibilitySettingsDeepLinks(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	runner := &recordingRunner{calls: make(chan []string, 1)}
	a := New(Options{State: state, Surface: s, Runner: runner})

	a.OpenAccessibilitySettings()

	call := runner.waitCall(t)
	if len(call) != 2 || call[0] != "open" || call[1] != automation.PaneAccessibilityPrivacy {
		t.Errorf("Expected open %s, got %v", automation.PaneAccessibilityPrivacy, call)
	}
}

func TestRequestNotificationPermissionPostsBanner(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	runner := &recordingRunner{calls: make(chan []string, 1)}
	a := New(Options{State: state, Surface: s, Runner: runner})

	a.RequestNotificationPermission()

	call := runner.waitCall(t)
	if call[0] != "osascript" {
		t.Errorf("Expected an osascript post, got %v", call)
	}
	script := call[len(call)-1]
	if !strings.Contains(script, "display notification") || !strings.Contains(script, "TaskGoblin") {
		t.Errorf("Expected a display notification script, got %q", script)
	}
}
