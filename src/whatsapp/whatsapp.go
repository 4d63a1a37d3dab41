// Package whatsapp delivers scheduled messages through the desktop WhatsApp
// app: open the chat URL, give the app time to come frontmost, then press
// Return to send.
package whatsapp

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"task-goblin/src/automation"
	"task-goblin/src/logutil"
)

// DefaultFocusDelay is how long WhatsApp gets to open and focus the chat
// before the send keystroke.
const DefaultFocusDelay = 4 * time.Second

// pressSendScript focuses WhatsApp and presses Return twice; the second
// press catches a message still sitting in the draft field.
const pressSendScript = `tell application "System Events"
	tell process "WhatsApp"
		set frontmost to true
		key code 36
		delay 0.5
		key code 36
	end tell
end tell`

type Sender struct {
	runner     automation.Runner
	focusDelay time.Duration
	sleep      func(time.Duration)
}

func New(runner automation.Runner, focusDelay time.Duration) *Sender {
	if focusDelay <= 0 {
		focusDelay = DefaultFocusDelay
	}
	return &Sender{runner: runner, focusDelay: focusDelay, sleep: time.Sleep}
}

// SanitizePhone strips everything but digits and a leading-style plus.
func SanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sendURL builds the whatsapp:// deep link with a percent-encoded message.
func sendURL(phone, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "whatsapp://send?phone=" + phone + "&text=" + encoded
}

// Schedule queues a message for delivery after delay and returns
// immediately. Delivery failures are logged, not reported; the original
// request already succeeded from the caller's point of view.
func (s *Sender) Schedule(ctx context.Context, phone, message string, delay time.Duration) {
	sanitized := SanitizePhone(phone)
	log.Printf("Scheduled WhatsApp to %s in %s", logutil.RedactPhone(sanitized), delay)

	go s.deliver(ctx, sanitized, message, delay)
}

func (s *Sender) deliver(ctx context.Context, phone, message string, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if err := automation.OpenURL(ctx, s.runner, sendURL(phone, message)); err != nil {
		log.Printf("WhatsApp open failed: %v", err)
		return
	}

	s.sleep(s.focusDelay)

	if _, err := automation.RunAppleScript(ctx, s.runner, pressSendScript); err != nil {
		log.Printf("WhatsApp send keystroke failed: %v", err)
	}
}
