package app

import (
	"context"
	"log"
	"time"

	"task-goblin/src/automation"
	"task-goblin/src/pipeline"
)

// surfaceNotifier raises the window before toasting; a toast on a hidden
// window goes unseen.
type surfaceNotifier struct {
	surface Surface
}

var _ pipeline.Notifier = surfaceNotifier{}

func (n surfaceNotifier) Notify(title, message string) {
	if !n.surface.IsVisible() {
		n.surface.Show()
	}
	n.surface.Focus()
	n.surface.Toast(title, message)
}

// Banner posts Notification Center banners, for runs without a window.
type Banner struct {
	Runner automation.Runner
}

var _ pipeline.Notifier = Banner{}

func (b Banner) Notify(title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := automation.Notify(ctx, b.Runner, title, message); err != nil {
		log.Printf("Notification banner failed: %v", err)
	}
}
