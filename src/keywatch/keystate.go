package keywatch

import (
	"log"
	"runtime"
	"sync"

	gohook "github.com/robotn/gohook"
)

// ControlTracker folds the global key event stream into a snapshot of the
// left/right Control keys. The poll loop reads the snapshot; the gohook
// goroutine writes it.
type ControlTracker struct {
	mu        sync.Mutex
	leftDown  bool
	rightDown bool
}

func NewControlTracker() *ControlTracker {
	return &ControlTracker{}
}

// ControlDown reports whether either Control key is currently held.
func (t *ControlTracker) ControlDown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leftDown || t.rightDown
}

// Start launches the gohook consumer goroutine. It runs for the process
// lifetime; the hook is never uninstalled.
func (t *ControlTracker) Start() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in key event goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("ERROR: gohook.Start() returned nil channel")
			return
		}
		log.Printf("Key event hook installed")

		left, right := controlRawcodes()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				t.set(ev.Rawcode, left, right, true)
			case gohook.KeyUp:
				t.set(ev.Rawcode, left, right, false)
			}
		}
		log.Printf("Key event channel closed")
	}()
}

func (t *ControlTracker) set(rawcode, left, right uint16, down bool) {
	if rawcode != left && rawcode != right {
		return
	}
	t.mu.Lock()
	if rawcode == left {
		t.leftDown = down
	} else {
		t.rightDown = down
	}
	t.mu.Unlock()
}

// controlRawcodes returns the platform rawcodes for the left and right
// Control keys as gohook reports them.
func controlRawcodes() (left, right uint16) {
	switch runtime.GOOS {
	case "darwin":
		return 59, 62 // kVK_Control, kVK_RightControl
	case "windows":
		return 162, 163 // VK_LCONTROL, VK_RCONTROL
	default:
		return 37, 105 // X11 Control_L, Control_R
	}
}
