// Package app binds the feature services to the window, the tray, and the
// hotkey trigger. One App is built at startup; its methods are the commands
// the UI fires and are safe to call from any goroutine.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"task-goblin/src/appstate"
	"task-goblin/src/automation"
	"task-goblin/src/contacts"
	"task-goblin/src/pdfword"
	"task-goblin/src/permissions"
	"task-goblin/src/pipeline"
	"task-goblin/src/platform"
	"task-goblin/src/settings"
	"task-goblin/src/shutdown"
	"task-goblin/src/whatsapp"
	"task-goblin/src/worker"
)

// Surface is the window as the commands drive it. *surface.Window implements
// it; tests record calls instead.
type Surface interface {
	IsVisible() bool
	Show()
	Hide()
	Focus()
	Toggle()
	EnterOverlay(clickThrough bool)
	ExitOverlay()
	Toast(title, message string)
	Progress(step string, fraction float64)

	SetMoving(moving bool)
	SetShutdownPending(pending bool, target time.Time)
	SetAccessibility(trusted bool)
	SetPetChecked(on bool)
	SetPaintChecked(on bool)
}

// Tray is the menu as the commands keep it in sync.
type Tray interface {
	SetMoving(moving bool)
	SetPetActive(on bool)
	SetPaintActive(on bool)
}

// MessageScheduler queues a WhatsApp message for later delivery.
type MessageScheduler interface {
	Schedule(ctx context.Context, phone, message string, delay time.Duration)
}

// ContactLister reads the address book.
type ContactLister interface {
	List(ctx context.Context) ([]contacts.Contact, error)
}

// AppCloser quits running applications in bulk.
type AppCloser interface {
	CloseAll(ctx context.Context, extraKeep []string) error
	CloseLeisure(ctx context.Context) error
	CloseHeavy(ctx context.Context) error
}

// DocConverter turns a PDF into a Word document, reporting progress.
type DocConverter interface {
	Convert(ctx context.Context, pdfPath string, progress pdfword.ProgressFunc) (string, error)
}

// Options carries the collaborators for New. Context, Tray, and Nudger may
// be nil; the injectable funcs default to their production implementations.
type Options struct {
	Context   context.Context
	State     *appstate.State
	Surface   Surface
	Tray      Tray
	Pool      *worker.Pool
	Runner    automation.Runner
	Scheduler *shutdown.Scheduler

	Capture   pipeline.Capturer
	Recognize pipeline.Recognizer
	Clipboard pipeline.ClipboardWriter

	WhatsApp  MessageScheduler
	Contacts  ContactLister
	Closer    AppCloser
	Converter DocConverter

	Settings    settings.Settings
	SettleDelay time.Duration
	Nudger      permissions.Nudger

	Trusted       func() bool
	SaveSettings  func(settings.Settings) error
	SyncAutostart func(enabled bool) error
}

type App struct {
	ctx       context.Context
	state     *appstate.State
	surface   Surface
	tray      Tray
	pool      *worker.Pool
	runner    automation.Runner
	scheduler *shutdown.Scheduler

	capture   pipeline.Capturer
	recognize pipeline.Recognizer
	clipboard pipeline.ClipboardWriter

	sender    MessageScheduler
	book      ContactLister
	closer    AppCloser
	converter DocConverter

	settleDelay time.Duration
	nudger      permissions.Nudger

	trusted       func() bool
	saveSettings  func(settings.Settings) error
	syncAutostart func(enabled bool) error
	runPipeline   func(context.Context, pipeline.Options) (pipeline.Result, error)

	settingsMu sync.Mutex
	settings   settings.Settings
}

func New(opts Options) *App {
	a := &App{
		ctx:           opts.Context,
		state:         opts.State,
		surface:       opts.Surface,
		tray:          opts.Tray,
		pool:          opts.Pool,
		runner:        opts.Runner,
		scheduler:     opts.Scheduler,
		capture:       opts.Capture,
		recognize:     opts.Recognize,
		clipboard:     opts.Clipboard,
		sender:        opts.WhatsApp,
		book:          opts.Contacts,
		closer:        opts.Closer,
		converter:     opts.Converter,
		settleDelay:   opts.SettleDelay,
		nudger:        opts.Nudger,
		trusted:       opts.Trusted,
		saveSettings:  opts.SaveSettings,
		syncAutostart: opts.SyncAutostart,
		runPipeline:   pipeline.Execute,
		settings:      opts.Settings,
	}
	if a.ctx == nil {
		a.ctx = context.Background()
	}
	if a.trusted == nil {
		a.trusted = permissions.Trusted
	}
	if a.saveSettings == nil {
		a.saveSettings = settings.Save
	}
	if a.syncAutostart == nil {
		a.syncAutostart = platform.SyncAutostart
	}
	return a
}

// Startup runs the launch-time side effects: prime the trust and
// notification prompts, reflect the permission state, point the autostart
// entry at the current executable, and honor the start-moving setting.
func (a *App) Startup() {
	if a.nudger != nil {
		permissions.Request(a.nudger)
	}
	a.RequestNotificationPermission()
	a.RefreshAccessibility()
	if err := a.syncAutostart(a.currentSettings().Autostart); err != nil {
		log.Printf("Autostart sync failed: %v", err)
	}
	if a.currentSettings().StartMoving {
		a.SetMouseMoving(true)
	}
}

// ToggleWindow flips sidebar visibility. The permission label is refreshed
// on the way, so a grant made in System Settings shows up on the next open.
func (a *App) ToggleWindow() {
	a.surface.Toggle()
	a.RefreshAccessibility()
}

// RaiseWindow brings the sidebar up; a second instance asks for this before
// it exits.
func (a *App) RaiseWindow() {
	a.surface.Show()
	a.surface.Focus()
}

// HandleFocusLost hides the sidebar unless an overlay mode or an open file
// dialog wants the window kept up.
func (a *App) HandleFocusLost() {
	if a.state.ShouldAutoHide() && a.surface.IsVisible() {
		a.surface.Hide()
	}
}

func (a *App) ToggleMouseMoving() {
	moving := a.state.ToggleMouseMoving()
	log.Printf("Mouse movement toggled: %v", moving)
	a.syncMovingUI(moving)
}

func (a *App) SetMouseMoving(on bool) {
	a.state.SetMouseMoving(on)
	a.syncMovingUI(on)
}

func (a *App) syncMovingUI(moving bool) {
	a.surface.SetMoving(moving)
	if a.tray != nil {
		a.tray.SetMoving(moving)
	}
}

// CaptureText hands one capture run to the worker. With a run in flight and
// another queued, further requests are dropped instead of stacking.
func (a *App) CaptureText() {
	accepted := a.pool.Submit(a.ctx, "text-capture", func(ctx context.Context) {
		_, _ = a.runPipeline(ctx, pipeline.Options{
			Surface:     a.surface,
			Capture:     a.capture,
			Recognize:   a.recognize,
			Clipboard:   a.clipboard,
			Notifier:    surfaceNotifier{surface: a.surface},
			SettleDelay: a.settleDelay,
		})
	})
	if !accepted {
		log.Printf("Capture request dropped, one already queued")
	}
}

func (a *App) ScheduleShutdown(delay time.Duration) {
	if err := a.scheduler.Schedule(int64(delay / time.Second)); err != nil {
		a.surface.Toast("Invalid Delay", err.Error())
		return
	}
	targetUnix, _ := a.scheduler.Status()
	a.surface.SetShutdownPending(true, time.Unix(targetUnix, 0))
}

func (a *App) CancelShutdown() {
	a.scheduler.Cancel()
	a.surface.SetShutdownPending(false, time.Time{})
}

func (a *App) CloseAllApps() {
	keep := a.currentSettings().ExtraKeepApps
	a.runAsync("close-all-apps", func(ctx context.Context) {
		if err := a.closer.CloseAll(ctx, keep); err != nil {
			log.Printf("Close all apps failed: %v", err)
			a.surface.Toast("Close Apps Failed", err.Error())
			return
		}
		a.surface.Toast("Apps Closed", "Closed all non-essential apps")
	})
}

func (a *App) CloseLeisureApps() {
	a.runAsync("close-leisure-apps", func(ctx context.Context) {
		if err := a.closer.CloseLeisure(ctx); err != nil {
			log.Printf("Close leisure apps failed: %v", err)
			a.surface.Toast("Close Apps Failed", err.Error())
			return
		}
		a.surface.Toast("Apps Closed", "Closed leisure apps")
	})
}

func (a *App) CloseHeavyApps() {
	a.runAsync("close-heavy-apps", func(ctx context.Context) {
		if err := a.closer.CloseHeavy(ctx); err != nil {
			log.Printf("Close heavy apps failed: %v", err)
			a.surface.Toast("Close Apps Failed", err.Error())
			return
		}
		a.surface.Toast("Apps Closed", "Closed heavy apps")
	})
}

// ScheduleWhatsApp validates the phone, then queues the message. Delivery
// happens in the background after the delay.
func (a *App) ScheduleWhatsApp(phone, message string, delay time.Duration) {
	sanitized := whatsapp.SanitizePhone(phone)
	digits := 0
	for _, r := range sanitized {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 5 {
		a.surface.Toast("Invalid Phone", "Use the international format, digits only")
		return
	}

	a.sender.Schedule(a.ctx, sanitized, message, delay)
	a.surface.Toast("Message Scheduled",
		fmt.Sprintf("Sending to %s in %s", sanitized, delay.Round(time.Second)))
}

// LoadContacts queries the address book. The sidebar calls this from its
// own goroutine.
func (a *App) LoadContacts() ([]contacts.Contact, error) {
	return a.book.List(a.ctx)
}

func (a *App) ConvertPDF(path string) {
	a.runAsync("pdf-convert", func(ctx context.Context) {
		out, err := a.converter.Convert(ctx, path, a.surface.Progress)
		if err != nil {
			log.Printf("PDF conversion failed: %v", err)
			a.surface.Progress("Conversion failed", 1)
			a.surface.Toast("Conversion Failed", err.Error())
			return
		}
		a.surface.Toast("Conversion Complete", fmt.Sprintf("Saved to %s", out))
	})
}

// SetPetMode drives the click-through overlay. Pet and paint are exclusive;
// turning one on turns the other off first.
func (a *App) SetPetMode(on bool) {
	if a.state.PetMode() == on {
		return
	}
	if on && a.state.PaintMode() {
		a.SetPaintMode(false)
	}
	a.state.SetPetMode(on)
	if on {
		a.surface.EnterOverlay(true)
	} else {
		a.surface.ExitOverlay()
	}
	a.syncModeUI()
}

// SetPaintMode drives the interactive overlay.
func (a *App) SetPaintMode(on bool) {
	if a.state.PaintMode() == on {
		return
	}
	if on && a.state.PetMode() {
		a.SetPetMode(false)
	}
	a.state.SetPaintMode(on)
	if on {
		a.surface.EnterOverlay(false)
	} else {
		a.surface.ExitOverlay()
	}
	a.syncModeUI()
}

func (a *App) syncModeUI() {
	pet := a.state.PetMode()
	paint := a.state.PaintMode()
	a.surface.SetPetChecked(pet)
	a.surface.SetPaintChecked(paint)
	if a.tray != nil {
		a.tray.SetPetActive(pet)
		a.tray.SetPaintActive(paint)
	}
}

// SetDialogOpen marks a modal file dialog as open so auto-hide stays out of
// its way.
func (a *App) SetDialogOpen(open bool) {
	a.state.SetDialogOpen(open)
}

// ApplySettings persists the new settings and applies the ones with
// immediate effect.
func (a *App) ApplySettings(s settings.Settings) {
	a.settingsMu.Lock()
	a.settings = s
	a.settingsMu.Unlock()

	if err := a.saveSettings(s); err != nil {
		log.Printf("Save settings failed: %v", err)
		a.surface.Toast("Settings Error", err.Error())
		return
	}
	if err := a.syncAutostart(s.Autostart); err != nil {
		log.Printf("Autostart sync failed: %v", err)
		a.surface.Toast("Autostart Error", err.Error())
		return
	}
	a.surface.Toast("Settings Saved", "Changes take effect immediately")
}

// RefreshAccessibility re-reads the Accessibility trust state into the UI
// and reports it.
func (a *App) RefreshAccessibility() bool {
	trusted := a.trusted()
	a.surface.SetAccessibility(trusted)
	return trusted
}

// RequestNotificationPermission posts a launch banner. Notification Center
// asks for permission on the first post, so the prompt appears now rather
// than mid-pipeline.
func (a *App) RequestNotificationPermission() {
	a.runAsync("notify-permission", func(ctx context.Context) {
		if err := automation.Notify(ctx, a.runner, "TaskGoblin", "Running in the menu bar"); err != nil {
			log.Printf("Notification permission request failed: %v", err)
		}
	})
}

func (a *App) OpenAccessibilitySettings() {
	a.runAsync("open-accessibility", func(ctx context.Context) {
		if err := permissions.OpenAccessibilityPane(ctx, a.runner); err != nil {
			log.Printf("Open accessibility pane failed: %v", err)
		}
	})
}

// OpenContactsSettings deep-links to the Contacts privacy pane, for when the
// address book query is denied.
func (a *App) OpenContactsSettings() {
	a.runAsync("open-contacts-privacy", func(ctx context.Context) {
		if err := automation.OpenSettingsPane(ctx, a.runner, automation.PaneContactsPrivacy); err != nil {
			log.Printf("Open contacts pane failed: %v", err)
		}
	})
}

// OpenFocusSettings deep-links to the Focus pane so Do Not Disturb can be
// enabled alongside the app closers.
func (a *App) OpenFocusSettings() {
	a.runAsync("open-focus-settings", func(ctx context.Context) {
		if err := automation.OpenSettingsPane(ctx, a.runner, automation.PaneFocusSettings); err != nil {
			log.Printf("Open focus pane failed: %v", err)
		}
	})
}

func (a *App) currentSettings() settings.Settings {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.settings
}

// runAsync keeps slow command work off the UI thread. A panic takes down
// the one command, not the process.
func (a *App) runAsync(name string, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in command %s: %v", name, r)
			}
		}()
		fn(a.ctx)
	}()
}
