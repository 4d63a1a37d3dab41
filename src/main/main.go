package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"task-goblin/src/app"
	"task-goblin/src/appcloser"
	"task-goblin/src/appstate"
	"task-goblin/src/automation"
	"task-goblin/src/capture"
	"task-goblin/src/clipboard"
	"task-goblin/src/config"
	"task-goblin/src/contacts"
	"task-goblin/src/island"
	"task-goblin/src/jiggler"
	"task-goblin/src/keywatch"
	"task-goblin/src/logutil"
	"task-goblin/src/pdfword"
	"task-goblin/src/pipeline"
	"task-goblin/src/platform"
	"task-goblin/src/settings"
	"task-goblin/src/shutdown"
	"task-goblin/src/supervise"
	"task-goblin/src/surface"
	"task-goblin/src/tray"
	"task-goblin/src/vision"
	"task-goblin/src/whatsapp"
	"task-goblin/src/worker"
)

func main() {
	// The fyne driver must own the main thread before any window exists.
	runtime.LockOSThread()

	captureOnce := flag.Bool("capture-once", false,
		"Capture a region, print the recognized text to stdout, and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logutil.Setup(cfg.EnableFileLogging)

	if *captureOnce {
		runCaptureOnce(cfg)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// goblin is assigned below; callbacks only fire once the UI runs.
	var goblin *app.App

	guard, resident, err := claimInstance(ctx, platform.NotifyResident, platform.AcquireSingleInstance, func() {
		if goblin != nil {
			goblin.RaiseWindow()
		}
	})
	if err != nil {
		log.Fatalf("Instance check failed: %v", err)
	}
	if !resident {
		fmt.Println("TaskGoblin is already running")
		return
	}
	defer guard.Release()

	stored, err := settings.Load()
	if err != nil {
		log.Printf("Settings unreadable, using defaults: %v", err)
		stored = settings.DefaultSettings()
	}

	state := appstate.New()
	runner := automation.NewRunner()

	converter, err := pdfword.New(runner)
	if err != nil {
		log.Fatalf("Failed to locate home directory: %v", err)
	}

	pool := worker.New(1)
	defer pool.Close()

	fyneApp := fyneapp.NewWithID("com.taskgoblin.app")

	win := surface.New(fyneApp, stored, surface.Actions{
		OnToggleMoving:     func() { goblin.ToggleMouseMoving() },
		OnCaptureText:      func() { goblin.CaptureText() },
		OnScheduleShutdown: func(delay time.Duration) { goblin.ScheduleShutdown(delay) },
		OnCancelShutdown:   func() { goblin.CancelShutdown() },
		OnCloseAll:         func() { goblin.CloseAllApps() },
		OnCloseLeisure:     func() { goblin.CloseLeisureApps() },
		OnCloseHeavy:       func() { goblin.CloseHeavyApps() },
		OnSendWhatsApp: func(phone, message string, delay time.Duration) {
			goblin.ScheduleWhatsApp(phone, message, delay)
		},
		OnLoadContacts:      func() ([]contacts.Contact, error) { return goblin.LoadContacts() },
		OnConvertPDF:        func(path string) { goblin.ConvertPDF(path) },
		OnPetMode:           func(on bool) { goblin.SetPetMode(on) },
		OnPaintMode:         func(on bool) { goblin.SetPaintMode(on) },
		OnSettingsChanged:   func(s settings.Settings) { goblin.ApplySettings(s) },
		OnOpenAccessibility: func() { goblin.OpenAccessibilitySettings() },
		OnOpenContactsPane:  func() { goblin.OpenContactsSettings() },
		OnOpenFocus:         func() { goblin.OpenFocusSettings() },
		OnDialogOpen:        func(open bool) { goblin.SetDialogOpen(open) },
	})

	isle := island.New(fyneApp, func() {
		goblin.CancelShutdown()
	})
	scheduler := shutdown.New(state, isle, func(ctx context.Context) error {
		return automation.Shutdown(ctx, runner)
	})

	opts := app.Options{
		Context:     ctx,
		State:       state,
		Surface:     win,
		Pool:        pool,
		Runner:      runner,
		Scheduler:   scheduler,
		Capture:     capture.New(runner),
		Recognize:   vision.New(runner, cfg.OCRLanguages, time.Duration(cfg.OCRDeadlineSec)*time.Second),
		Clipboard:   clipboard.New(runner),
		WhatsApp:    whatsapp.New(runner, time.Duration(cfg.WhatsAppFocusDelaySec)*time.Second),
		Contacts:    contacts.New(runner),
		Closer:      appcloser.New(runner),
		Converter:   converter,
		Settings:    stored,
		SettleDelay: time.Duration(cfg.CaptureSettleMS) * time.Millisecond,
		Nudger:      jiggler.RobotMover{},
	}

	if desk, ok := fyneApp.(desktop.App); ok {
		opts.Tray = tray.New(desk, tray.Callbacks{
			OnToggleWindow: func() { goblin.ToggleWindow() },
			OnToggleMoving: func() { goblin.ToggleMouseMoving() },
			OnCaptureText:  func() { goblin.CaptureText() },
			OnPetMode:      func(on bool) { goblin.SetPetMode(on) },
			OnPaintMode:    func(on bool) { goblin.SetPaintMode(on) },
			OnQuit: func() {
				cancel()
				fyneApp.Quit()
			},
		})
	}

	goblin = app.New(opts)

	tracker := keywatch.NewControlTracker()
	tracker.Start()
	watcher := keywatch.New(tracker.ControlDown, goblin.CaptureText,
		time.Duration(cfg.TapWindowMS)*time.Millisecond)
	supervise.Go(ctx, "keywatch", watcher.Run)

	supervise.Go(ctx, "jiggler", jiggler.New(state, jiggler.RobotMover{}).Run)

	fyneApp.Lifecycle().SetOnExitedForeground(goblin.HandleFocusLost)

	// SIGINT/SIGTERM stop the loops, then the UI.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			cancel()
			fyne.Do(fyneApp.Quit)
		case <-ctx.Done():
		}
	}()

	goblin.Startup()
	log.Printf("TaskGoblin initialized")
	log.Printf("OCR languages: %s", strings.Join(cfg.OCRLanguages, ","))
	log.Printf("Tap window: %dms, capture settle: %dms", cfg.TapWindowMS, cfg.CaptureSettleMS)
	log.Printf("Instance port: %d", guard.Port())

	win.Show()
	fyneApp.Run()
	cancel()
}

// claimInstance makes this process the resident instance. When a prior
// instance already answers on the loopback port it is raised instead, and
// claimInstance reports resident=false.
func claimInstance(
	ctx context.Context,
	probe func(context.Context) bool,
	acquire func(onShow func()) (*platform.InstanceGuard, error),
	onShow func(),
) (guard *platform.InstanceGuard, resident bool, err error) {
	if probe(ctx) {
		log.Printf("Resident instance raised, this launch exits")
		return nil, false, nil
	}
	guard, err = acquire(onShow)
	if err != nil {
		return nil, false, err
	}
	return guard, true, nil
}

// runCaptureOnce performs one windowless capture run and prints the text.
func runCaptureOnce(cfg *config.Config) {
	runner := automation.NewRunner()
	result, err := pipeline.Execute(context.Background(), pipeline.Options{
		Surface:     surface.Headless{},
		Capture:     capture.New(runner),
		Recognize:   vision.New(runner, cfg.OCRLanguages, time.Duration(cfg.OCRDeadlineSec)*time.Second),
		Clipboard:   clipboard.New(runner),
		Notifier:    app.Banner{Runner: runner},
		SettleDelay: time.Duration(cfg.CaptureSettleMS) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Capture failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(result.Text)
}
