package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"task-goblin/src/appstate"
	"task-goblin/src/pdfword"
	"task-goblin/src/pipeline"
	"task-goblin/src/settings"
	"task-goblin/src/shutdown"
	"task-goblin/src/worker"
)

type toastRecord struct {
	title   string
	message string
}

type fakeSurface struct {
	mu          sync.Mutex
	visible     bool
	shows       int
	hides       int
	focuses     int
	toggles     int
	overlays    []string
	toasts      []toastRecord
	progresses  []string
	moving      []bool
	pending     []bool
	targets     []time.Time
	access      []bool
	petChecks   []bool
	paintChecks []bool

	toastCh chan toastRecord
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{toastCh: make(chan toastRecord, 8)}
}

func (f *fakeSurface) IsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *fakeSurface) Show() {
	f.mu.Lock()
	f.visible = true
	f.shows++
	f.mu.Unlock()
}

func (f *fakeSurface) Hide() {
	f.mu.Lock()
	f.visible = false
	f.hides++
	f.mu.Unlock()
}

func (f *fakeSurface) Focus() {
	f.mu.Lock()
	f.focuses++
	f.mu.Unlock()
}

func (f *fakeSurface) Toggle() {
	f.mu.Lock()
	f.visible = !f.visible
	f.toggles++
	f.mu.Unlock()
}

func (f *fakeSurface) EnterOverlay(clickThrough bool) {
	f.mu.Lock()
	if clickThrough {
		f.overlays = append(f.overlays, "enter-click-through")
	} else {
		f.overlays = append(f.overlays, "enter")
	}
	f.mu.Unlock()
}

func (f *fakeSurface) ExitOverlay() {
	f.mu.Lock()
	f.overlays = append(f.overlays, "exit")
	f.mu.Unlock()
}

func (f *fakeSurface) Toast(title, message string) {
	record := toastRecord{title: title, message: message}
	f.mu.Lock()
	f.toasts = append(f.toasts, record)
	f.mu.Unlock()
	f.toastCh <- record
}

func (f *fakeSurface) Progress(step string, fraction float64) {
	f.mu.Lock()
	f.progresses = append(f.progresses, step)
	f.mu.Unlock()
}

func (f *fakeSurface) SetMoving(moving bool) {
	f.mu.Lock()
	f.moving = append(f.moving, moving)
	f.mu.Unlock()
}

func (f *fakeSurface) SetShutdownPending(pending bool, target time.Time) {
	f.mu.Lock()
	f.pending = append(f.pending, pending)
	f.targets = append(f.targets, target)
	f.mu.Unlock()
}

func (f *fakeSurface) SetAccessibility(trusted bool) {
	f.mu.Lock()
	f.access = append(f.access, trusted)
	f.mu.Unlock()
}

func (f *fakeSurface) SetPetChecked(on bool) {
	f.mu.Lock()
	f.petChecks = append(f.petChecks, on)
	f.mu.Unlock()
}

func (f *fakeSurface) SetPaintChecked(on bool) {
	f.mu.Lock()
	f.paintChecks = append(f.paintChecks, on)
	f.mu.Unlock()
}

func (f *fakeSurface) waitToast(t *testing.T) toastRecord {
	t.Helper()
	select {
	case record := <-f.toastCh:
		return record
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a toast, got none")
		return toastRecord{}
	}
}

type surfaceSnapshot struct {
	visible     bool
	shows       int
	hides       int
	focuses     int
	toggles     int
	overlays    []string
	toasts      []toastRecord
	progresses  []string
	moving      []bool
	pending     []bool
	targets     []time.Time
	access      []bool
	petChecks   []bool
	paintChecks []bool
}

func (f *fakeSurface) snapshot() surfaceSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return surfaceSnapshot{
		visible:     f.visible,
		shows:       f.shows,
		hides:       f.hides,
		focuses:     f.focuses,
		toggles:     f.toggles,
		overlays:    append([]string(nil), f.overlays...),
		toasts:      append([]toastRecord(nil), f.toasts...),
		progresses:  append([]string(nil), f.progresses...),
		moving:      append([]bool(nil), f.moving...),
		pending:     append([]bool(nil), f.pending...),
		targets:     append([]time.Time(nil), f.targets...),
		access:      append([]bool(nil), f.access...),
		petChecks:   append([]bool(nil), f.petChecks...),
		paintChecks: append([]bool(nil), f.paintChecks...),
	}
}

type fakeTray struct {
	mu     sync.Mutex
	moving []bool
	pet    []bool
	paint  []bool
}

func (f *fakeTray) SetMoving(moving bool) {
	f.mu.Lock()
	f.moving = append(f.moving, moving)
	f.mu.Unlock()
}

func (f *fakeTray) SetPetActive(on bool) {
	f.mu.Lock()
	f.pet = append(f.pet, on)
	f.mu.Unlock()
}

func (f *fakeTray) SetPaintActive(on bool) {
	f.mu.Lock()
	f.paint = append(f.paint, on)
	f.mu.Unlock()
}

type fakeIsland struct {
	mu     sync.Mutex
	shows  int
	closes int
}

func (f *fakeIsland) Show(target time.Time, total time.Duration) {
	f.mu.Lock()
	f.shows++
	f.mu.Unlock()
}

func (f *fakeIsland) Close() {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
}

type fakeCloser struct {
	err   error
	allCh chan []string
}

func (f *fakeCloser) CloseAll(ctx context.Context, extraKeep []string) error {
	if f.allCh != nil {
		f.allCh <- extraKeep
	}
	return f.err
}

func (f *fakeCloser) CloseLeisure(ctx context.Context) error { return f.err }

func (f *fakeCloser) CloseHeavy(ctx context.Context) error { return f.err }

type scheduledMessage struct {
	phone   string
	message string
	delay   time.Duration
}

type fakeMessenger struct {
	ch chan scheduledMessage
}

func (f *fakeMessenger) Schedule(ctx context.Context, phone, message string, delay time.Duration) {
	f.ch <- scheduledMessage{phone: phone, message: message, delay: delay}
}

type fakeConverter struct {
	out string
	err error
}

func (f *fakeConverter) Convert(ctx context.Context, path string, progress pdfword.ProgressFunc) (string, error) {
	progress("Converting PDF to Word...", 0.6)
	return f.out, f.err
}

type recordingNudger struct {
	mu    sync.Mutex
	moves int
}

func (n *recordingNudger) MoveRelative(dx, dy int) {
	n.mu.Lock()
	n.moves++
	n.mu.Unlock()
}

func TestToggleMouseMovingSyncsSurfaceAndTray(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	tr := &fakeTray{}
	a := New(Options{State: state, Surface: s, Tray: tr})

	a.ToggleMouseMoving()
	if !state.MouseMoving() {
		t.Error("Expected mouse movement on after first toggle")
	}
	a.ToggleMouseMoving()
	if state.MouseMoving() {
		t.Error("Expected mouse movement off after second toggle")
	}

	snap := s.snapshot()
	if len(snap.moving) != 2 || snap.moving[0] != true || snap.moving[1] != false {
		t.Errorf("Expected surface updates [true false], got %v", snap.moving)
	}
	if len(tr.moving) != 2 || tr.moving[0] != true || tr.moving[1] != false {
		t.Errorf("Expected tray updates [true false], got %v", tr.moving)
	}
}

func TestCaptureTextRunsPipeline(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	pool := worker.New(1)
	defer pool.Close()
	a := New(Options{State: state, Surface: s, Pool: pool})

	ran := make(chan pipeline.Options, 1)
	a.runPipeline = func(ctx context.Context, opts pipeline.Options) (pipeline.Result, error) {
		ran <- opts
		return pipeline.Result{}, nil
	}

	a.CaptureText()

	select {
	case opts := <-ran:
		if opts.Surface == nil {
			t.Error("Expected the surface wired into the run")
		}
		if opts.Notifier == nil {
			t.Error("Expected a notifier wired into the run")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the capture job to run")
	}
}

func TestCaptureTextDropsWhenQueueFull(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	pool := worker.New(1)
	a := New(Options{State: state, Surface: s, Pool: pool})

	var runs int32
	block := make(chan struct{})
	started := make(chan struct{}, 3)
	a.runPipeline = func(ctx context.Context, opts pipeline.Options) (pipeline.Result, error) {
		atomic.AddInt32(&runs, 1)
		started <- struct{}{}
		<-block
		return pipeline.Result{}, nil
	}

	a.CaptureText()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the first capture to start")
	}
	a.CaptureText() // fills the single queue slot
	a.CaptureText() // dropped

	close(block)
	pool.Close()

	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Errorf("Expected 2 runs after a dropped request, got %d", got)
	}
}

func TestScheduleShutdownShowsPendingTarget(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	isle := &fakeIsland{}
	sched := shutdown.New(state, isle, func(context.Context) error { return nil })
	a := New(Options{State: state, Surface: s, Scheduler: sched})

	before := time.Now()
	a.ScheduleShutdown(90 * time.Minute)

	if _, durationSecs := sched.Status(); durationSecs != 5400 {
		t.Errorf("Expected 5400s pending, got %d", durationSecs)
	}
	snap := s.snapshot()
	if len(snap.pending) != 1 || !snap.pending[0] {
		t.Fatalf("Expected one pending update [true], got %v", snap.pending)
	}
	want := before.Add(90 * time.Minute)
	if diff := snap.targets[0].Sub(want); diff < -2*time.Second || diff > 2*time.Second {
		t.Errorf("Expected target near %v, got %v", want, snap.targets[0])
	}

	a.CancelShutdown()
	if targetUnix, _ := sched.Status(); targetUnix != 0 {
		t.Error("Expected no pending shutdown after cancel")
	}
	snap = s.snapshot()
	if len(snap.pending) != 2 || snap.pending[1] {
		t.Errorf("Expected pending updates [true false], got %v", snap.pending)
	}
	isle.mu.Lock()
	closes := isle.closes
	isle.mu.Unlock()
	if closes == 0 {
		t.Error("Expected the countdown island closed on cancel")
	}
}

func TestScheduleShutdownRejectsSubSecondDelay(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	sched := shutdown.New(state, &fakeIsland{}, func(context.Context) error { return nil })
	a := New(Options{State: state, Surface: s, Scheduler: sched})

	a.ScheduleShutdown(500 * time.Millisecond)

	record := s.waitToast(t)
	if record.title != "Invalid Delay" {
		t.Errorf("Expected toast %q, got %q", "Invalid Delay", record.title)
	}
	if snap := s.snapshot(); len(snap.pending) != 0 {
		t.Errorf("Expected no pending updates, got %v", snap.pending)
	}
}

func TestCloseAllAppsPassesKeepList(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	cl := &fakeCloser{allCh: make(chan []string, 1)}
	a := New(Options{
		State:    state,
		Surface:  s,
		Closer:   cl,
		Settings: settings.Settings{ExtraKeepApps: []string{"Obsidian"}},
	})

	a.CloseAllApps()

	select {
	case keep := <-cl.allCh:
		if len(keep) != 1 || keep[0] != "Obsidian" {
			t.Errorf("Expected keep list [Obsidian], got %v", keep)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected CloseAll to run")
	}
	if record := s.waitToast(t); record.title != "Apps Closed" {
		t.Errorf("Expected toast %q, got %q", "Apps Closed", record.title)
	}
}

func TestCloseLeisureAppsFailureToasts(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	cl := &fakeCloser{err: errors.New("osascript: exit status 1")}
	a := New(Options{State: state, Surface: s, Closer: cl})

	a.CloseLeisureApps()

	record := s.waitToast(t)
	if record.title != "Close Apps Failed" {
		t.Errorf("Expected toast %q, got %q", "Close Apps Failed", record.title)
	}
}

func TestScheduleWhatsAppSanitizesPhone(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	ms := &fakeMessenger{ch: make(chan scheduledMessage, 1)}
	a := New(Options{State: state, Surface: s, WhatsApp: ms})

	a.ScheduleWhatsApp("+34 600-112-233", "hola", time.Minute)

	got := <-ms.ch
	if got.phone != "+34600112233" {
		t.Errorf("Expected sanitized phone %q, got %q", "+34600112233", got.phone)
	}
	if got.delay != time.Minute {
		t.Errorf("Expected delay %v, got %v", time.Minute, got.delay)
	}
	if record := s.waitToast(t); record.title != "Message Scheduled" {
		t.Errorf("Expected toast %q, got %q", "Message Scheduled", record.title)
	}
}

func TestScheduleWhatsAppRejectsShortPhone(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	ms := &fakeMessenger{ch: make(chan scheduledMessage, 1)}
	a := New(Options{State: state, Surface: s, WhatsApp: ms})

	a.ScheduleWhatsApp("12ab", "hola", time.Minute)

	if record := s.waitToast(t); record.title != "Invalid Phone" {
		t.Errorf("Expected toast %q, got %q", "Invalid Phone", record.title)
	}
	select {
	case got := <-ms.ch:
		t.Errorf("Expected no scheduled message, got %+v", got)
	default:
	}
}

func TestConvertPDFReportsCompletion(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	conv := &fakeConverter{out: "/Users/me/Downloads/report.docx"}
	a := New(Options{State: state, Surface: s, Converter: conv})

	a.ConvertPDF("/tmp/report.pdf")

	record := s.waitToast(t)
	if record.title != "Conversion Complete" {
		t.Errorf("Expected toast %q, got %q", "Conversion Complete", record.title)
	}
	snap := s.snapshot()
	if len(snap.progresses) == 0 || snap.progresses[0] != "Converting PDF to Word..." {
		t.Errorf("Expected converter progress forwarded, got %v", snap.progresses)
	}
}

func TestConvertPDFFailureToasts(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	conv := &fakeConverter{err: errors.New("Python script failed: page 3 | boom")}
	a := New(Options{State: state, Surface: s, Converter: conv})

	a.ConvertPDF("/tmp/report.pdf")

	record := s.waitToast(t)
	if record.title != "Conversion Failed" {
		t.Errorf("Expected toast %q, got %q", "Conversion Failed", record.title)
	}
	snap := s.snapshot()
	if len(snap.progresses) == 0 || snap.progresses[len(snap.progresses)-1] != "Conversion failed" {
		t.Errorf("Expected a failure progress step, got %v", snap.progresses)
	}
}

func TestPetAndPaintModesAreExclusive(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	tr := &fakeTray{}
	a := New(Options{State: state, Surface: s, Tray: tr})

	a.SetPetMode(true)
	if !state.PetMode() {
		t.Error("Expected pet mode on")
	}

	a.SetPaintMode(true)
	if state.PetMode() {
		t.Error("Expected pet mode off once paint mode turned on")
	}
	if !state.PaintMode() {
		t.Error("Expected paint mode on")
	}

	a.SetPaintMode(false)
	if state.PaintMode() {
		t.Error("Expected paint mode off")
	}

	want := []string{"enter-click-through", "exit", "enter", "exit"}
	snap := s.snapshot()
	if len(snap.overlays) != len(want) {
		t.Fatalf("Expected overlay calls %v, got %v", want, snap.overlays)
	}
	for i := range want {
		if snap.overlays[i] != want[i] {
			t.Errorf("Overlay call %d: expected %q, got %q", i, want[i], snap.overlays[i])
		}
	}
}

func TestHandleFocusLostRespectsModes(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	a := New(Options{State: state, Surface: s})
	s.Show()

	a.SetDialogOpen(true)
	a.HandleFocusLost()
	if snap := s.snapshot(); snap.hides != 0 {
		t.Errorf("Expected no hide while a dialog is open, got %d", snap.hides)
	}

	a.SetDialogOpen(false)
	a.HandleFocusLost()
	if snap := s.snapshot(); snap.hides != 1 {
		t.Errorf("Expected 1 hide, got %d", snap.hides)
	}
}

func TestApplySettingsSavesAndSyncsAutostart(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	var saved []settings.Settings
	var synced []bool
	a := New(Options{
		State:   state,
		Surface: s,
		SaveSettings: func(st settings.Settings) error {
			saved = append(saved, st)
			return nil
		},
		SyncAutostart: func(on bool) error {
			synced = append(synced, on)
			return nil
		},
	})

	a.ApplySettings(settings.Settings{Autostart: true, ExtraKeepApps: []string{"Obsidian"}})

	if len(saved) != 1 || !saved[0].Autostart {
		t.Errorf("Expected one save with autostart on, got %+v", saved)
	}
	if len(synced) != 1 || !synced[0] {
		t.Errorf("Expected autostart synced [true], got %v", synced)
	}
	if record := s.waitToast(t); record.title != "Settings Saved" {
		t.Errorf("Expected toast %q, got %q", "Settings Saved", record.title)
	}
	if got := a.currentSettings().ExtraKeepApps; len(got) != 1 || got[0] != "Obsidian" {
		t.Errorf("Expected current settings updated, got %v", got)
	}
}

func TestApplySettingsSaveFailureSkipsSync(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	var synced []bool
	a := New(Options{
		State:   state,
		Surface: s,
		SaveSettings: func(settings.Settings) error {
			return errors.New("write settings file: disk full")
		},
		SyncAutostart: func(on bool) error {
			synced = append(synced, on)
			return nil
		},
	})

	a.ApplySettings(settings.Settings{Autostart: true})

	if record := s.waitToast(t); record.title != "Settings Error" {
		t.Errorf("Expected toast %q, got %q", "Settings Error", record.title)
	}
	if len(synced) != 0 {
		t.Errorf("Expected no autostart sync after a failed save, got %v", synced)
	}
}

func TestStartupAppliesStartMoving(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	nudger := &recordingNudger{}
	a := New(Options{
		State:         state,
		Surface:       s,
		Settings:      settings.Settings{StartMoving: true},
		Nudger:        nudger,
		Trusted:       func() bool { return true },
		SyncAutostart: func(bool) error { return nil },
	})

	a.Startup()

	if !state.MouseMoving() {
		t.Error("Expected mouse movement on after startup")
	}
	nudger.mu.Lock()
	moves := nudger.moves
	nudger.mu.Unlock()
	if moves != 1 {
		t.Errorf("Expected 1 permission nudge, got %d", moves)
	}
	snap := s.snapshot()
	if len(snap.access) != 1 || !snap.access[0] {
		t.Errorf("Expected accessibility reported [true], got %v", snap.access)
	}
}

func TestToggleWindowRefreshesAccessibility(t *testing.T) {
	state := appstate.New()
	s := newFakeSurface()
	a := New(Options{
		State:   state,
		Surface: s,
		Trusted: func() bool { return false },
	})

	a.ToggleWindow()

	snap := s.snapshot()
	if snap.toggles != 1 {
		t.Errorf("Expected 1 toggle, got %d", snap.toggles)
	}
	if len(snap.access) != 1 || snap.access[0] {
		t.Errorf("Expected accessibility reported [false], got %v", snap.access)
	}
}

func TestSurfaceNotifierRaisesHiddenWindow(t *testing.T) {
	s := newFakeSurface()
	n := surfaceNotifier{surface: s}

	n.Notify("Text Copied!", "Copied content")

	snap := s.snapshot()
	if snap.shows != 1 {
		t.Errorf("Expected the hidden window shown once, got %d", snap.shows)
	}
	if snap.focuses != 1 {
		t.Errorf("Expected 1 focus, got %d", snap.focuses)
	}
	if len(snap.toasts) != 1 || snap.toasts[0].title != "Text Copied!" {
		t.Errorf("Expected the toast recorded, got %v", snap.toasts)
	}

	n.Notify("Text Copied!", "Copied content")
	if snap := s.snapshot(); snap.shows != 1 {
		t.Errorf("Expected no second show for a visible window, got %d", snap.shows)
	}
}
