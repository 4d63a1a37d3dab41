package surface

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"task-goblin/src/contacts"
	"task-goblin/src/settings"
)

const (
	SidebarWidth  = float32(440)
	SidebarHeight = float32(820)

	toastDuration = 3 * time.Second
)

// Actions are the callbacks the sidebar controls fire. Nil entries are
// skipped.
type Actions struct {
	OnToggleMoving      func()
	OnCaptureText       func()
	OnScheduleShutdown  func(delay time.Duration)
	OnCancelShutdown    func()
	OnCloseAll          func()
	OnCloseLeisure      func()
	OnCloseHeavy        func()
	OnSendWhatsApp      func(phone, message string, delay time.Duration)
	OnLoadContacts      func() ([]contacts.Contact, error)
	OnConvertPDF        func(path string)
	OnPetMode           func(on bool)
	OnPaintMode         func(on bool)
	OnSettingsChanged   func(s settings.Settings)
	OnOpenAccessibility func()
	OnOpenContactsPane  func()
	OnOpenFocus         func()
	OnDialogOpen        func(open bool)
}

var _ Surface = (*Window)(nil)

// Window is the fyne sidebar implementation of Surface.
type Window struct {
	app     fyne.App
	win     fyne.Window
	actions Actions

	mu      sync.Mutex
	visible bool
	overlay bool

	toastMu sync.Mutex
	toast   *widget.PopUp

	// Widgets touched after construction; mutate on the UI thread only.
	moveButton     *widget.Button
	shutdownLabel  *widget.Label
	accessLabel    *widget.Label
	progressLabel  *widget.Label
	progressBar    *widget.ProgressBar
	contactSelect  *widget.Select
	phoneEntry     *widget.Entry
	petCheck       *widget.Check
	paintCheck     *widget.Check
	contactByLabel map[string]contacts.Contact
	syncingModes   bool
}

// New builds the sidebar window. It starts hidden; Show or the tray brings
// it up.
func New(app fyne.App, initial settings.Settings, actions Actions) *Window {
	w := &Window{
		app:            app,
		win:            app.NewWindow("TaskGoblin"),
		actions:        actions,
		contactByLabel: map[string]contacts.Contact{},
	}

	w.win.SetContent(container.NewVScroll(container.NewVBox(
		w.buildMouseSection(),
		w.buildShutdownSection(),
		w.buildAppsSection(),
		w.buildWhatsAppSection(),
		w.buildPDFSection(),
		w.buildModeSection(),
		w.buildSettingsSection(initial),
	)))
	w.win.Resize(fyne.NewSize(SidebarWidth, SidebarHeight))
	w.win.SetFixedSize(true)

	// Closing the sidebar hides it; the process lives in the tray.
	w.win.SetCloseIntercept(func() {
		w.Hide()
	})

	return w
}

// FyneWindow exposes the underlying window for tray wiring.
func (w *Window) FyneWindow() fyne.Window { return w.win }

func sectionTitle(text string) fyne.CanvasObject {
	return widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
}

func (w *Window) buildMouseSection() fyne.CanvasObject {
	w.moveButton = widget.NewButton("Start Moving Mouse", func() {
		if w.actions.OnToggleMoving != nil {
			w.actions.OnToggleMoving()
		}
	})
	capture := widget.NewButton("Capture Text (triple Control)", func() {
		if w.actions.OnCaptureText != nil {
			w.actions.OnCaptureText()
		}
	})
	return container.NewVBox(sectionTitle("Mouse & Capture"), w.moveButton, capture)
}

func (w *Window) buildShutdownSection() fyne.CanvasObject {
	delayEntry := widget.NewEntry()
	delayEntry.SetPlaceHolder("minutes")

	w.shutdownLabel = widget.NewLabel("")

	schedule := widget.NewButton("Schedule Shutdown", func() {
		minutes, ok := parsePositiveInt(delayEntry.Text)
		if !ok {
			w.Toast("Invalid Delay", "Enter a whole number of minutes")
			return
		}
		if w.actions.OnScheduleShutdown != nil {
			w.actions.OnScheduleShutdown(time.Duration(minutes) * time.Minute)
		}
	})
	cancel := widget.NewButton("Cancel Shutdown", func() {
		if w.actions.OnCancelShutdown != nil {
			w.actions.OnCancelShutdown()
		}
	})

	return container.NewVBox(
		sectionTitle("Shutdown"),
		container.NewGridWithColumns(2, delayEntry, schedule),
		cancel,
		w.shutdownLabel,
	)
}

func (w *Window) buildAppsSection() fyne.CanvasObject {
	closeAll := widget.NewButton("Close All Apps", func() {
		if w.actions.OnCloseAll != nil {
			w.actions.OnCloseAll()
		}
	})
	closeLeisure := widget.NewButton("Close Leisure Apps", func() {
		if w.actions.OnCloseLeisure != nil {
			w.actions.OnCloseLeisure()
		}
	})
	closeHeavy := widget.NewButton("Close Heavy Apps", func() {
		if w.actions.OnCloseHeavy != nil {
			w.actions.OnCloseHeavy()
		}
	})
	focusSettings := widget.NewButton("Open Focus Settings", func() {
		if w.actions.OnOpenFocus != nil {
			w.actions.OnOpenFocus()
		}
	})
	return container.NewVBox(sectionTitle("Focus"), closeAll, closeLeisure, closeHeavy, focusSettings)
}

func (w *Window) buildWhatsAppSection() fyne.CanvasObject {
	w.phoneEntry = widget.NewEntry()
	w.phoneEntry.SetPlaceHolder("+34 600 00 00 00")

	message := widget.NewMultiLineEntry()
	message.SetPlaceHolder("Message")
	message.SetMinRowsVisible(3)

	delayEntry := widget.NewEntry()
	delayEntry.SetPlaceHolder("minutes")

	w.contactSelect = widget.NewSelect(nil, func(label string) {
		if contact, ok := w.contactByLabel[label]; ok {
			w.phoneEntry.SetText(contact.Phone)
		}
	})
	w.contactSelect.PlaceHolder = "Contacts"

	reload := widget.NewButton("Reload", func() {
		if w.actions.OnLoadContacts == nil {
			return
		}
		go func() {
			list, err := w.actions.OnLoadContacts()
			if err != nil {
				w.Toast("Contacts Failed", err.Error())
				return
			}
			w.SetContacts(list)
		}()
	})

	contactsAccess := widget.NewButton("Contacts Access...", func() {
		if w.actions.OnOpenContactsPane != nil {
			w.actions.OnOpenContactsPane()
		}
	})

	send := widget.NewButton("Schedule Message", func() {
		minutes, ok := parsePositiveInt(delayEntry.Text)
		if !ok {
			w.Toast("Invalid Delay", "Enter a whole number of minutes")
			return
		}
		if strings.TrimSpace(message.Text) == "" {
			w.Toast("Empty Message", "Write the message first")
			return
		}
		if w.actions.OnSendWhatsApp != nil {
			w.actions.OnSendWhatsApp(w.phoneEntry.Text, message.Text, time.Duration(minutes)*time.Minute)
		}
	})

	return container.NewVBox(
		sectionTitle("WhatsApp"),
		container.NewGridWithColumns(2, w.contactSelect, reload),
		w.phoneEntry,
		message,
		container.NewGridWithColumns(2, delayEntry, send),
		contactsAccess,
	)
}

func (w *Window) buildPDFSection() fyne.CanvasObject {
	w.progressLabel = widget.NewLabel("")
	w.progressLabel.Hide()
	w.progressBar = widget.NewProgressBar()
	w.progressBar.Hide()

	pick := widget.NewButton("Convert PDF to Word...", func() {
		if w.actions.OnDialogOpen != nil {
			w.actions.OnDialogOpen(true)
		}
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if w.actions.OnDialogOpen != nil {
				w.actions.OnDialogOpen(false)
			}
			if err != nil || reader == nil {
				return
			}
			path := reader.URI().Path()
			_ = reader.Close()
			if w.actions.OnConvertPDF != nil {
				w.actions.OnConvertPDF(path)
			}
		}, w.win)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
		fd.Show()
	})

	return container.NewVBox(sectionTitle("PDF to Word"), pick, w.progressLabel, w.progressBar)
}

func (w *Window) buildModeSection() fyne.CanvasObject {
	w.petCheck = widget.NewCheck("Pet mode (click-through overlay)", func(on bool) {
		if w.syncingModes {
			return
		}
		if w.actions.OnPetMode != nil {
			w.actions.OnPetMode(on)
		}
	})
	w.paintCheck = widget.NewCheck("Paint mode (screen overlay)", func(on bool) {
		if w.syncingModes {
			return
		}
		if w.actions.OnPaintMode != nil {
			w.actions.OnPaintMode(on)
		}
	})
	return container.NewVBox(sectionTitle("Overlay Modes"), w.petCheck, w.paintCheck)
}

func (w *Window) buildSettingsSection(initial settings.Settings) fyne.CanvasObject {
	startMoving := widget.NewCheck("Start moving mouse on launch", nil)
	startMoving.SetChecked(initial.StartMoving)

	autostart := widget.NewCheck("Launch at login", nil)
	autostart.SetChecked(initial.Autostart)

	keepApps := widget.NewMultiLineEntry()
	keepApps.SetPlaceHolder("Apps to keep open, one per line")
	keepApps.SetMinRowsVisible(3)
	keepApps.SetText(strings.Join(initial.ExtraKeepApps, "\n"))

	save := widget.NewButton("Save Settings", func() {
		if w.actions.OnSettingsChanged == nil {
			return
		}
		var extra []string
		for _, line := range strings.Split(keepApps.Text, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				extra = append(extra, trimmed)
			}
		}
		w.actions.OnSettingsChanged(settings.Settings{
			StartMoving:   startMoving.Checked,
			Autostart:     autostart.Checked,
			ExtraKeepApps: extra,
		})
	})

	w.accessLabel = widget.NewLabel("Accessibility: unknown")
	openAccess := widget.NewButton("Open Accessibility Settings", func() {
		if w.actions.OnOpenAccessibility != nil {
			w.actions.OnOpenAccessibility()
		}
	})

	return container.NewVBox(
		sectionTitle("Settings"),
		startMoving,
		autostart,
		keepApps,
		save,
		w.accessLabel,
		openAccess,
	)
}

func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) Show() {
	w.mu.Lock()
	w.visible = true
	w.mu.Unlock()
	fyne.Do(func() {
		w.win.Show()
	})
}

func (w *Window) Hide() {
	w.mu.Lock()
	w.visible = false
	w.mu.Unlock()
	fyne.Do(func() {
		w.win.Hide()
	})
}

func (w *Window) Focus() {
	fyne.Do(func() {
		w.win.RequestFocus()
	})
}

func (w *Window) Toggle() {
	if w.IsVisible() {
		w.Hide()
		return
	}
	w.Show()
	w.Focus()
}

func (w *Window) EnterOverlay(clickThrough bool) {
	w.mu.Lock()
	w.overlay = true
	w.visible = true
	w.mu.Unlock()
	fyne.Do(func() {
		w.win.SetFixedSize(false)
		w.win.Show()
		w.win.SetFullScreen(true)
	})
	w.applyFloating(true)
	w.applyClickThrough(clickThrough)
}

func (w *Window) ExitOverlay() {
	w.mu.Lock()
	w.overlay = false
	w.mu.Unlock()
	w.applyClickThrough(false)
	w.applyFloating(false)
	fyne.Do(func() {
		w.win.SetFullScreen(false)
		w.win.Resize(fyne.NewSize(SidebarWidth, SidebarHeight))
		w.win.SetFixedSize(true)
	})
}

func (w *Window) Toast(title, message string) {
	fyne.Do(func() {
		content := container.NewVBox(
			widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			widget.NewLabel(message),
		)
		popup := widget.NewPopUp(content, w.win.Canvas())

		w.toastMu.Lock()
		if w.toast != nil {
			w.toast.Hide()
		}
		w.toast = popup
		w.toastMu.Unlock()

		canvasSize := w.win.Canvas().Size()
		popupSize := popup.MinSize()
		popup.ShowAtPosition(fyne.NewPos(
			(canvasSize.Width-popupSize.Width)/2,
			canvasSize.Height-popupSize.Height-24,
		))

		time.AfterFunc(toastDuration, func() {
			fyne.Do(func() {
				w.toastMu.Lock()
				current := w.toast == popup
				if current {
					w.toast = nil
				}
				w.toastMu.Unlock()
				popup.Hide()
			})
		})
	})
}

func (w *Window) Progress(step string, fraction float64) {
	fyne.Do(func() {
		w.progressLabel.SetText(step)
		w.progressLabel.Show()
		w.progressBar.SetValue(fraction)
		w.progressBar.Show()
		if fraction >= 1 {
			time.AfterFunc(2*time.Second, func() {
				fyne.Do(func() {
					w.progressLabel.Hide()
					w.progressBar.Hide()
				})
			})
		}
	})
}

// SetMoving relabels the toggle button to match the jiggler state.
func (w *Window) SetMoving(moving bool) {
	fyne.Do(func() {
		if moving {
			w.moveButton.SetText("Stop Moving Mouse")
		} else {
			w.moveButton.SetText("Start Moving Mouse")
		}
	})
}

// SetShutdownPending reflects the scheduler state in the sidebar.
func (w *Window) SetShutdownPending(pending bool, target time.Time) {
	fyne.Do(func() {
		if pending {
			w.shutdownLabel.SetText(fmt.Sprintf("Shutdown at %s", target.Format("15:04:05")))
		} else {
			w.shutdownLabel.SetText("")
		}
	})
}

// SetAccessibility reflects the Accessibility permission state.
func (w *Window) SetAccessibility(trusted bool) {
	fyne.Do(func() {
		if trusted {
			w.accessLabel.SetText("Accessibility: granted")
		} else {
			w.accessLabel.SetText("Accessibility: not granted")
		}
	})
}

// SetContacts fills the contact picker.
func (w *Window) SetContacts(list []contacts.Contact) {
	fyne.Do(func() {
		labels := make([]string, 0, len(list))
		byLabel := make(map[string]contacts.Contact, len(list))
		for _, contact := range list {
			label := fmt.Sprintf("%s (%s)", contact.Name, contact.Phone)
			labels = append(labels, label)
			byLabel[label] = contact
		}
		w.contactByLabel = byLabel
		w.contactSelect.Options = labels
		w.contactSelect.Refresh()
	})
}

// SetPetChecked syncs the pet checkbox without firing its callback.
func (w *Window) SetPetChecked(on bool) {
	fyne.Do(func() {
		w.syncingModes = true
		w.petCheck.SetChecked(on)
		w.syncingModes = false
	})
}

// SetPaintChecked syncs the paint checkbox without firing its callback.
func (w *Window) SetPaintChecked(on bool) {
	fyne.Do(func() {
		w.syncingModes = true
		w.paintCheck.SetChecked(on)
		w.syncingModes = false
	})
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
