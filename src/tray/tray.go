// Package tray drives the system tray menu. The tray stays reachable in
// every mode, including click-through overlays, so mode exits live here as
// well as in the sidebar.
package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// MenuHost is the subset of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

var _ MenuHost = (desktop.App)(nil)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleWindow func()
	OnToggleMoving func()
	OnCaptureText  func()
	OnPetMode      func(on bool)
	OnPaintMode    func(on bool)
	OnQuit         func()
}

// Manager owns the tray menu state.
type Manager struct {
	app       MenuHost
	moveItem  *fyne.MenuItem
	petItem   *fyne.MenuItem
	paintItem *fyne.MenuItem
	callbacks Callbacks
	pet       bool
	paint     bool
}

// New installs the tray icon and menu with the provided callbacks.
func New(app MenuHost, callbacks Callbacks) *Manager {
	m := &Manager{app: app, callbacks: callbacks}
	if m.app != nil {
		m.app.SetSystemTrayIcon(Resource())
	}

	m.moveItem = fyne.NewMenuItem("Start Moving Mouse", func() {
		if m.callbacks.OnToggleMoving != nil {
			m.callbacks.OnToggleMoving()
		}
	})
	m.petItem = fyne.NewMenuItem("Pet Mode", func() {
		if m.callbacks.OnPetMode != nil {
			m.callbacks.OnPetMode(!m.pet)
		}
	})
	m.paintItem = fyne.NewMenuItem("Paint Mode", func() {
		if m.callbacks.OnPaintMode != nil {
			m.callbacks.OnPaintMode(!m.paint)
		}
	})

	m.refreshMenu()
	return m
}

// SetMoving relabels the jiggler toggle.
func (m *Manager) SetMoving(moving bool) {
	if moving {
		m.moveItem.Label = "Stop Moving Mouse"
	} else {
		m.moveItem.Label = "Start Moving Mouse"
	}
	m.refreshMenu()
}

// SetPetActive relabels the pet mode entry.
func (m *Manager) SetPetActive(on bool) {
	m.pet = on
	if on {
		m.petItem.Label = "Exit Pet Mode"
	} else {
		m.petItem.Label = "Pet Mode"
	}
	m.refreshMenu()
}

// SetPaintActive relabels the paint mode entry.
func (m *Manager) SetPaintActive(on bool) {
	m.paint = on
	if on {
		m.paintItem.Label = "Exit Paint Mode"
	} else {
		m.paintItem.Label = "Paint Mode"
	}
	m.refreshMenu()
}

func (m *Manager) refreshMenu() {
	if m.app == nil {
		return
	}
	m.app.SetSystemTrayMenu(fyne.NewMenu("TaskGoblin",
		fyne.NewMenuItem("Show TaskGoblin", func() {
			if m.callbacks.OnToggleWindow != nil {
				m.callbacks.OnToggleWindow()
			}
		}),
		fyne.NewMenuItemSeparator(),
		m.moveItem,
		fyne.NewMenuItem("Capture Text", func() {
			if m.callbacks.OnCaptureText != nil {
				m.callbacks.OnCaptureText()
			}
		}),
		fyne.NewMenuItemSeparator(),
		m.petItem,
		m.paintItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if m.callbacks.OnQuit != nil {
				m.callbacks.OnQuit()
			}
		}),
	))
}
