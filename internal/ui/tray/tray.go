package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodoro/internal/i18n"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleRun func()
	OnStop      func()
	OnShow      func()
	OnQuit      func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	stopItem    *fyne.MenuItem
	callbacks   Callbacks
	running     bool
	active      bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: i18n.T("Idle"),
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem(i18n.T("Start"), func() {
		if manager.callbacks.OnToggleRun != nil {
			manager.callbacks.OnToggleRun()
		}
	})

	manager.stopItem = fyne.NewMenuItem(i18n.T("Stop"), func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})
	manager.stopItem.Disabled = true

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunState updates the toggle label and whether Stop is offered.
func (manager *Manager) SetRunState(running, active bool) {
	if manager.running == running && manager.active == active {
		return
	}
	manager.running = running
	manager.active = active
	if running {
		manager.toggleItem.Label = i18n.T("Pause")
	} else {
		manager.toggleItem.Label = i18n.T("Start")
	}
	manager.stopItem.Disabled = !active
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.active && !manager.running {
		status = fmt.Sprintf("%s (%s)", status, i18n.T("PAUSED"))
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.stopItem,
		fyne.NewMenuItem(i18n.T("Show timer"), func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItem(i18n.T("Quit"), func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
