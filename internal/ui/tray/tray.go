package tray

import (
	"fmt"

	"coachtimer/internal/core/session"
	"coachtimer/internal/i18n"

	"fyne.io/fyne/v2"
)

const menuTitle = "CoachTimer"

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnTogglePause func()
	OnStop        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         MenuHost
	statusItem  *fyne.MenuItem
	openItem    *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	stopItem    *fyne.MenuItem
	preferences *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
	menu        *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.openItem = fyne.NewMenuItem(i18n.T("Open timer"), func() {
		if manager.callbacks.OnOpen != nil {
			manager.callbacks.OnOpen()
		}
	})
	manager.pauseItem = fyne.NewMenuItem(i18n.T("Pause"), func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.stopItem = fyne.NewMenuItem(i18n.T("Stop"), func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})
	manager.preferences = fyne.NewMenuItem(i18n.T("Preferences"), func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})
	manager.quitItem = fyne.NewMenuItem(i18n.T("Quit"), func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	manager.quitItem.IsQuit = true

	manager.SetSession(session.Snapshot{}, false)
	return manager
}

// SetSession updates status and enabled items for the mounted session.
func (manager *Manager) SetSession(snapshot session.Snapshot, mounted bool) {
	manager.statusItem.Label = StatusText(snapshot, mounted)

	active := mounted && !snapshot.Configuring && snapshot.Status != session.StatusStopped
	manager.pauseItem.Disabled = !active
	manager.stopItem.Disabled = !active
	if active && !snapshot.Running {
		manager.pauseItem.Label = i18n.T("Resume")
	} else {
		manager.pauseItem.Label = i18n.T("Pause")
	}
	manager.refreshMenu()
}

// Menu returns the menu last handed to the system tray.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// StatusText summarizes a session for the disabled status item.
func StatusText(snapshot session.Snapshot, mounted bool) string {
	switch {
	case !mounted || snapshot.Status == session.StatusStopped:
		return menuTitle
	case snapshot.Configuring:
		return i18n.T("Interval timer")
	}

	status := fmt.Sprintf("%s %d · %s", i18n.T("Round"), snapshot.Round, snapshot.View().Text)
	if !snapshot.Running {
		status = fmt.Sprintf("%s (%s)", status, i18n.T("paused"))
	}
	return status
}

func (manager *Manager) refreshMenu() {
	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.openItem,
		manager.pauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		manager.preferences,
		manager.quitItem,
	)
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}
