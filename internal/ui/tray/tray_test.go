package tray

import (
	"testing"

	"coachtimer/internal/core/phase"
	"coachtimer/internal/core/session"
	"coachtimer/internal/i18n"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	menus []*fyne.Menu
}

func (host *fakeHost) SetSystemTrayMenu(menu *fyne.Menu) {
	host.menus = append(host.menus, menu)
}

func running(remaining, round int) session.Snapshot {
	return session.Snapshot{
		Status:    session.StatusRunning,
		Phase:     phase.Work,
		Remaining: remaining,
		Round:     round,
		Running:   true,
	}
}

func TestStatusText(t *testing.T) {
	i18n.SetLang("en")

	paused := running(25, 2)
	paused.Running = false
	paused.Status = session.StatusPaused

	rest := running(15, 1)
	rest.Phase = phase.Rest
	rest.Config.RestSeconds = 15

	assert.Equal(t, "CoachTimer", StatusText(session.Snapshot{}, false))
	assert.Equal(t, "Interval timer", StatusText(session.Snapshot{Configuring: true, Status: session.StatusConfiguring}, true))
	assert.Equal(t, "Round 3 · 1:30", StatusText(running(90, 3), true))
	assert.Equal(t, "Round 2 · 0:25 (paused)", StatusText(paused, true))
	assert.Equal(t, "Round 1 · BREAK!", StatusText(rest, true))
	assert.Equal(t, "CoachTimer", StatusText(session.Snapshot{Status: session.StatusStopped}, true))
}

func TestManager_SetSession(t *testing.T) {
	i18n.SetLang("en")
	host := &fakeHost{}
	calls := map[string]int{}
	manager := New(host, Callbacks{
		OnOpen:        func() { calls["open"]++ },
		OnTogglePause: func() { calls["pause"]++ },
		OnStop:        func() { calls["stop"]++ },
		OnPreferences: func() { calls["prefs"]++ },
		OnQuit:        func() { calls["quit"]++ },
	})
	require.Len(t, host.menus, 1)
	assert.True(t, manager.pauseItem.Disabled)
	assert.True(t, manager.stopItem.Disabled)

	manager.SetSession(running(30, 1), true)
	assert.False(t, manager.pauseItem.Disabled)
	assert.Equal(t, "Pause", manager.pauseItem.Label)
	assert.Same(t, manager.Menu(), host.menus[len(host.menus)-1])

	paused := running(30, 1)
	paused.Running = false
	paused.Status = session.StatusPaused
	manager.SetSession(paused, true)
	assert.Equal(t, "Resume", manager.pauseItem.Label)

	for _, item := range []*fyne.MenuItem{manager.openItem, manager.pauseItem, manager.stopItem, manager.preferences, manager.quitItem} {
		item.Action()
	}
	assert.Equal(t, map[string]int{"open": 1, "pause": 1, "stop": 1, "prefs": 1, "quit": 1}, calls)

	manager.SetSession(session.Snapshot{}, false)
	assert.True(t, manager.stopItem.Disabled)
	assert.Equal(t, "Pause", manager.pauseItem.Label)
}
