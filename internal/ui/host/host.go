// Package host owns the main window and mounts timer sessions into it.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coachtimer/internal/audio"
	"coachtimer/internal/core/clock"
	"coachtimer/internal/core/model"
	"coachtimer/internal/core/session"
	"coachtimer/internal/i18n"
	"coachtimer/internal/metrics"
	"coachtimer/internal/ui/timerview"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"
)

// ErrNoSession is returned when an action needs a mounted session.
var ErrNoSession = errors.New("no timer session")

// Config contains collaborators shared by every session.
type Config struct {
	Driver   *clock.Driver
	Metrics  *metrics.Manager
	Player   audio.Player
	Defaults model.TimerConfig

	// OnChange observes the mounted session; it runs on the UI goroutine.
	OnChange func(snapshot session.Snapshot, mounted bool)
}

// Host switches its window between the home screen and a timer view.
type Host struct {
	window fyne.Window
	config Config
	logger *log.Entry
	home   fyne.CanvasObject

	mu       sync.Mutex
	defaults model.TimerConfig
	view     *timerview.View
	current  *session.Controller
	cancel   context.CancelFunc
	audioEnd chan struct{}
}

// New builds the home screen inside window.
func New(window fyne.Window, config Config) *Host {
	if config.Player == nil {
		config.Player = audio.NopPlayer{}
	}
	if config.Defaults == (model.TimerConfig{}) {
		config.Defaults = model.DefaultTimerConfig()
	}

	host := &Host{
		window:   window,
		config:   config,
		defaults: config.Defaults,
		logger:   log.WithField("component", "host"),
	}

	openButton := widget.NewButton(i18n.T("Open timer"), func() {
		host.OpenTimer()
	})
	openButton.Importance = widget.HighImportance
	host.home = container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle(i18n.T("Interval timer"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		openButton,
	))

	window.Canvas().SetOnTypedKey(host.typedKey)
	window.SetContent(host.home)
	return host
}

// OpenTimer mounts a new session showing the configuration form. If a
// session is already mounted the window is just brought forward.
func (host *Host) OpenTimer() {
	host.mu.Lock()
	if host.view != nil {
		host.mu.Unlock()
		host.window.Show()
		host.window.RequestFocus()
		return
	}

	var controller *session.Controller
	controller = session.New(session.Config{
		Driver:  host.config.Driver,
		Metrics: host.config.Metrics,
	}, func() {
		host.sessionClosed(controller)
	})

	ctx, cancel := context.WithCancel(context.Background())
	audioEnd := make(chan struct{})
	cueEvents := controller.Subscribe(16)
	go func() {
		defer close(audioEnd)
		audio.Follow(ctx, cueEvents, host.config.Player)
	}()

	view := timerview.New(controller, host.defaults, func(snapshot session.Snapshot) {
		host.notify(snapshot, true)
	})
	host.view = view
	host.current = controller
	host.cancel = cancel
	host.audioEnd = audioEnd
	host.mu.Unlock()

	host.window.SetContent(view.Content())
	host.window.Show()
	host.window.RequestFocus()
	host.logger.Debug("timer view mounted")
}

// TogglePause forwards to the mounted session.
func (host *Host) TogglePause() error {
	view := host.mountedView()
	if view == nil {
		return ErrNoSession
	}
	view.TogglePause()
	return nil
}

// Stop stops the mounted session, which returns the window to the home
// screen.
func (host *Host) Stop() error {
	view := host.mountedView()
	if view == nil {
		return ErrNoSession
	}
	view.Stop()
	return nil
}

// ApplyTimerConfig applies new interval lengths. A running session is
// reconfigured in place; otherwise the values become the form defaults.
// Call on the UI goroutine.
func (host *Host) ApplyTimerConfig(config model.TimerConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("apply timer config: %w", err)
	}

	host.mu.Lock()
	host.defaults = config
	view := host.view
	controller := host.current
	host.mu.Unlock()

	if controller == nil {
		return nil
	}

	snapshot := controller.Snapshot()
	if snapshot.Configuring {
		view.SetDefaults(config)
		return nil
	}
	if !snapshot.Running {
		return nil
	}
	if err := controller.Reconfigure(config); err != nil && !errors.Is(err, session.ErrNotRunning) {
		return fmt.Errorf("apply timer config: %w", err)
	}
	view.Refresh()
	return nil
}

// Snapshot returns the mounted session state.
func (host *Host) Snapshot() (session.Snapshot, bool) {
	host.mu.Lock()
	controller := host.current
	host.mu.Unlock()
	if controller == nil {
		return session.Snapshot{}, false
	}
	return controller.Snapshot(), true
}

// Close unmounts the current session without the stop notification.
func (host *Host) Close() {
	host.mu.Lock()
	view, cancel, audioEnd := host.unmountLocked()
	host.mu.Unlock()
	if view == nil {
		return
	}

	view.Close()
	cancel()
	<-audioEnd
}

func (host *Host) sessionClosed(controller *session.Controller) {
	host.mu.Lock()
	if host.current != controller {
		host.mu.Unlock()
		return
	}
	view, cancel, audioEnd := host.unmountLocked()
	host.mu.Unlock()

	cancel()
	go func() {
		view.Close()
		<-audioEnd
	}()

	fyne.Do(func() {
		host.window.SetContent(host.home)
		host.notify(session.Snapshot{}, false)
	})
	host.logger.Debug("timer view unmounted")
}

func (host *Host) unmountLocked() (*timerview.View, context.CancelFunc, chan struct{}) {
	view, cancel, audioEnd := host.view, host.cancel, host.audioEnd
	host.view = nil
	host.current = nil
	host.cancel = nil
	host.audioEnd = nil
	return view, cancel, audioEnd
}

func (host *Host) mountedView() *timerview.View {
	host.mu.Lock()
	defer host.mu.Unlock()
	return host.view
}

func (host *Host) typedKey(event *fyne.KeyEvent) {
	if view := host.mountedView(); view != nil {
		view.TypedKey(event)
	}
}

func (host *Host) notify(snapshot session.Snapshot, mounted bool) {
	if host.config.OnChange != nil {
		host.config.OnChange(snapshot, mounted)
	}
}
