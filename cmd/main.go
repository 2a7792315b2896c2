package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"coachtimer/internal/audio"
	"coachtimer/internal/core/clock"
	"coachtimer/internal/core/session"
	"coachtimer/internal/i18n"
	"coachtimer/internal/logging"
	"coachtimer/internal/metrics"
	"coachtimer/internal/platform"
	"coachtimer/internal/storage"
	"coachtimer/internal/ui/host"
	"coachtimer/internal/ui/preferences"
	"coachtimer/internal/ui/tray"
	"coachtimer/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const appName = "CoachTimer"

func main() {
	logLevel := flag.String("log-level", "", "log level [trace | debug | info | warn | error], overrides settings")
	logFile := flag.String("log-file", "", "log file path (empty for stdout)")
	logJSON := flag.Bool("log-json", false, "log in JSON format")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address, overrides settings")
	flag.Parse()

	settings := preferences.DefaultSettings()
	store, storeErr := storage.DefaultStore(appName)
	if storeErr == nil {
		settings, storeErr = store.Load()
	}

	level := settings.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logCloser := logging.Setup(logging.SetupParams{
		LogFileName:   *logFile,
		LogToStdout:   *logFile != "",
		LogLevel:      level,
		LogFormatJSON: *logJSON,
	})
	if storeErr != nil {
		log.WithError(storeErr).Warn("settings unavailable, using defaults")
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if notifyErr := platform.NotifyRunning(appName); notifyErr != nil {
			log.WithError(notifyErr).Error("single instance")
		} else {
			log.Info("already running, activated existing window")
		}
		closeLogs(logCloser)
		return
	}

	i18n.Setup(settings.Language)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metricsManager := metrics.NewManager(registry)

	var metricsServer *metrics.Server
	addr := settings.MetricsAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if addr != "" {
		metricsServer, err = metrics.Listen(addr, registry)
		if err != nil {
			log.WithError(err).Warn("metrics disabled")
		} else {
			log.Infof("metrics available on http://%s/metrics", metricsServer.Addr())
		}
	}

	var player audio.Player = audio.NopPlayer{}
	speakerPlayer, err := audio.NewSpeakerPlayer(settings.SoundEnabled)
	if err != nil {
		log.WithError(err).Warn("audio disabled")
	} else {
		player = speakerPlayer
	}

	fyneApp := app.NewWithID("com.coachtimer.app")
	fyneApp.SetIcon(resources.MustLogo(resources.AppIconFile))

	mainWindow := fyneApp.NewWindow(appName)
	mainWindow.Resize(fyne.NewSize(520, 420))

	var trayManager *tray.Manager
	timerHost := host.New(mainWindow, host.Config{
		Driver:   clock.NewDriver(nil, clock.DefaultInterval),
		Metrics:  metricsManager,
		Player:   player,
		Defaults: settings.TimerConfig(),
		OnChange: func(snapshot session.Snapshot, mounted bool) {
			if trayManager != nil {
				trayManager.SetSession(snapshot, mounted)
			}
		},
	})

	applySettings := func(updated preferences.Settings) {
		if updated == settings {
			return
		}
		settings = updated
		if speakerPlayer != nil {
			speakerPlayer.SetEnabled(updated.SoundEnabled)
		}
		if *logLevel == "" {
			log.SetLevel(logging.GetLevel(updated.LogLevel))
		}
		if err := timerHost.ApplyTimerConfig(updated.TimerConfig()); err != nil {
			log.WithError(err).Warn("apply settings")
		}
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		if store != nil {
			if err := store.Save(updated); err != nil {
				log.WithError(err).Error("save settings")
			}
		}
		applySettings(updated)
	})

	var watcher *storage.Watcher
	if store != nil {
		watcher, err = store.Watch(0, func(updated preferences.Settings) {
			fyne.Do(func() {
				prefsWindow.UpdateSettings(updated)
				applySettings(updated)
			})
		})
		if err != nil {
			log.WithError(err).Debug("settings hot reload disabled")
		}
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnOpen: timerHost.OpenTimer,
			OnTogglePause: func() {
				if err := timerHost.TogglePause(); err != nil && !errors.Is(err, host.ErrNoSession) {
					log.WithError(err).Warn("toggle pause")
				}
			},
			OnStop: func() {
				if err := timerHost.Stop(); err != nil && !errors.Is(err, host.ErrNoSession) {
					log.WithError(err).Warn("stop")
				}
			},
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustLogo(resources.TrayIconFile))
		mainWindow.SetCloseIntercept(mainWindow.Hide)
	} else {
		log.Debug("system tray unsupported on this platform")
	}

	activationCtx, stopActivations := context.WithCancel(context.Background())
	go func() {
		for {
			select {
			case <-activationCtx.Done():
				return
			case <-guard.Activations():
				fyne.Do(func() {
					mainWindow.Show()
					mainWindow.RequestFocus()
				})
			}
		}
	}()

	mainWindow.Show()
	fyneApp.Run()

	stopActivations()
	timerHost.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var shutdownErr error
	if watcher != nil {
		shutdownErr = multierr.Append(shutdownErr, watcher.Close())
	}
	if metricsServer != nil {
		shutdownErr = multierr.Append(shutdownErr, metricsServer.Shutdown(shutdownCtx))
	}
	if speakerPlayer != nil {
		shutdownErr = multierr.Append(shutdownErr, speakerPlayer.Close())
	}
	shutdownErr = multierr.Append(shutdownErr, guard.Release())
	if shutdownErr != nil {
		for _, err := range multierr.Errors(shutdownErr) {
			log.WithError(err).Warn("shutdown")
		}
	}
	log.Info("bye")
	closeLogs(logCloser)
}

func closeLogs(closer interface{ Close() error }) {
	if closer == nil {
		return
	}
	_ = closer.Close()
}
