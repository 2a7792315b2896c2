// Package timerview renders one interval timer session: the configuration
// form and the running display.
package timerview

import (
	"fmt"
	"image/color"
	"strconv"

	"coachtimer/internal/core/display"
	"coachtimer/internal/core/model"
	"coachtimer/internal/core/session"
	"coachtimer/internal/i18n"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"
)

var backgroundColors = map[display.Background]color.Color{
	display.BackgroundWork:      color.NRGBA{R: 30, G: 132, B: 73, A: 255},
	display.BackgroundRest:      color.NRGBA{R: 36, G: 113, B: 163, A: 255},
	display.BackgroundCountdown: color.NRGBA{R: 230, G: 126, B: 34, A: 255},
}

var textSizes = map[display.TextSize]float32{
	display.TextSizeDefault:   96,
	display.TextSizeBreak:     120,
	display.TextSizeCountdown: 160,
}

// View shows a session. It owns the session's UI subscription; the
// controller is owned by the caller.
type View struct {
	controller *session.Controller
	onChange   func(session.Snapshot)

	workEntry   *widget.Entry
	restEntry   *widget.Entry
	startButton *widget.Button
	configForm  fyne.CanvasObject

	background  *canvas.Rectangle
	timeText    *canvas.Text
	roundLabel  *widget.Label
	pauseButton *widget.Button
	stopButton  *widget.Button
	running     fyne.CanvasObject

	root *fyne.Container

	events <-chan session.Event
	done   chan struct{}
}

// New builds the view for controller. Entries are prefilled with defaults;
// clearing an entry falls back to the built-in default on Start.
// onChange, if set, runs on the UI goroutine after every applied update.
func New(controller *session.Controller, defaults model.TimerConfig, onChange func(session.Snapshot)) *View {
	view := &View{
		controller: controller,
		onChange:   onChange,
		done:       make(chan struct{}),
	}

	view.workEntry = widget.NewEntry()
	view.workEntry.SetPlaceHolder(strconv.Itoa(model.DefaultWorkSeconds))
	view.restEntry = widget.NewEntry()
	view.restEntry.SetPlaceHolder(strconv.Itoa(model.DefaultRestSeconds))
	view.SetDefaults(defaults)

	view.startButton = widget.NewButton(i18n.T("Start"), view.Start)
	view.startButton.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem(i18n.T("Work (seconds)"), view.workEntry),
		widget.NewFormItem(i18n.T("Rest (seconds)"), view.restEntry),
	)
	view.configForm = container.NewVBox(
		widget.NewLabelWithStyle(i18n.T("Interval timer"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		form,
		view.startButton,
	)

	view.background = canvas.NewRectangle(backgroundColors[display.BackgroundWork])
	view.timeText = canvas.NewText("0:00", color.White)
	view.timeText.Alignment = fyne.TextAlignCenter
	view.timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.timeText.TextSize = textSizes[display.TextSizeDefault]

	view.roundLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	view.pauseButton = widget.NewButton(i18n.T("Pause"), view.TogglePause)
	view.stopButton = widget.NewButton(i18n.T("Stop"), view.Stop)
	view.stopButton.Importance = widget.DangerImportance

	buttons := container.NewHBox(layout.NewSpacer(), view.pauseButton, view.stopButton, layout.NewSpacer())
	view.running = container.NewStack(
		view.background,
		container.NewBorder(view.roundLabel, buttons, nil, nil, container.NewCenter(view.timeText)),
	)

	view.root = container.NewStack(container.NewCenter(view.configForm), view.running)
	view.events = controller.Subscribe(16)
	go view.eventLoop()

	view.apply(controller.Snapshot())
	return view
}

// Content returns the root canvas object.
func (view *View) Content() fyne.CanvasObject {
	return view.root
}

// SetDefaults replaces the entry values while the form is shown.
func (view *View) SetDefaults(defaults model.TimerConfig) {
	if !view.controller.Snapshot().Configuring {
		return
	}
	view.workEntry.SetText(strconv.Itoa(defaults.WorkSeconds))
	view.restEntry.SetText(strconv.Itoa(defaults.RestSeconds))
}

// Start submits the form.
func (view *View) Start() {
	view.controller.Configure(view.workEntry.Text, view.restEntry.Text)
	if err := view.controller.Start(); err != nil {
		log.WithError(err).Debug("start ignored")
	}
	view.Refresh()
}

// TogglePause pauses or resumes the session.
func (view *View) TogglePause() {
	view.controller.TogglePause()
	view.Refresh()
}

// Stop ends the session. The controller notifies the host.
func (view *View) Stop() {
	view.controller.Stop()
}

// TypedKey handles the running display shortcuts: space toggles pause and
// Escape stops. It reports whether the key was consumed.
func (view *View) TypedKey(event *fyne.KeyEvent) bool {
	snapshot := view.controller.Snapshot()
	if snapshot.Configuring {
		if event.Name == fyne.KeyReturn || event.Name == fyne.KeyEnter {
			view.Start()
			return true
		}
		return false
	}
	if snapshot.Status == session.StatusStopped {
		return false
	}
	switch event.Name {
	case fyne.KeySpace:
		view.TogglePause()
		return true
	case fyne.KeyEscape:
		view.Stop()
		return true
	}
	return false
}

// Refresh redraws from the current snapshot. Call on the UI goroutine.
func (view *View) Refresh() {
	view.apply(view.controller.Snapshot())
}

// Close discards the session and waits for the update loop to finish.
func (view *View) Close() {
	view.controller.Close()
	<-view.done
}

func (view *View) eventLoop() {
	defer close(view.done)
	for event := range view.events {
		snapshot := event.Snapshot
		fyne.Do(func() {
			view.apply(snapshot)
		})
	}
}

func (view *View) apply(snapshot session.Snapshot) {
	if snapshot.Status == session.StatusStopped {
		return
	}

	if snapshot.Configuring {
		view.configForm.Show()
		view.running.Hide()
		view.notify(snapshot)
		return
	}
	view.configForm.Hide()
	view.running.Show()

	rendered := snapshot.View()
	view.background.FillColor = backgroundColors[rendered.Background]
	view.background.Refresh()
	view.timeText.Text = rendered.Text
	view.timeText.TextSize = textSizes[rendered.TextSize]
	view.timeText.Refresh()
	view.roundLabel.SetText(fmt.Sprintf("%s %d", i18n.T("Round"), snapshot.Round))

	if snapshot.Running {
		view.pauseButton.SetText(i18n.T("Pause"))
	} else {
		view.pauseButton.SetText(i18n.T("Resume"))
	}
	view.notify(snapshot)
}

func (view *View) notify(snapshot session.Snapshot) {
	if view.onChange != nil {
		view.onChange(snapshot)
	}
}
