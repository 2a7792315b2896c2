package preferences

import (
	"strconv"
	"strings"

	"coachtimer/internal/core/model"
	"coachtimer/internal/i18n"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// Window handles the preferences UI.
type Window struct {
	window      fyne.Window
	settings    Settings
	onSave      func(Settings)
	workEntry   *widget.Entry
	restEntry   *widget.Entry
	sound       *widget.Check
	language    *widget.Select
	logLevel    *widget.Select
	metricsAddr *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("CoachTimer " + i18n.T("Preferences"))

	workEntry := widget.NewEntry()
	restEntry := widget.NewEntry()
	sound := widget.NewCheck(i18n.T("Sound cues"), nil)

	languageOptions := append([]string{i18n.T("System")}, i18n.Supported()...)
	language := widget.NewSelect(languageOptions, nil)
	logLevel := widget.NewSelect(logLevels, nil)
	metricsAddr := widget.NewEntry()
	metricsAddr.SetPlaceHolder("127.0.0.1:9464")

	form := container.NewVBox(
		widget.NewLabelWithStyle(i18n.T("Interval timer"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem(i18n.T("Work (seconds)"), workEntry),
			widget.NewFormItem(i18n.T("Rest (seconds)"), restEntry),
		),
		sound,
		widget.NewForm(
			widget.NewFormItem(i18n.T("Language"), language),
			widget.NewFormItem("Log level", logLevel),
			widget.NewFormItem("Metrics", metricsAddr),
		),
	)

	saveButton := widget.NewButton(i18n.T("Save"), nil)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton(i18n.T("Cancel"), nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(380, 340))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:      window,
		onSave:      onSave,
		workEntry:   workEntry,
		restEntry:   restEntry,
		sound:       sound,
		language:    language,
		logLevel:    logLevel,
		metricsAddr: metricsAddr,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workEntry.SetText(strconv.Itoa(settings.WorkSeconds))
	prefs.restEntry.SetText(strconv.Itoa(settings.RestSeconds))
	prefs.sound.SetChecked(settings.SoundEnabled)
	if settings.Language == "" {
		prefs.language.SetSelectedIndex(0)
	} else {
		prefs.language.SetSelected(settings.Language)
	}
	prefs.logLevel.SetSelected(settings.LogLevel)
	prefs.metricsAddr.SetText(settings.MetricsAddr)
}

// Settings returns the last saved or applied settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if seconds, ok := parseSeconds(prefs.workEntry.Text); ok {
		settings.WorkSeconds = seconds
	}
	if seconds, ok := parseSeconds(prefs.restEntry.Text); ok {
		settings.RestSeconds = seconds
	}

	settings.SoundEnabled = prefs.sound.Checked
	if prefs.language.SelectedIndex() <= 0 {
		settings.Language = ""
	} else {
		settings.Language = prefs.language.Selected
	}
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}
	settings.MetricsAddr = strings.TrimSpace(prefs.metricsAddr.Text)

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parseSeconds(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < model.MinSeconds || parsed > model.MaxSeconds {
		return 0, false
	}
	return parsed, true
}
