package preferences

import (
	"coachtimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkSeconds  int
	RestSeconds  int
	SoundEnabled bool

	// Language is a two letter code; empty means detect from the system.
	Language    string
	LogLevel    string
	MetricsAddr string
}

// DefaultSettings returns default settings for CoachTimer.
func DefaultSettings() Settings {
	return Settings{
		WorkSeconds:  model.DefaultWorkSeconds,
		RestSeconds:  model.DefaultRestSeconds,
		SoundEnabled: true,
		LogLevel:     "info",
	}
}

// TimerConfig converts settings to the interval lengths of a session.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkSeconds: settings.WorkSeconds,
		RestSeconds: settings.RestSeconds,
	}
}
