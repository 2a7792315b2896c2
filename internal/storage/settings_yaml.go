package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coachtimer/internal/core/model"
	"coachtimer/internal/platform"
	"coachtimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkSeconds  int    `yaml:"work_seconds"`
	RestSeconds  int    `yaml:"rest_seconds"`
	SoundEnabled *bool  `yaml:"sound_enabled"`
	Language     string `yaml:"language,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty"`
	MetricsAddr  string `yaml:"metrics_addr,omitempty"`
}

// Store reads and writes the settings file.
type Store struct {
	path string
}

// NewStore creates a store for settings.yaml inside dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, settingsFileName)}
}

// DefaultStore creates a store in the per-user config dir of appName.
func DefaultStore(appName string) (*Store, error) {
	dir, err := platform.ConfigDir(appName)
	if err != nil {
		return nil, fmt.Errorf("resolve settings dir: %w", err)
	}
	return NewStore(dir), nil
}

// Path returns the settings file location.
func (store *Store) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func (store *Store) Load() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user preferences to YAML.
func (store *Store) Save(settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	soundEnabled := settings.SoundEnabled
	fileData := yamlSettings{
		WorkSeconds:  settings.WorkSeconds,
		RestSeconds:  settings.RestSeconds,
		SoundEnabled: &soundEnabled,
		Language:     settings.Language,
		LogLevel:     settings.LogLevel,
		MetricsAddr:  settings.MetricsAddr,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	// write then rename so the watcher never reads a half written file
	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if inRange(fileData.WorkSeconds) {
		settings.WorkSeconds = fileData.WorkSeconds
	}
	if inRange(fileData.RestSeconds) {
		settings.RestSeconds = fileData.RestSeconds
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if language := strings.ToLower(strings.TrimSpace(fileData.Language)); len(language) == 2 {
		settings.Language = language
	}
	if level := strings.TrimSpace(fileData.LogLevel); level != "" {
		settings.LogLevel = level
	}
	settings.MetricsAddr = strings.TrimSpace(fileData.MetricsAddr)
}

func inRange(seconds int) bool {
	return seconds >= model.MinSeconds && seconds <= model.MaxSeconds
}
