package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the per-user directory for appName's files, falling
// back to an OS-specific location under the home directory when
// os.UserConfigDir is unavailable.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, appName), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return filepath.Join(fallbackConfigDir(homeDir), appName), nil
}
