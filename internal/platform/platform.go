// Package platform wraps the OS services BreakTime needs: idle time,
// configuration directory and a single instance lock.
package platform

import (
	"fmt"
	"os"
)

// ConfigDir returns the OS-standard configuration directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}
