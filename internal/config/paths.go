package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/convlog/config.yml
// - macOS: ~/Library/Application Support/convlog/config.yml
// - Windows: %APPDATA%\convlog\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "convlog", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return ".convlog.yml"
}

// ProjectJSONConfigPath returns the path to the project-level JSON config file.
// It is only read when the YAML file is absent.
func ProjectJSONConfigPath() string {
	return ".convlog.json"
}
