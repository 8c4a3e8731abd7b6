// Package config resolves where veritas keeps its configuration, data and
// logs, and writes user settings back to the global config file.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the global configuration file inside GetGlobalConfigDir.
const ConfigFileName = "config.yaml"

// GetGlobalConfigDir returns the path to the global configuration directory (~/.veritas).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".veritas"), nil
}

// GetGlobalConfigFile returns the path of the global config file.
func GetGlobalConfigFile() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetDataPath returns the directory holding history snapshots.
// Resolution order (first match wins):
// 1. Explicit config via "storage.path" (Viper/env/flag)
// 2. XDG_DATA_HOME/veritas (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.veritas/data
func GetDataPath() string {
	if path := viper.GetString("storage.path"); path != "" {
		return path
	}
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "veritas")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(dir, "data")
}

// GetLogPath returns the log file path. "log.file" overrides the default
// ~/.veritas/logs/veritas.log.
func GetLogPath() string {
	if path := viper.GetString("log.file"); path != "" {
		return path
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "veritas.log")
	}
	return filepath.Join(dir, "logs", "veritas.log")
}

// GetCrashLogDir returns where panic reports are written.
func GetCrashLogDir() string {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "veritas-crash-logs")
	}
	return filepath.Join(dir, "crash_logs")
}
