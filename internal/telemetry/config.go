// Package telemetry sends opt-in, anonymous usage events for veritas.
// Submitted text, titles and backend responses are never included.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/josephgoksu/veritas/internal/config"
)

// ConfigFileName is the telemetry preferences file inside the global config dir.
const ConfigFileName = "telemetry.json"

// Config holds the user's telemetry choice. It lives beside, not inside,
// the main config so `config set` never touches the anonymous ID.
type Config struct {
	Enabled     bool   `json:"enabled"`
	AnonymousID string `json:"anonymous_id"`
}

// GetConfigPath returns the full path to the telemetry config file.
func GetConfigPath() (string, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the telemetry preferences. A missing file yields a disabled
// config with a fresh anonymous ID.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.NewString()
	}
	return cfg, nil
}

// Save writes the preferences with owner-only permissions.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// IsEnabled reports whether events may be sent.
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}
