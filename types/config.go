/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig points at the verification backend
type APIConfig struct {
	BaseURL string `mapstructure:"baseURL" validate:"required,url"`
	// TimeoutSeconds bounds each backend request. 0 waits indefinitely.
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"min=0,max=3600"`
}

// StorageConfig selects where history is persisted
type StorageConfig struct {
	Backend   string `mapstructure:"backend" validate:"required,oneof=file sqlite redis memory"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redisAddr" validate:"required_if=Backend redis,omitempty,hostname_port"`
	Key       string `mapstructure:"key" validate:"required"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

// ServerConfig configures `veritas serve`
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"min=0,max=65535"`
	AllowedOrigins []string `mapstructure:"allowedOrigins" validate:"dive,url"`
}

// TelemetryConfig holds PostHog settings. Sending also requires opt-in.
type TelemetryConfig struct {
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}
