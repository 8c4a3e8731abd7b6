/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/veritas/internal/config"
	"github.com/josephgoksu/veritas/types"
)

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Veritas configuration",
	Long:  `View and manage Veritas configuration settings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, config files, .env and VERITAS_*
environment variables are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig(GetConfig())
		if isJSON() {
			return printJSON(cmd.OutOrStdout(), cfg)
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the global config file",
	Long: `Write a setting to ~/.veritas/config.yaml.

Keys use dotted paths, for example:
  veritas config set api.baseURL http://localhost:8000
  veritas config set storage.backend sqlite
  veritas config set server.allowedOrigins http://localhost:3000,http://localhost:5173`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveGlobalValue(args[0], args[1]); err != nil {
			return fmt.Errorf("save %s: %w", args[0], err)
		}
		path, _ := config.GetGlobalConfigFile()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", args[0], path)
		return nil
	},
}

// shownConfig is the YAML/JSON view of types.AppConfig with resolved paths.
type shownConfig struct {
	API struct {
		BaseURL        string `yaml:"baseURL" json:"baseURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" json:"timeoutSeconds"`
	} `yaml:"api" json:"api"`
	Storage struct {
		Backend   string `yaml:"backend" json:"backend"`
		Path      string `yaml:"path" json:"path"`
		RedisAddr string `yaml:"redisAddr,omitempty" json:"redisAddr,omitempty"`
		Key       string `yaml:"key" json:"key"`
	} `yaml:"storage" json:"storage"`
	Log struct {
		Level string `yaml:"level" json:"level"`
		File  string `yaml:"file" json:"file"`
	} `yaml:"log" json:"log"`
	Server struct {
		Port           int      `yaml:"port" json:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`
	} `yaml:"server" json:"server"`
	Telemetry struct {
		APIKeySet bool   `yaml:"apiKeySet" json:"apiKeySet"`
		Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	} `yaml:"telemetry" json:"telemetry"`
}

// effectiveConfig resolves default paths and hides the telemetry key.
func effectiveConfig(cfg *types.AppConfig) shownConfig {
	var s shownConfig
	s.API.BaseURL = cfg.API.BaseURL
	s.API.TimeoutSeconds = cfg.API.TimeoutSeconds
	s.Storage.Backend = cfg.Storage.Backend
	s.Storage.Path = config.GetDataPath()
	s.Storage.RedisAddr = cfg.Storage.RedisAddr
	s.Storage.Key = cfg.Storage.Key
	s.Log.Level = cfg.Log.Level
	s.Log.File = config.GetLogPath()
	s.Server.Port = cfg.Server.Port
	s.Server.AllowedOrigins = cfg.Server.AllowedOrigins
	if s.Server.AllowedOrigins == nil {
		s.Server.AllowedOrigins = []string{}
	}
	s.Telemetry.APIKeySet = cfg.Telemetry.APIKey != ""
	s.Telemetry.Endpoint = cfg.Telemetry.Endpoint
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
