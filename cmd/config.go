package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/veritas/internal/api"
	"github.com/josephgoksu/veritas/internal/config"
	"github.com/josephgoksu/veritas/internal/history"
	"github.com/josephgoksu/veritas/types"
)

const (
	configName = ".veritas"
	envPrefix  = "VERITAS"

	defaultBaseURL = api.DefaultBaseURL
	defaultPort    = 8080
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// configErr is the outcome of the last InitConfig, surfaced by the root
// command's pre-run so commands never run on a half-loaded config.
var configErr error

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	configErr = loadConfig()
}

func setDefaults() {
	viper.SetDefault("api.baseURL", defaultBaseURL)
	viper.SetDefault("api.timeoutSeconds", 0)
	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.path", "")
	viper.SetDefault("storage.redisAddr", "")
	viper.SetDefault("storage.key", history.Key)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("server.port", defaultPort)
	viper.SetDefault("server.allowedOrigins", []string{})
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

// loadConfig layers defaults, the global config file, a project
// .veritas.yaml, .env and VERITAS_* variables, then validates the result.
// An explicit --config replaces both files.
func loadConfig() error {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)                          // e.g., VERITAS_API_BASEURL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env var names
	viper.AutomaticEnv()
	setDefaults()

	if cfgFileFlag := viper.GetString("config"); cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", cfgFileFlag, err)
		}
	} else {
		if err := readGlobalConfig(); err != nil {
			return err
		}
		if err := mergeProjectConfig(); err != nil {
			return err
		}
	}

	if viper.GetBool("verbose") && viper.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return fmt.Errorf("configuration validation error: %w", err)
	}
	GlobalAppConfig = cfg
	return nil
}

func readGlobalConfig() error {
	path, err := config.GetGlobalConfigFile()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read global config %s: %w", path, err)
	}
	return nil
}

// mergeProjectConfig overlays .veritas.yaml from ./.veritas, $HOME or the
// working directory.
func mergeProjectConfig() error {
	project := viper.New()
	project.SetConfigName(configName)
	project.SetConfigType("yaml")
	project.AddConfigPath(configName)
	if home, err := os.UserHomeDir(); err == nil {
		project.AddConfigPath(home)
	}
	project.AddConfigPath(".")

	if err := project.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read project config %s: %w", project.ConfigFileUsed(), err)
	}
	if err := viper.MergeConfigMap(project.AllSettings()); err != nil {
		return fmt.Errorf("merge project config: %w", err)
	}
	if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using project config:", project.ConfigFileUsed())
	}
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
