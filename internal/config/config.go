// Package config loads and validates opsdeck configuration from a YAML
// file, environment variables, and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	API APIConfig `mapstructure:"api"`
	UI  UIConfig  `mapstructure:"ui"`
	Log LogConfig `mapstructure:"log"`
}

// APIConfig holds credentials and connection parameters for the
// incident-management API.
type APIConfig struct {
	// CloudID identifies the tenant; required.
	CloudID string `mapstructure:"cloud_id"`

	// Email and Token enable basic auth.
	Email string `mapstructure:"email"`
	Token string `mapstructure:"token"`

	// BearerToken enables bearer auth and takes precedence over
	// email/token.
	BearerToken string `mapstructure:"bearer_token"`

	// PageSize is the list fetch size, 1..500.
	PageSize int `mapstructure:"page_size"`

	// LogHTTPBody enables logging of error response bodies.
	LogHTTPBody bool `mapstructure:"log_http_body"`
}

// BaseURL returns the API root for the configured tenant.
func (a APIConfig) BaseURL() string {
	return fmt.Sprintf("https://api.atlassian.com/jsm/ops/api/%s", a.CloudID)
}

// UIConfig holds user interface preferences.
type UIConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads configuration from the given YAML file (or the default
// search paths when empty) and the environment. A .env file in the
// working directory is loaded first so tokens can live outside the
// config file.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; it only exists to hold credentials.
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/opsdeck")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("OPSDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file is fine; env vars can carry everything.
	}

	// Viper's Unmarshal does not consult AutomaticEnv for keys absent
	// from the config file, so bind the known keys explicitly.
	for _, key := range []string{
		"api.cloud_id", "api.email", "api.token", "api.bearer_token",
		"api.page_size", "api.log_http_body",
		"ui.refresh_interval", "log.level", "log.file",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func Validate(cfg *Config) error {
	if cfg.API.CloudID == "" {
		return fmt.Errorf("api.cloud_id is required (OPSDECK_API_CLOUD_ID)")
	}

	if cfg.API.BearerToken == "" && (cfg.API.Email == "" || cfg.API.Token == "") {
		return fmt.Errorf("authentication is required: set api.bearer_token or api.email + api.token")
	}

	if cfg.API.PageSize < 1 || cfg.API.PageSize > 500 {
		return fmt.Errorf("api.page_size must be between 1 and 500, got %d", cfg.API.PageSize)
	}

	if cfg.UI.RefreshInterval < time.Second {
		return fmt.Errorf("ui.refresh_interval must be >= 1s, got %v", cfg.UI.RefreshInterval)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}

	return nil
}

// applyDefaults sets default configuration values.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("api.page_size", 100)
	v.SetDefault("api.log_http_body", false)
	v.SetDefault("ui.refresh_interval", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}
