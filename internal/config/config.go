package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. COACHDASH_SERVER_ADDRESS.
const EnvPrefix = "COACHDASH"

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Athletes AthletesConfig `mapstructure:"athletes"`
	Insights InsightsConfig `mapstructure:"insights"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	GinMode      string        `mapstructure:"gin_mode"` // debug, release or test
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

type AthletesConfig struct {
	DefaultSport string `mapstructure:"default_sport"`
}

// InsightsConfig tunes the advisory checks and the detail view.
type InsightsConfig struct {
	RaceWindowDays      int `mapstructure:"race_window_days"`
	RecentSessionsLimit int `mapstructure:"recent_sessions_limit"`
}

// LoadConfig reads configuration from path/config.yaml (if present) and environment
// variables, on top of the defaults below.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("athletes.default_sport", "Running")
	v.SetDefault("insights.race_window_days", 30)
	v.SetDefault("insights.recent_sessions_limit", 5)

	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> COACHDASH_SERVER_ADDRESS
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No file: defaults and env vars only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if strings.TrimSpace(c.Athletes.DefaultSport) == "" {
		return fmt.Errorf("athletes.default_sport must not be empty")
	}
	if c.Insights.RaceWindowDays <= 0 {
		return fmt.Errorf("insights.race_window_days must be greater than 0")
	}
	if c.Insights.RecentSessionsLimit <= 0 {
		return fmt.Errorf("insights.recent_sessions_limit must be greater than 0")
	}
	return nil
}
