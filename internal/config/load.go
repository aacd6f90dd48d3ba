package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before the config file and environment are read.
const (
	DefaultMode             = "enhanced"
	DefaultMaxIntervalDays  = 365
	DefaultMaxReviewsPerDay = 50
	DefaultMaxDeferDays     = 30
	DefaultDueHorizonDays   = 0
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// envPrefix is prepended to every environment key, e.g. SCRY_SCHEDULER_MODE.
const envPrefix = "SCRY"

var validate = validator.New()

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile behaves like Load but reads the given YAML file instead of looking
// for config.yaml. Unlike Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.mode", DefaultMode)
	v.SetDefault("scheduler.max_interval_days", DefaultMaxIntervalDays)
	v.SetDefault("scheduler.max_reviews_per_day", DefaultMaxReviewsPerDay)
	v.SetDefault("scheduler.max_defer_days", DefaultMaxDeferDays)
	v.SetDefault("scheduler.due_horizon_days", DefaultDueHorizonDays)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}
