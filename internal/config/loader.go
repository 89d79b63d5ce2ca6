// Package config provides configuration management for the Kelly board application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, e.g. KELLY_BOARD_ENGINE_BANKROLL
const EnvPrefix = "KELLY_BOARD"

// DefaultConfigPath is used when no path is supplied
const DefaultConfigPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// readExpanded reads a YAML file into v after expanding ${VAR} placeholders
func readExpanded(v *viper.Viper, data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := readExpanded(v, data); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error: defaults and environment variables are used.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := readExpanded(v, data); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kelly-board")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("odds_api.source", "the_odds_api")
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.sport", "baseball_mlb")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.markets", []string{"h2h"})
	v.SetDefault("odds_api.bookmakers", []string{})
	v.SetDefault("odds_api.odds_format", "american")
	v.SetDefault("odds_api.quotes_file", "")
	v.SetDefault("odds_api.timeout_seconds", 30)
	v.SetDefault("odds_api.max_retries", 3)
	v.SetDefault("odds_api.rate_limit", 1.0)

	v.SetDefault("engine.bankroll", 1000.0)
	v.SetDefault("engine.min_edge", 0.05)
	v.SetDefault("engine.kelly_multiplier", 1.0)
	v.SetDefault("engine.max_stake_fraction", 1.0)

	v.SetDefault("estimator.type", "offset")
	v.SetDefault("estimator.offset", 0.15)
	v.SetDefault("estimator.spread", 0.1)
	v.SetDefault("estimator.seed", 1)
	v.SetDefault("estimator.min_probability", 0.05)
	v.SetDefault("estimator.max_probability", 0.95)

	v.SetDefault("model_service.grpc_address", "")
	v.SetDefault("model_service.model_version", "latest")
	v.SetDefault("model_service.insecure", true)
	v.SetDefault("model_service.timeout_seconds", 5)
	v.SetDefault("model_service.cache_ttl_seconds", 300)
	v.SetDefault("model_service.cache_max_size", 10000)

	v.SetDefault("schedule.refresh_cron", "")
	v.SetDefault("schedule.refresh_interval_seconds", 300)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("health.port", 8080)

	v.SetDefault("stream.enabled", true)
	v.SetDefault("stream.path", "/ws")
	v.SetDefault("stream.write_timeout_seconds", 10)

	v.SetDefault("secrets.enabled", false)
	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.secret_name", "")
}
