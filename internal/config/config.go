// Package config provides configuration management for the Kelly board application.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	OddsAPI      OddsAPIConfig      `mapstructure:"odds_api" validate:"required"`
	Engine       EngineConfig       `mapstructure:"engine" validate:"required"`
	Estimator    EstimatorConfig    `mapstructure:"estimator" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service"`
	Schedule     ScheduleConfig     `mapstructure:"schedule" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Health       HealthConfig       `mapstructure:"health" validate:"required"`
	Stream       StreamConfig       `mapstructure:"stream"`
	Secrets      SecretsConfig      `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// OddsAPIConfig configures the odds fetch collaborator
type OddsAPIConfig struct {
	Source         string   `mapstructure:"source" validate:"required,oneof=the_odds_api file"`
	BaseURL        string   `mapstructure:"base_url" validate:"required,url"`
	APIKey         string   `mapstructure:"api_key"`
	Sport          string   `mapstructure:"sport" validate:"required"`
	Regions        string   `mapstructure:"regions" validate:"required"`
	Markets        []string `mapstructure:"markets" validate:"required,min=1,markets"`
	Bookmakers     []string `mapstructure:"bookmakers"`
	OddsFormat     string   `mapstructure:"odds_format" validate:"required,eq=american"`
	QuotesFile     string   `mapstructure:"quotes_file"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// EngineConfig represents staking parameters
type EngineConfig struct {
	Bankroll         float64 `mapstructure:"bankroll" validate:"gte=0"`
	MinEdge          float64 `mapstructure:"min_edge" validate:"gte=-1,lte=1"`
	KellyMultiplier  float64 `mapstructure:"kelly_multiplier" validate:"gt=0,lte=1"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"gt=0,lte=1"`
}

// EstimatorConfig selects and tunes the probability model
type EstimatorConfig struct {
	Type           string  `mapstructure:"type" validate:"required,estimator"`
	Offset         float64 `mapstructure:"offset" validate:"gte=-1,lte=1"`
	Spread         float64 `mapstructure:"spread" validate:"gte=0,lte=1"`
	Seed           int64   `mapstructure:"seed"`
	MinProbability float64 `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	MaxProbability float64 `mapstructure:"max_probability" validate:"gt=0,lte=1"`
}

// ModelServiceConfig represents the remote probability model configuration
type ModelServiceConfig struct {
	GRPCAddress     string `mapstructure:"grpc_address"`
	ModelVersion    string `mapstructure:"model_version"`
	Insecure        bool   `mapstructure:"insecure"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"gte=0"`
}

// ScheduleConfig represents board refresh scheduling
type ScheduleConfig struct {
	RefreshCron            string `mapstructure:"refresh_cron"`
	RefreshIntervalSeconds int    `mapstructure:"refresh_interval_seconds" validate:"required,gte=5"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig configures the HTTP server exposing health, metrics and board endpoints
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// StreamConfig configures the websocket board broadcaster
type StreamConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Path                string `mapstructure:"path" validate:"required_if=Enabled true"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// SecretsConfig controls the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// FetchTimeout returns the odds API request timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.OddsAPI.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the board refresh interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Schedule.RefreshIntervalSeconds) * time.Second
}

// ModelCacheTTL returns how long model predictions stay cached
func (c *Config) ModelCacheTTL() time.Duration {
	return time.Duration(c.ModelService.CacheTTLSeconds) * time.Second
}
