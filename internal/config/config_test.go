// Package config provides configuration management for the Kelly board application.
package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	partialConfigPath            = "testdata/partial_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	kellyBoardName               = "kelly-board"
	developmentEnv               = "development"
	testAppName                  = "test-app"
	testOddsAPIKey               = "TEST_ODDS_API_KEY"
	expandedSecretValue          = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != kellyBoardName {
		t.Errorf("expected app name '%s', got '%s'", kellyBoardName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.OddsAPI.Sport != "baseball_mlb" {
		t.Errorf("expected sport 'baseball_mlb', got '%s'", cfg.OddsAPI.Sport)
	}
	if cfg.Engine.Bankroll != 1000 {
		t.Errorf("expected bankroll 1000, got %v", cfg.Engine.Bankroll)
	}
	if cfg.Estimator.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Estimator.Seed)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("KELLY_BOARD_APP_NAME", testAppName)

	cfg := loadValid(t)
	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in the config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testOddsAPIKey, expandedSecretValue)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.OddsAPI.APIKey != expandedSecretValue {
		t.Errorf("expected api key '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.OddsAPI.APIKey)
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults alone produce a usable config
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Engine.Bankroll != 1000 || cfg.Engine.MinEdge != 0.05 {
		t.Errorf("expected default staking 1000/0.05, got %v/%v", cfg.Engine.Bankroll, cfg.Engine.MinEdge)
	}
	if cfg.Estimator.Type != "offset" || cfg.Estimator.Offset != 0.15 {
		t.Errorf("expected offset estimator with 0.15, got %s/%v", cfg.Estimator.Type, cfg.Estimator.Offset)
	}
	if cfg.OddsAPI.OddsFormat != "american" {
		t.Errorf("expected american odds format, got %s", cfg.OddsAPI.OddsFormat)
	}
}

// TestLoadWithDefaultsPartialFile tests that file values override defaults
func TestLoadWithDefaultsPartialFile(t *testing.T) {
	cfg, err := LoadWithDefaults(partialConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Engine.Bankroll != 2500 {
		t.Errorf("expected bankroll 2500, got %v", cfg.Engine.Bankroll)
	}
	if len(cfg.OddsAPI.Markets) != 2 {
		t.Errorf("expected 2 markets, got %v", cfg.OddsAPI.Markets)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("expected partial config to validate, got %v", err)
	}
}

// TestLoadWithDefaultsEnvOverride tests env override of a defaulted key
func TestLoadWithDefaultsEnvOverride(t *testing.T) {
	t.Setenv("KELLY_BOARD_ENGINE_MIN_EDGE", "0.08")

	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Engine.MinEdge != 0.08 {
		t.Errorf("expected min edge 0.08 from environment, got %v", cfg.Engine.MinEdge)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	if err := Validate(loadValid(t)); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidFields tests field-level validation failures
func TestValidateInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"log level", func(c *Config) { c.App.LogLevel = "trace" }, "LogLevel"},
		{"markets", func(c *Config) { c.OddsAPI.Markets = []string{"outrights"} }, "Markets"},
		{"empty markets", func(c *Config) { c.OddsAPI.Markets = []string{} }, "Markets"},
		{"odds format", func(c *Config) { c.OddsAPI.OddsFormat = "decimal" }, "OddsFormat"},
		{"estimator", func(c *Config) { c.Estimator.Type = "oracle" }, "Type"},
		{"kelly multiplier", func(c *Config) { c.Engine.KellyMultiplier = 1.5 }, "KellyMultiplier"},
		{"negative bankroll", func(c *Config) { c.Engine.Bankroll = -1 }, "Bankroll"},
		{"refresh interval", func(c *Config) { c.Schedule.RefreshIntervalSeconds = 1 }, "RefreshIntervalSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("expected error mentioning %s, got: %v", tt.substr, err)
			}
		})
	}
}

// TestValidateCrossField tests cross-field validation rules
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"band inverted", func(c *Config) { c.Estimator.MinProbability = 0.9; c.Estimator.MaxProbability = 0.5 }},
		{"missing api key", func(c *Config) { c.OddsAPI.APIKey = "" }},
		{"file without path", func(c *Config) { c.OddsAPI.Source = "file" }},
		{"model without address", func(c *Config) { c.Estimator.Type = "model" }},
		{"bad cron", func(c *Config) { c.Schedule.RefreshCron = "every tuesday" }},
		{"simulated in production", func(c *Config) { c.App.Environment = "production"; c.Estimator.Type = "simulated" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected cross-field validation error for %s", tt.name)
			}
		})
	}
}

// TestValidateMissingKeyWithSecrets tests that the key may come from secrets
func TestValidateMissingKeyWithSecrets(t *testing.T) {
	cfg := loadValid(t)
	cfg.OddsAPI.APIKey = ""
	cfg.Secrets = SecretsConfig{Enabled: true, Region: "us-east-1", SecretName: "kelly-board/prod"}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error when secrets supply the key, got %v", err)
	}
}

// TestValidateEnvironmentPlaceholderKey tests production credential checks
func TestValidateEnvironmentPlaceholderKey(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.OddsAPI.APIKey = "YOUR_API_KEY"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for placeholder key in production")
	}

	cfg.OddsAPI.APIKey = "8a9905b9beedb8254ebc41aa5e600d7a"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestEnvironmentChecks tests environment helpers
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected only IsDevelopment() to be true")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
}

type fakeSecretGetter struct {
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f *fakeSecretGetter) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.output, f.err
}

// TestLoadSecretsWithClient tests overlaying AWS secrets on configuration
func TestLoadSecretsWithClient(t *testing.T) {
	cfg := loadValid(t)
	client := &fakeSecretGetter{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"odds_api_key":"from-secrets","model_service_address":"model:50051"}`),
	}}

	if err := LoadSecretsWithClient(context.Background(), cfg, client); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.OddsAPI.APIKey != "from-secrets" {
		t.Errorf("expected api key from secrets, got %s", cfg.OddsAPI.APIKey)
	}
	if cfg.ModelService.GRPCAddress != "model:50051" {
		t.Errorf("expected model address from secrets, got %s", cfg.ModelService.GRPCAddress)
	}
}

// TestLoadSecretsEmptyPayload tests a secret with no data
func TestLoadSecretsEmptyPayload(t *testing.T) {
	cfg := loadValid(t)
	client := &fakeSecretGetter{output: &secretsmanager.GetSecretValueOutput{}}

	err := LoadSecretsWithClient(context.Background(), cfg, client)
	if !errors.Is(err, ErrNoSecretData) {
		t.Fatalf("expected ErrNoSecretData, got %v", err)
	}
	if cfg.OddsAPI.APIKey != "abc123" {
		t.Errorf("expected api key untouched, got %s", cfg.OddsAPI.APIKey)
	}
}

// TestLoadSecretsDisabled tests that disabled secrets are a no-op
func TestLoadSecretsDisabled(t *testing.T) {
	cfg := loadValid(t)
	if err := LoadSecretsFromAWS(context.Background(), cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}
