// Package config provides configuration management for the Kelly board application.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("markets", validateMarkets)
	v.RegisterValidation("estimator", validateEstimator)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validMarkets are The Odds API market keys the board understands
var validMarkets = map[string]bool{
	"h2h":     true,
	"spreads": true,
	"totals":  true,
}

func validateMarkets(fl validator.FieldLevel) bool {
	markets, ok := fl.Field().Interface().([]string)
	if !ok || len(markets) == 0 {
		return false
	}
	for _, market := range markets {
		if !validMarkets[market] {
			return false
		}
	}
	return true
}

func validateEstimator(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "offset", "simulated", "model":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Estimator.MinProbability >= cfg.Estimator.MaxProbability {
		return fmt.Errorf("estimator min_probability must be below max_probability")
	}

	switch cfg.OddsAPI.Source {
	case "the_odds_api":
		if cfg.OddsAPI.APIKey == "" && !cfg.Secrets.Enabled {
			return fmt.Errorf("odds_api.api_key is required when source is the_odds_api")
		}
	case "file":
		if cfg.OddsAPI.QuotesFile == "" {
			return fmt.Errorf("odds_api.quotes_file is required when source is file")
		}
	}

	if cfg.Estimator.Type == "model" && cfg.ModelService.GRPCAddress == "" {
		return fmt.Errorf("model_service.grpc_address is required when estimator type is model")
	}

	if cfg.Schedule.RefreshCron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.RefreshCron); err != nil {
			return fmt.Errorf("invalid schedule.refresh_cron %q: %w", cfg.Schedule.RefreshCron, err)
		}
	}

	if cfg.IsProduction() {
		if cfg.OddsAPI.Source != "the_odds_api" {
			return fmt.Errorf("production environment requires the_odds_api source")
		}
		if cfg.Estimator.Type == "simulated" {
			return fmt.Errorf("simulated estimator is not allowed in production")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructNamespace()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "markets":
			fmt.Fprintf(&b, "- Field '%s' must list markets from: h2h, spreads, totals\n", field)
		case "estimator":
			fmt.Fprintf(&b, "- Field '%s' must be one of: offset, simulated, model\n", field)
		case "oneof", "eq":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() && isTestCredential(cfg.OddsAPI.APIKey) {
		return fmt.Errorf("production environment should not use a placeholder odds API key")
	}
	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
