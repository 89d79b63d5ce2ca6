package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// TheOddsAPISourceType fetches live lines from The Odds API
	TheOddsAPISourceType SourceType = "the_odds_api"
	// FileSourceType reads a saved The Odds API response
	FileSourceType SourceType = "file"
)

// Factory creates OddsSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClientConfigFrom derives HTTP client settings from the odds API config
func HTTPClientConfigFrom(cfg config.OddsAPIConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	return httpCfg
}

// Create creates a new data source based on the type
func (f *Factory) Create(sourceType SourceType) (OddsSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	oddsCfg := f.config.OddsAPI
	switch sourceType {
	case TheOddsAPISourceType:
		httpClient := NewRateLimitedHTTPClient(HTTPClientConfigFrom(oddsCfg), f.logger)
		return NewTheOddsAPIClient(httpClient, oddsCfg, f.logger), nil
	case FileSourceType:
		if oddsCfg.QuotesFile == "" {
			return nil, fmt.Errorf("quotes file is required for the file source")
		}
		return NewFileSource(oddsCfg.QuotesFile, oddsCfg.Sport, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// NewOddsSource creates the source selected by odds_api.source
func (f *Factory) NewOddsSource() (OddsSource, error) {
	if f.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	return f.Create(SourceType(f.config.OddsAPI.Source))
}
