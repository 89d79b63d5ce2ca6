package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/config"
	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

const (
	theOddsAPIName           = "the_odds_api"
	dataSourceDisabledMsg    = "data source disabled"
	requestsRemainingHeader  = "x-requests-remaining"
	maxErrorBodyBytes        = 512
	defaultTheOddsAPIBaseURL = "https://api.the-odds-api.com/v4"
	defaultTheOddsAPIRegions = "us"
	americanOddsFormat       = "american"
	defaultTheOddsAPIMarket  = "h2h"
)

// TheOddsAPIClient implements OddsSource for The Odds API v4
type TheOddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	regions    string
	oddsFormat string
	markets    []string
	bookmakers []string
	normalizer *QuoteNormalizer
	logger     *logger.FetchLogger
}

// NewTheOddsAPIClient creates a new The Odds API client
func NewTheOddsAPIClient(httpClient *RateLimitedHTTPClient, cfg config.OddsAPIConfig, log *logrus.Logger) *TheOddsAPIClient {
	fetchLogger := logger.NewFetchLogger(log)

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultTheOddsAPIBaseURL
	}
	regions := cfg.Regions
	if regions == "" {
		regions = defaultTheOddsAPIRegions
	}
	oddsFormat := cfg.OddsFormat
	if oddsFormat == "" {
		oddsFormat = americanOddsFormat
	}
	markets := cfg.Markets
	if len(markets) == 0 {
		markets = []string{defaultTheOddsAPIMarket}
	}

	return &TheOddsAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		sport:      cfg.Sport,
		regions:    regions,
		oddsFormat: oddsFormat,
		markets:    markets,
		bookmakers: cfg.Bookmakers,
		normalizer: NewQuoteNormalizer(fetchLogger),
		logger:     fetchLogger,
	}
}

// FetchQuotes retrieves the current lines for the configured sport
func (c *TheOddsAPIClient) FetchQuotes(ctx context.Context) ([]models.Quote, error) {
	if !c.IsEnabled() {
		return nil, NewDataSourceError(theOddsAPIName, ErrCodeDisabled, "api key not configured", nil)
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.oddsURL(), nil)
	if err != nil {
		return nil, NewDataSourceError(theOddsAPIName, ErrCodeNetworkError, "failed to create request", redactError(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(theOddsAPIName, ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, err
	}

	var events []OddsEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, NewDataSourceError(theOddsAPIName, ErrCodeInvalidData, "failed to parse response", err)
	}

	quotes := c.normalizer.Normalize(events)

	c.logger.LogFetchCompleted(theOddsAPIName, c.sport, len(events), len(quotes),
		resp.Header.Get(requestsRemainingHeader), float64(time.Since(start).Milliseconds()))

	return quotes, nil
}

// Name returns the data source name
func (c *TheOddsAPIClient) Name() string {
	return theOddsAPIName
}

// IsEnabled returns whether an API key is configured
func (c *TheOddsAPIClient) IsEnabled() bool {
	return c.apiKey != ""
}

// oddsURL builds /sports/{sport}/odds with the query the API expects
func (c *TheOddsAPIClient) oddsURL() string {
	params := url.Values{}
	params.Set("regions", c.regions)
	params.Set("markets", strings.Join(c.markets, ","))
	params.Set("oddsFormat", c.oddsFormat)
	params.Set("apiKey", c.apiKey)
	if len(c.bookmakers) > 0 {
		params.Set("bookmakers", strings.Join(c.bookmakers, ","))
	}

	return fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, url.PathEscape(c.sport), params.Encode())
}

// statusError maps non-200 responses to DataSourceError codes
func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return NewDataSourceError(theOddsAPIName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return NewDataSourceError(theOddsAPIName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case http.StatusNotFound:
		return NewDataSourceError(theOddsAPIName, ErrCodeNotFound, "unknown sport", nil)
	case http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return NewDataSourceError(theOddsAPIName, ErrCodeInvalidData, fmt.Sprintf("request rejected: %s", strings.TrimSpace(string(body))), nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return NewDataSourceError(theOddsAPIName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
}
