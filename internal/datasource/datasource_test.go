package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/kelly-board/internal/config"
	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

const mlbOddsFixture = "testdata/mlb_odds.json"

func testLogger() *logrus.Logger {
	return logger.NewDiscardLogger()
}

func fastHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        1,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         0,
		CircuitBreakerMax: 3,
		CircuitCooldown:   time.Hour,
	}
}

func oddsAPIConfig(baseURL string) config.OddsAPIConfig {
	return config.OddsAPIConfig{
		Source:     "the_odds_api",
		BaseURL:    baseURL,
		APIKey:     "abc123",
		Sport:      "baseball_mlb",
		Regions:    "us",
		Markets:    []string{"h2h", "spreads", "totals"},
		OddsFormat: "american",
	}
}

func loadFixtureEvents(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(mlbOddsFixture)
	require.NoError(t, err)
	return data
}

func findQuote(quotes []models.Quote, selection string, market models.MarketType) *models.Quote {
	for i := range quotes {
		if quotes[i].Selection == selection && quotes[i].Market == market {
			return &quotes[i]
		}
	}
	return nil
}

func TestTheOddsAPIClientFetchQuotes(t *testing.T) {
	body := loadFixtureEvents(t)

	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"regions":    r.URL.Query().Get("regions"),
			"markets":    r.URL.Query().Get("markets"),
			"oddsFormat": r.URL.Query().Get("oddsFormat"),
			"apiKey":     r.URL.Query().Get("apiKey"),
		}
		w.Header().Set("x-requests-remaining", "497")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger()), oddsAPIConfig(server.URL), testLogger())

	quotes, err := client.FetchQuotes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/sports/baseball_mlb/odds", gotPath)
	assert.Equal(t, map[string]string{
		"regions":    "us",
		"markets":    "h2h,spreads,totals",
		"oddsFormat": "american",
		"apiKey":     "abc123",
	}, gotQuery)

	// 2 moneyline + 2 totals + 2 spreads; FanDuel duplicates and outrights dropped
	require.Len(t, quotes, 6)

	yankees := findQuote(quotes, "New York Yankees", models.MarketTypeMoneyline)
	require.NotNil(t, yankees)
	assert.Equal(t, "Boston Red Sox", yankees.Opponent)
	assert.Equal(t, -150, yankees.Odds)
	assert.Equal(t, "draftkings", yankees.Bookmaker)

	redSox := findQuote(quotes, "Boston Red Sox", models.MarketTypeMoneyline)
	require.NotNil(t, redSox)
	assert.Equal(t, "New York Yankees", redSox.Opponent)
	assert.Equal(t, 120, redSox.Odds)

	over := findQuote(quotes, "Over", models.MarketTypeTotal)
	require.NotNil(t, over)
	assert.Equal(t, "New York Yankees @ Boston Red Sox", over.Opponent)
	require.NotNil(t, over.Point)
	assert.Equal(t, 8.5, *over.Point)

	dodgers := findQuote(quotes, "Los Angeles Dodgers", models.MarketTypeSpread)
	require.NotNil(t, dodgers)
	assert.Equal(t, 135, dodgers.Odds)
	assert.Equal(t, "San Diego Padres", dodgers.Opponent)
}

func TestTheOddsAPIClientStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrCodeAuthenticationFailed, ErrAuthenticationFailed},
		{"rate limited", http.StatusTooManyRequests, ErrCodeRateLimitExceeded, ErrRateLimitExceeded},
		{"unknown sport", http.StatusNotFound, ErrCodeNotFound, ErrNotFound},
		{"rejected", http.StatusUnprocessableEntity, ErrCodeInvalidData, ErrInvalidData},
		{"server error", http.StatusServiceUnavailable, ErrCodeServerError, ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer server.Close()

			client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger()), oddsAPIConfig(server.URL), testLogger())

			quotes, err := client.FetchQuotes(context.Background())
			require.Error(t, err)
			assert.Nil(t, quotes)
			assert.Equal(t, tt.code, ErrorCode(err))
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestTheOddsAPIClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger()), oddsAPIConfig(server.URL), testLogger())

	_, err := client.FetchQuotes(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalidData, ErrorCode(err))
}

func TestTheOddsAPIClientDisabledWithoutKey(t *testing.T) {
	cfg := oddsAPIConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger()), cfg, testLogger())

	assert.False(t, client.IsEnabled())
	_, err := client.FetchQuotes(context.Background())
	assert.ErrorIs(t, err, ErrSourceDisabled)
}

func TestTheOddsAPIClientOddsFormat(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{name: "configured", configured: "american", want: "american"},
		{name: "defaulted", configured: "", want: "american"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("oddsFormat")
				_, _ = w.Write([]byte("[]"))
			}))
			defer server.Close()

			cfg := oddsAPIConfig(server.URL)
			cfg.OddsFormat = tt.configured
			client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger()), cfg, testLogger())

			_, err := client.FetchQuotes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func closedServerURL(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()
	return addr
}

func TestTheOddsAPIClientNetworkErrorHidesAPIKey(t *testing.T) {
	cfg := oddsAPIConfig(closedServerURL(t))
	cfg.APIKey = "SUPERSECRETKEY"

	httpCfg := fastHTTPConfig()
	httpCfg.MaxRetries = 0
	client := NewTheOddsAPIClient(NewRateLimitedHTTPClient(httpCfg, testLogger()), cfg, testLogger())

	_, err := client.FetchQuotes(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrCodeNetworkError, ErrorCode(err))
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")
	assert.Contains(t, err.Error(), "apiKey="+RedactedValue)
}

func TestRateLimitedHTTPClientLogsRedactedURL(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	httpCfg := fastHTTPConfig()
	httpCfg.MaxRetries = 1
	client := NewRateLimitedHTTPClient(httpCfg, log)

	_, err := client.Get(context.Background(), closedServerURL(t)+"/odds?apiKey=SUPERSECRETKEY&regions=us")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY")

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		for key, value := range entry.Data {
			assert.NotContains(t, fmt.Sprint(value), "SUPERSECRETKEY", "field %s", key)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://host/odds?apiKey=abc&regions=us", "https://host/odds?apiKey=REDACTED&regions=us"},
		{"https://host/odds?regions=us&api_key=abc", "https://host/odds?regions=us&api_key=REDACTED"},
		{`Get "https://host/x?token=t0k": refused`, `Get "https://host/x?token=REDACTED": refused`},
		{"https://host/odds?bookmakers=draftkings", "https://host/odds?bookmakers=draftkings"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactSecrets(tt.in))
	}
}

func TestRateLimitedHTTPClientRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger())
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.False(t, client.IsOpen())
}

func TestRateLimitedHTTPClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(fastHTTPConfig(), testLogger())
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRateLimitedHTTPClientCircuitBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := fastHTTPConfig()
	cfg.MaxRetries = 0
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	for i := 0; i < cfg.CircuitBreakerMax; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.True(t, client.IsOpen())
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestRateLimitedHTTPClientHonoursContext(t *testing.T) {
	cfg := fastHTTPConfig()
	cfg.RateLimit = 0.001
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	// first request consumes the single burst token
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestFileSourceFetchQuotes(t *testing.T) {
	source := NewFileSource(mlbOddsFixture, "baseball_mlb", testLogger())

	assert.Equal(t, "file", source.Name())
	assert.True(t, source.IsEnabled())

	quotes, err := source.FetchQuotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, quotes, 6)

	// first bookmaker wins
	redSox := findQuote(quotes, "Boston Red Sox", models.MarketTypeMoneyline)
	require.NotNil(t, redSox)
	assert.Equal(t, 120, redSox.Odds)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource("testdata/missing.json", "baseball_mlb", testLogger()).FetchQuotes(context.Background())
	assert.Equal(t, ErrCodeNotFound, ErrorCode(err))

	_, err = NewFileSource("", "baseball_mlb", testLogger()).FetchQuotes(context.Background())
	assert.ErrorIs(t, err, ErrSourceDisabled)

	bad := t.TempDir() + "/bad.json"
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = NewFileSource(bad, "baseball_mlb", testLogger()).FetchQuotes(context.Background())
	assert.Equal(t, ErrCodeInvalidData, ErrorCode(err))
}

func TestQuoteNormalizerKeepsZeroOdds(t *testing.T) {
	events := []OddsEvent{{
		ID:       "evt",
		HomeTeam: "Home",
		AwayTeam: "Away",
		Bookmakers: []OddsBookmaker{{
			Key: "book",
			Markets: []OddsMarket{{
				Key: "h2h",
				Outcomes: []OddsOutcome{
					{Name: "Home", Price: 0},
					{Name: "", Price: 150},
				},
			}},
		}},
	}}

	quotes := NewQuoteNormalizer(nil).Normalize(events)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Home", quotes[0].Selection)
	assert.Equal(t, "Away", quotes[0].Opponent)
	assert.Equal(t, 0, quotes[0].Odds)
}

func TestFactory(t *testing.T) {
	cfg := &config.Config{OddsAPI: oddsAPIConfig("https://api.the-odds-api.com/v4")}
	factory := NewFactory(cfg, testLogger())

	source, err := factory.NewOddsSource()
	require.NoError(t, err)
	assert.Equal(t, "the_odds_api", source.Name())

	_, err = factory.Create(FileSourceType)
	assert.Error(t, err)

	cfg.OddsAPI.QuotesFile = mlbOddsFixture
	source, err = factory.Create(FileSourceType)
	require.NoError(t, err)
	assert.Equal(t, "file", source.Name())

	_, err = factory.Create(SourceType("pinnacle"))
	assert.Error(t, err)
}

func TestDataSourceErrorFormatting(t *testing.T) {
	err := NewDataSourceError("the_odds_api", ErrCodeNetworkError, "failed to fetch odds", errors.New("dial tcp"))
	assert.Equal(t, "the_odds_api: network_error: failed to fetch odds (dial tcp)", err.Error())
	assert.True(t, errors.Is(err, ErrNetworkError))
	assert.Equal(t, ErrCodeUnknown, ErrorCode(errors.New("plain")))
}
