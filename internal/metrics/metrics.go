// Package metrics provides centralized Prometheus metrics registry for the Kelly board.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kelly_board",
		Name:      "odds_fetches_total",
		Help:      "Total number of odds fetches by source and outcome",
	}, []string{"source", "outcome"})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kelly_board",
		Name:      "odds_fetch_errors_total",
		Help:      "Total number of failed odds fetches by error code",
	}, []string{"source", "code"})
	QuotesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kelly_board",
		Name:      "quotes_skipped_total",
		Help:      "Total number of quotes skipped for invalid odds or estimator failures",
	})
	BoardsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kelly_board",
		Name:      "boards_generated_total",
		Help:      "Total number of boards published",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kelly_board",
		Name:      "recommendations_total",
		Help:      "Total number of bet recommendations by confidence tier",
	}, []string{"confidence"})
)

// Gauge metrics
var (
	BoardSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kelly_board",
		Name:      "board_size",
		Help:      "Number of evaluations on the latest board",
	})
	BoardTotalStake = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kelly_board",
		Name:      "board_total_stake",
		Help:      "Sum of recommended stakes on the latest board",
	})
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kelly_board",
		Name:      "current_bankroll",
		Help:      "Bankroll used for the latest board",
	})
	LastRefreshTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kelly_board",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the latest board refresh",
	})
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kelly_board",
		Name:      "stream_clients",
		Help:      "Number of connected board stream clients",
	})
)

// Histogram metrics
var (
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kelly_board",
		Name:      "odds_fetch_duration_seconds",
		Help:      "Duration of odds fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	EvaluationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kelly_board",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of board evaluation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	KellyFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kelly_board",
		Name:      "kelly_fraction",
		Help:      "Kelly fractions of published recommendations",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(FetchesTotal)
		registry.MustRegister(FetchErrorsTotal)
		registry.MustRegister(QuotesSkippedTotal)
		registry.MustRegister(BoardsGeneratedTotal)
		registry.MustRegister(RecommendationsTotal)

		// Register gauge metrics
		registry.MustRegister(BoardSize)
		registry.MustRegister(BoardTotalStake)
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(LastRefreshTimestamp)
		registry.MustRegister(StreamClients)

		// Register histogram metrics
		registry.MustRegister(FetchDuration)
		registry.MustRegister(EvaluationDuration)
		registry.MustRegister(KellyFraction)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also serves the default
// registry, where model prediction metrics live.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}
