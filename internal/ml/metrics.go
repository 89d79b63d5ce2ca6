// Package ml provides Prometheus metrics for model predictions.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MLPredictionsTotal tracks total model predictions
	MLPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kelly_board",
			Name:      "model_predictions_total",
			Help:      "Total number of model probability predictions served",
		},
		[]string{"model_type", "cache_hit"},
	)

	// MLPredictionLatency tracks model prediction latency
	MLPredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kelly_board",
			Name:      "model_prediction_latency_seconds",
			Help:      "Model prediction latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model_type"},
	)

	// MLCacheHitRatio tracks cache hit ratio
	MLCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kelly_board",
			Name:      "model_cache_hit_ratio",
			Help:      "Model prediction cache hit ratio",
		},
	)

	// MLGRPCErrorsTotal tracks gRPC errors
	MLGRPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kelly_board",
			Name:      "model_grpc_errors_total",
			Help:      "Total number of gRPC errors",
		},
		[]string{"method", "error_type"},
	)
)
