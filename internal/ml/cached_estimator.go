// Package ml provides a caching probability estimator.
package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

// Predictor is the remote model contract the cache wraps
type Predictor interface {
	Name() string
	ModelVersion() string
	Predict(ctx context.Context, quote models.Quote, impliedProb float64) (*PredictionResult, error)
}

// CachedEstimator wraps a Predictor with prediction caching
type CachedEstimator struct {
	predictor Predictor
	cache     *PredictionCache
	logger    *logger.ModelLogger
}

// NewCachedEstimator creates a new cached estimator
func NewCachedEstimator(predictor Predictor, ttl time.Duration, maxSize int, log *logrus.Logger) *CachedEstimator {
	return &CachedEstimator{
		predictor: predictor,
		cache:     NewPredictionCache(ttl, maxSize),
		logger:    logger.NewModelLogger(log),
	}
}

// Name returns the wrapped estimator name
func (c *CachedEstimator) Name() string {
	return c.predictor.Name()
}

// Predictor returns the wrapped predictor
func (c *CachedEstimator) Predictor() Predictor {
	return c.predictor
}

// Cache exposes the underlying cache
func (c *CachedEstimator) Cache() *PredictionCache {
	return c.cache
}

// Estimate returns a cached probability or fetches one from the predictor
func (c *CachedEstimator) Estimate(ctx context.Context, quote models.Quote, impliedProb float64) (float64, error) {
	cacheKey := NewCacheKey(quote, c.predictor.ModelVersion())

	if cached := c.cache.Get(ctx, cacheKey); cached != nil {
		c.logger.LogPredictionRequest(cached.ModelVersion, quote.Selection, true, 0)
		MLPredictionsTotal.WithLabelValues("cached", "true").Inc()
		return cached.Probability, nil
	}

	result, err := c.predictor.Predict(ctx, quote, impliedProb)
	if err != nil {
		return 0, err
	}

	if !c.cache.Set(ctx, cacheKey, result) {
		c.logger.WithField("cache_key", cacheKey.String()).Debug("Prediction cache full")
	}

	return result.Probability, nil
}
