// Package ml provides caching for model predictions.
package ml

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/kelly-board/internal/models"
)

// PredictionResult is a model probability for one quote
type PredictionResult struct {
	Selection    string    `json:"selection"`
	Opponent     string    `json:"opponent"`
	Market       string    `json:"market"`
	Probability  float64   `json:"probability"`
	Confidence   float64   `json:"confidence"`
	ModelVersion string    `json:"model_version"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// CacheKey represents a unique key for caching predictions
type CacheKey struct {
	Line         string // selection|opponent|market
	Odds         int
	ModelVersion string
}

// NewCacheKey builds the cache key for a quote. The odds are part of the key
// because the model sees the implied probability.
func NewCacheKey(quote models.Quote, modelVersion string) CacheKey {
	return CacheKey{
		Line:         quote.Key(),
		Odds:         quote.Odds,
		ModelVersion: modelVersion,
	}
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%s", k.Line, k.Odds, k.ModelVersion)
}

// PredictionCache provides in-memory caching for model predictions
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache. maxSize <= 0 means unbounded.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction
func (pc *PredictionCache) Get(ctx context.Context, key CacheKey) *PredictionResult {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(*PredictionResult); ok {
			pc.hitCount++
			pc.updateMetrics()
			return pred
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return nil
}

// Set stores a prediction in cache. When full, expired entries are purged
// first and the write is dropped if the cache is still full.
func (pc *PredictionCache) Set(ctx context.Context, key CacheKey, prediction *PredictionResult) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return false
		}
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
	return true
}

// InvalidateModelVersion removes all cache entries produced by a model version
func (pc *PredictionCache) InvalidateModelVersion(ctx context.Context, modelVersion string) int {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	suffix := ":" + modelVersion
	removed := 0
	for k := range pc.cache.Items() {
		if strings.HasSuffix(k, suffix) {
			pc.cache.Delete(k)
			removed++
		}
	}
	return removed
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.statsLocked()
}

func (pc *PredictionCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics; callers hold mu
func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.statsLocked()
	MLCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
