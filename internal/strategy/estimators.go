package strategy

import (
	"context"
	"math/rand"
	"sync"

	"github.com/yourusername/kelly-board/internal/models"
)

// DefaultModelOffset is the fixed edge the offset estimator adds to the market price
const DefaultModelOffset = 0.15

// OffsetEstimator models the win probability as the implied probability plus a fixed offset
type OffsetEstimator struct {
	Offset float64
	Band   ProbabilityBand
}

// NewOffsetEstimator creates an offset estimator clamped to band
func NewOffsetEstimator(offset float64, band ProbabilityBand) *OffsetEstimator {
	return &OffsetEstimator{Offset: offset, Band: band}
}

// Name returns estimator name
func (e *OffsetEstimator) Name() string {
	return "offset"
}

// Estimate returns impliedProb + Offset
func (e *OffsetEstimator) Estimate(_ context.Context, _ models.Quote, impliedProb float64) (float64, error) {
	return e.Band.Clamp(impliedProb + e.Offset), nil
}

// SimulatedEstimator perturbs the implied probability by a uniform random amount
// in [-Spread, +Spread]. A fixed seed makes runs reproducible.
type SimulatedEstimator struct {
	Spread float64
	Band   ProbabilityBand

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedEstimator creates a simulated estimator seeded with seed
func NewSimulatedEstimator(spread float64, seed int64, band ProbabilityBand) *SimulatedEstimator {
	return &SimulatedEstimator{
		Spread: spread,
		Band:   band,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Name returns estimator name
func (e *SimulatedEstimator) Name() string {
	return "simulated"
}

// Estimate draws a perturbed probability
func (e *SimulatedEstimator) Estimate(_ context.Context, _ models.Quote, impliedProb float64) (float64, error) {
	e.mu.Lock()
	delta := (e.rng.Float64()*2 - 1) * e.Spread
	e.mu.Unlock()
	return e.Band.Clamp(impliedProb + delta), nil
}

// StaticEstimator returns preset probabilities keyed by selection, falling back
// to the implied probability (zero edge) for unknown selections
type StaticEstimator struct {
	Probabilities map[string]float64
	Band          ProbabilityBand
}

// Name returns estimator name
func (e *StaticEstimator) Name() string {
	return "static"
}

// Estimate looks up the selection
func (e *StaticEstimator) Estimate(_ context.Context, quote models.Quote, impliedProb float64) (float64, error) {
	if p, ok := e.Probabilities[quote.Selection]; ok {
		return e.Band.Clamp(p), nil
	}
	return e.Band.Clamp(impliedProb), nil
}
