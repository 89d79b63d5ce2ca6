package strategy

import (
	"fmt"
	"math"
)

// Default probability band applied to model estimates
const (
	DefaultMinProbability = 0.05
	DefaultMaxProbability = 0.95
)

// ProbabilityBand bounds model probabilities so that no estimate is treated as certain
type ProbabilityBand struct {
	Min float64
	Max float64
}

// DefaultBand returns the [0.05, 0.95] band
func DefaultBand() ProbabilityBand {
	return ProbabilityBand{Min: DefaultMinProbability, Max: DefaultMaxProbability}
}

// Validate ensures 0 <= Min < Max <= 1
func (b ProbabilityBand) Validate() error {
	if b.Min < 0 || b.Max > 1 {
		return fmt.Errorf("probability band [%.2f, %.2f] must lie within [0, 1]", b.Min, b.Max)
	}
	if b.Min >= b.Max {
		return fmt.Errorf("probability band min %.2f must be below max %.2f", b.Min, b.Max)
	}
	return nil
}

// Clamp ensures p in [Min, Max]
func (b ProbabilityBand) Clamp(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, -1) {
		return b.Min
	}
	if math.IsInf(p, 1) {
		return b.Max
	}
	if p < b.Min {
		return b.Min
	}
	if p > b.Max {
		return b.Max
	}
	return p
}
