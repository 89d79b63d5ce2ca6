// Package kelly implements the staking engine: American odds conversion,
// Kelly criterion sizing, confidence tiering and recommendation ranking.
package kelly

import (
	"fmt"
	"math"

	"github.com/yourusername/kelly-board/internal/models"
)

// ImpliedProbability converts American odds to the probability the price implies.
// The result is always in (0,1).
func ImpliedProbability(odds int) (float64, error) {
	switch {
	case odds > 0:
		return 100.0 / (float64(odds) + 100.0), nil
	case odds < 0:
		abs := math.Abs(float64(odds))
		return abs / (abs + 100.0), nil
	default:
		return 0, fmt.Errorf("%w: %d", models.ErrInvalidOdds, odds)
	}
}

// DecimalOdds converts American odds to decimal odds (total return per unit staked)
func DecimalOdds(odds int) (float64, error) {
	switch {
	case odds > 0:
		return float64(odds)/100.0 + 1.0, nil
	case odds < 0:
		return 100.0/math.Abs(float64(odds)) + 1.0, nil
	default:
		return 0, fmt.Errorf("%w: %d", models.ErrInvalidOdds, odds)
	}
}

// NetOdds returns b, the net fractional payout per unit staked
func NetOdds(odds int) (float64, error) {
	dec, err := DecimalOdds(odds)
	if err != nil {
		return 0, err
	}
	b := dec - 1.0
	if b == 0 {
		return 0, fmt.Errorf("%w: zero payout for %d", models.ErrInvalidOdds, odds)
	}
	return b, nil
}

// ExpectedValue is the edge of the model over the market
func ExpectedValue(modelProb, impliedProb float64) float64 {
	return modelProb - impliedProb
}

// ClampProbability bounds p to [lo, hi]. NaN maps to lo.
func ClampProbability(p, lo, hi float64) float64 {
	if math.IsNaN(p) {
		return lo
	}
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
