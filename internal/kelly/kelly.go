package kelly

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/kelly-board/internal/models"
)

// KellyFraction returns the bankroll fraction maximising log growth for a bet at
// the given American odds with win probability modelProb. Negative edges clamp to 0.
func KellyFraction(modelProb float64, odds int) (float64, error) {
	b, err := NetOdds(odds)
	if err != nil {
		return 0, err
	}

	p := ClampProbability(modelProb, 0, 1)
	q := 1.0 - p
	f := (p*b - q) / b
	if f < 0 {
		return 0, nil
	}
	return f, nil
}

// KellyStake sizes a full-Kelly stake against bankroll, rounded to cents
func KellyStake(modelProb float64, odds int, bankroll float64) (float64, error) {
	if bankroll < 0 {
		return 0, fmt.Errorf("%w: %.2f", models.ErrInvalidBankroll, bankroll)
	}
	f, err := KellyFraction(modelProb, odds)
	if err != nil {
		return 0, err
	}
	return RoundCurrency(f * bankroll), nil
}

// Sizing scales a full-Kelly fraction before it is staked
type Sizing struct {
	Multiplier  float64 // fractional Kelly, e.g. 0.5 for half Kelly
	MaxFraction float64 // cap on the staked fraction of bankroll; 0 disables
}

// FullKelly stakes the unscaled Kelly fraction
func FullKelly() Sizing {
	return Sizing{Multiplier: 1, MaxFraction: 1}
}

// Apply returns the fraction of bankroll to stake for a full-Kelly fraction f.
// The result never exceeds the whole bankroll.
func (s Sizing) Apply(f float64) float64 {
	m := s.Multiplier
	if m <= 0 {
		m = 1
	}
	f *= m
	if s.MaxFraction > 0 && f > s.MaxFraction {
		f = s.MaxFraction
	}
	return math.Min(f, 1)
}

// RoundCurrency rounds an amount to two decimal places, half away from zero
func RoundCurrency(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// RoundFraction rounds a fraction to four decimal places for display
func RoundFraction(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(4).Float64()
	return v
}
