package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfidenceTier is an ordered confidence band derived from the Kelly fraction
type ConfidenceTier string

const (
	ConfidenceLow    ConfidenceTier = "Low"
	ConfidenceMedium ConfidenceTier = "Medium"
	ConfidenceHigh   ConfidenceTier = "High"
)

// Rank orders tiers so that High > Medium > Low
func (c ConfidenceTier) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Evaluation is the staking verdict for a single quote
type Evaluation struct {
	Selection      string         `json:"selection"`
	Opponent       string         `json:"opponent"`
	Market         MarketType     `json:"market"`
	Odds           int            `json:"odds"`
	Point          *float64       `json:"point,omitempty"`
	Bookmaker      string         `json:"bookmaker,omitempty"`
	ImpliedProb    float64        `json:"implied_prob" validate:"gte=0,lte=1"`
	ModelProb      float64        `json:"model_prob" validate:"gte=0,lte=1"`
	ExpectedValue  float64        `json:"expected_value"`
	KellyFraction  float64        `json:"kelly_fraction" validate:"gte=0,lte=1"`
	KellyStake     float64        `json:"kelly_stake" validate:"gte=0"`
	Confidence     ConfidenceTier `json:"confidence_tier"`
	Recommendation string         `json:"recommendation_text"`
}

// IsBet returns true when the evaluation recommends a positive stake
func (e *Evaluation) IsBet() bool {
	return e.KellyStake > 0
}

// Board is one ranked set of evaluations produced from a single fetch cycle
type Board struct {
	ID            uuid.UUID    `json:"id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Bankroll      float64      `json:"bankroll"`
	MinEdge       float64      `json:"min_edge"`
	QuotesSeen    int          `json:"quotes_seen"`
	QuotesSkipped int          `json:"quotes_skipped"`
	Evaluations   []Evaluation `json:"evaluations"`
	FetchError    string       `json:"fetch_error,omitempty"`
}

// NewBoard creates an empty board for the given staking parameters
func NewBoard(bankroll, minEdge float64) *Board {
	return &Board{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Bankroll:    bankroll,
		MinEdge:     minEdge,
		Evaluations: []Evaluation{},
	}
}

// IsEmpty returns true when the board holds no evaluations
func (b *Board) IsEmpty() bool {
	return len(b.Evaluations) == 0
}

// TotalStake sums the recommended stakes on the board
func (b *Board) TotalStake() float64 {
	total := 0.0
	for _, e := range b.Evaluations {
		total += e.KellyStake
	}
	return total
}
