package strategy

import (
	"context"

	"github.com/yourusername/kelly-board/internal/models"
)

// ProbabilityEstimator supplies the model's win probability for a quote.
// Implementations range from deterministic heuristics to a remote model service.
type ProbabilityEstimator interface {
	Name() string
	Estimate(ctx context.Context, quote models.Quote, impliedProb float64) (float64, error)
}

// Strategy turns a set of quotes into a ranked board
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, quotes []models.Quote) (*models.Board, error)
	GetParameters() map[string]interface{}
}

// EstimatorFunc adapts a plain function to ProbabilityEstimator
type EstimatorFunc func(ctx context.Context, quote models.Quote, impliedProb float64) (float64, error)

// Name returns the adapter name
func (f EstimatorFunc) Name() string {
	return "func"
}

// Estimate calls f
func (f EstimatorFunc) Estimate(ctx context.Context, quote models.Quote, impliedProb float64) (float64, error) {
	return f(ctx, quote, impliedProb)
}
