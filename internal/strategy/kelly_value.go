package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/kelly"
	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

// Config holds staking parameters for KellyValueStrategy
type Config struct {
	Bankroll         float64
	MinEdge          float64
	KellyMultiplier  float64
	MaxStakeFraction float64
	Band             ProbabilityBand
}

// DefaultConfig returns full Kelly on a 1000 bankroll with a 5% minimum edge
func DefaultConfig() Config {
	return Config{
		Bankroll:         1000,
		MinEdge:          0.05,
		KellyMultiplier:  1,
		MaxStakeFraction: 1,
		Band:             DefaultBand(),
	}
}

// KellyValueStrategy estimates a model probability per quote, sizes it with the
// Kelly criterion and keeps the lines whose edge clears MinEdge
type KellyValueStrategy struct {
	cfg       Config
	estimator ProbabilityEstimator
	logger    *logger.EvaluationLogger
}

// NewKellyValueStrategy creates a new Kelly value strategy
func NewKellyValueStrategy(cfg Config, estimator ProbabilityEstimator, log *logrus.Logger) (*KellyValueStrategy, error) {
	if estimator == nil {
		return nil, fmt.Errorf("probability estimator is required")
	}
	if cfg.Bankroll < 0 {
		return nil, fmt.Errorf("%w: %.2f", models.ErrInvalidBankroll, cfg.Bankroll)
	}
	if cfg.KellyMultiplier <= 0 || cfg.KellyMultiplier > 1 {
		return nil, fmt.Errorf("%w: kelly multiplier %.2f", models.ErrInvalidSizing, cfg.KellyMultiplier)
	}
	if cfg.MaxStakeFraction <= 0 || cfg.MaxStakeFraction > 1 {
		return nil, fmt.Errorf("%w: max stake fraction %.2f", models.ErrInvalidSizing, cfg.MaxStakeFraction)
	}
	if err := cfg.Band.Validate(); err != nil {
		return nil, err
	}
	return &KellyValueStrategy{
		cfg:       cfg,
		estimator: estimator,
		logger:    logger.NewEvaluationLogger(log),
	}, nil
}

// Name returns strategy name
func (s *KellyValueStrategy) Name() string {
	return "kelly_value"
}

// GetParameters returns strategy parameters for logging and display
func (s *KellyValueStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"bankroll":           s.cfg.Bankroll,
		"min_edge":           s.cfg.MinEdge,
		"kelly_multiplier":   s.cfg.KellyMultiplier,
		"max_stake_fraction": s.cfg.MaxStakeFraction,
		"min_probability":    s.cfg.Band.Min,
		"max_probability":    s.cfg.Band.Max,
		"estimator":          s.estimator.Name(),
	}
}

// WithStaking returns a copy of the strategy with a different bankroll and edge threshold
func (s *KellyValueStrategy) WithStaking(bankroll, minEdge float64) (*KellyValueStrategy, error) {
	if bankroll < 0 {
		return nil, fmt.Errorf("%w: %.2f", models.ErrInvalidBankroll, bankroll)
	}
	cp := *s
	cp.cfg.Bankroll = bankroll
	cp.cfg.MinEdge = minEdge
	return &cp, nil
}

// EvaluateQuote runs one quote through conversion, estimation and staking
func (s *KellyValueStrategy) EvaluateQuote(ctx context.Context, quote models.Quote) (models.Evaluation, error) {
	implied, err := kelly.ImpliedProbability(quote.Odds)
	if err != nil {
		return models.Evaluation{}, err
	}

	p, err := s.estimator.Estimate(ctx, quote, implied)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("estimate %s: %w", quote.Selection, err)
	}

	sizing := kelly.Sizing{Multiplier: s.cfg.KellyMultiplier, MaxFraction: s.cfg.MaxStakeFraction}
	return kelly.EvaluateWithSizing(quote, s.cfg.Band.Clamp(p), s.cfg.Bankroll, sizing)
}

// Evaluate builds a ranked board from quotes. Quotes that cannot be evaluated are
// skipped and counted; an empty quote set yields an empty board.
func (s *KellyValueStrategy) Evaluate(ctx context.Context, quotes []models.Quote) (*models.Board, error) {
	start := time.Now()
	board := models.NewBoard(s.cfg.Bankroll, s.cfg.MinEdge)
	board.QuotesSeen = len(quotes)

	evals := make([]models.Evaluation, 0, len(quotes))
	for _, quote := range quotes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eval, err := s.EvaluateQuote(ctx, quote)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			board.QuotesSkipped++
			s.logger.LogQuoteSkipped(quote, err)
			continue
		}
		evals = append(evals, eval)
	}

	board.Evaluations = kelly.FilterAndRank(evals, s.cfg.MinEdge)
	for _, eval := range board.Evaluations {
		s.logger.LogRecommendation(eval)
	}

	s.logger.LogBoardGenerated(board, s.estimator.Name(), float64(time.Since(start).Microseconds())/1000)
	return board, nil
}
