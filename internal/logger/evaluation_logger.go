package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/models"
)

// EvaluationLogger provides dedicated logging for staking evaluations.
type EvaluationLogger struct {
	*logrus.Entry
}

// NewEvaluationLogger creates a new evaluation logger.
func NewEvaluationLogger(baseLogger *logrus.Logger) *EvaluationLogger {
	return &EvaluationLogger{
		Entry: orStandard(baseLogger).WithField("component", "evaluation"),
	}
}

// LogBoardGenerated logs a completed board.
func (el *EvaluationLogger) LogBoardGenerated(board *models.Board, estimator string, durationMs float64) {
	el.WithFields(logrus.Fields{
		"board_id":       board.ID.String(),
		"estimator":      estimator,
		"bankroll":       board.Bankroll,
		"min_edge":       board.MinEdge,
		"quotes_seen":    board.QuotesSeen,
		"quotes_skipped": board.QuotesSkipped,
		"recommended":    len(board.Evaluations),
		"total_stake":    board.TotalStake(),
		"duration_ms":    durationMs,
	}).Info("Board generated")
}

// LogQuoteSkipped logs a quote dropped from evaluation.
func (el *EvaluationLogger) LogQuoteSkipped(quote models.Quote, err error) {
	el.WithFields(logrus.Fields{
		"selection": quote.Selection,
		"opponent":  quote.Opponent,
		"market":    quote.Market,
		"odds":      quote.Odds,
		"bookmaker": quote.Bookmaker,
	}).WithError(err).Warn("Quote skipped")
}

// LogRecommendation logs a single evaluation that survived the edge filter.
func (el *EvaluationLogger) LogRecommendation(eval models.Evaluation) {
	el.WithFields(logrus.Fields{
		"selection":      eval.Selection,
		"opponent":       eval.Opponent,
		"market":         eval.Market,
		"odds":           eval.Odds,
		"implied_prob":   eval.ImpliedProb,
		"model_prob":     eval.ModelProb,
		"expected_value": eval.ExpectedValue,
		"kelly_fraction": eval.KellyFraction,
		"kelly_stake":    eval.KellyStake,
		"confidence":     eval.Confidence,
	}).Debug("Recommendation")
}
