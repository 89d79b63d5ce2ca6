package metrics

import (
	"time"

	"github.com/yourusername/kelly-board/internal/models"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// RecordFetch records a successful odds fetch.
func RecordFetch(source string, duration time.Duration) {
	FetchesTotal.WithLabelValues(source, outcomeSuccess).Inc()
	FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFetchError records a failed odds fetch.
func RecordFetchError(source, code string, duration time.Duration) {
	FetchesTotal.WithLabelValues(source, outcomeFailure).Inc()
	FetchErrorsTotal.WithLabelValues(source, code).Inc()
	FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordEvaluation records the time spent evaluating a board.
func RecordEvaluation(duration time.Duration) {
	EvaluationDuration.Observe(duration.Seconds())
}

// RecordBoard updates the board gauges and recommendation counters.
func RecordBoard(board *models.Board) {
	if board == nil {
		return
	}

	BoardsGeneratedTotal.Inc()
	QuotesSkippedTotal.Add(float64(board.QuotesSkipped))
	BoardSize.Set(float64(len(board.Evaluations)))
	BoardTotalStake.Set(board.TotalStake())
	CurrentBankroll.Set(board.Bankroll)
	LastRefreshTimestamp.Set(float64(board.GeneratedAt.Unix()))

	for _, eval := range board.Evaluations {
		if !eval.IsBet() {
			continue
		}
		RecommendationsTotal.WithLabelValues(string(eval.Confidence)).Inc()
		KellyFraction.Observe(eval.KellyFraction)
	}
}

// UpdateStreamClients sets the connected stream client gauge.
func UpdateStreamClients(count int) {
	StreamClients.Set(float64(count))
}
