// Package service orchestrates fetch, evaluation and publication of boards.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/datasource"
	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/metrics"
	"github.com/yourusername/kelly-board/internal/models"
	"github.com/yourusername/kelly-board/internal/strategy"
)

// ErrNoBoard is returned by readiness checks before the first refresh
var ErrNoBoard = errors.New("no board published yet")

// Publisher receives every board the service publishes
type Publisher interface {
	Publish(board *models.Board)
}

// BoardService fetches quotes, evaluates them and keeps the latest board
type BoardService struct {
	source      datasource.OddsSource
	strategy    strategy.Strategy
	fetchLogger *logger.FetchLogger
	logger      *logrus.Entry

	mu          sync.RWMutex
	latest      *models.Board
	lastRefresh time.Time
	lastErr     error
	publishers  []Publisher
}

// NewBoardService creates a new board service
func NewBoardService(source datasource.OddsSource, strat strategy.Strategy, log *logrus.Logger) (*BoardService, error) {
	if source == nil {
		return nil, fmt.Errorf("odds source is required")
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &BoardService{
		source:      source,
		strategy:    strat,
		fetchLogger: logger.NewFetchLogger(log),
		logger:      log.WithField("component", "board_service"),
	}, nil
}

// Subscribe registers a publisher for future boards
func (s *BoardService) Subscribe(p Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishers = append(s.publishers, p)
}

// Refresh runs one fetch cycle and publishes the resulting board. A failed
// fetch still publishes an empty board carrying the fetch error; the error is
// returned alongside it.
func (s *BoardService) Refresh(ctx context.Context) (*models.Board, error) {
	start := time.Now()

	quotes, fetchErr := s.source.FetchQuotes(ctx)
	if fetchErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.fetchLogger.LogFetchFailed(s.source.Name(), "", fetchErr)
		metrics.RecordFetchError(s.source.Name(), datasource.ErrorCode(fetchErr), time.Since(start))
		quotes = nil
	} else {
		metrics.RecordFetch(s.source.Name(), time.Since(start))
	}

	evalStart := time.Now()
	board, err := s.strategy.Evaluate(ctx, quotes)
	if err != nil {
		return nil, fmt.Errorf("evaluate board: %w", err)
	}
	metrics.RecordEvaluation(time.Since(evalStart))

	if fetchErr != nil {
		board.FetchError = fetchErr.Error()
		fetchErr = fmt.Errorf("fetch quotes from %s: %w", s.source.Name(), fetchErr)
	}

	s.publish(board, fetchErr)
	return board, fetchErr
}

func (s *BoardService) publish(board *models.Board, refreshErr error) {
	s.mu.Lock()
	s.latest = board
	s.lastRefresh = board.GeneratedAt
	s.lastErr = refreshErr
	publishers := append([]Publisher(nil), s.publishers...)
	s.mu.Unlock()

	metrics.RecordBoard(board)

	s.logger.WithFields(logrus.Fields{
		"board_id":    board.ID.String(),
		"evaluations": len(board.Evaluations),
		"fetch_error": board.FetchError,
	}).Debug("Board published")

	for _, p := range publishers {
		p.Publish(board)
	}
}

// Latest returns the most recently published board, or nil
func (s *BoardService) Latest() *models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// LastRefresh returns the time and error of the last refresh
func (s *BoardService) LastRefresh() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh, s.lastErr
}

// Name identifies the service in readiness checks
func (s *BoardService) Name() string {
	return "board"
}

// Check reports whether the last refresh produced a board from live data
func (s *BoardService) Check(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return ErrNoBoard
	}
	return s.lastErr
}
