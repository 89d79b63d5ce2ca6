package datasource

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

const fileSourceName = "file"

// FileSource implements OddsSource over a saved The Odds API response
type FileSource struct {
	path       string
	sport      string
	normalizer *QuoteNormalizer
	logger     *logger.FetchLogger
}

// NewFileSource creates a source reading events from path
func NewFileSource(path, sport string, log *logrus.Logger) *FileSource {
	fetchLogger := logger.NewFetchLogger(log)
	return &FileSource{
		path:       path,
		sport:      sport,
		normalizer: NewQuoteNormalizer(fetchLogger),
		logger:     fetchLogger,
	}
}

// FetchQuotes reads and normalizes the file on every call
func (s *FileSource) FetchQuotes(ctx context.Context) ([]models.Quote, error) {
	if !s.IsEnabled() {
		return nil, NewDataSourceError(fileSourceName, ErrCodeDisabled, dataSourceDisabledMsg, nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewDataSourceError(fileSourceName, ErrCodeNotFound, "quotes file not found", err)
		}
		return nil, NewDataSourceError(fileSourceName, ErrCodeUnknown, "failed to read quotes file", err)
	}

	var events []OddsEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, NewDataSourceError(fileSourceName, ErrCodeInvalidData, "failed to parse quotes file", err)
	}

	quotes := s.normalizer.Normalize(events)
	s.logger.LogFetchCompleted(fileSourceName, s.sport, len(events), len(quotes), "", float64(time.Since(start).Milliseconds()))

	return quotes, nil
}

// Name returns the data source name
func (s *FileSource) Name() string {
	return fileSourceName
}

// IsEnabled returns whether a path is configured
func (s *FileSource) IsEnabled() bool {
	return s.path != ""
}
