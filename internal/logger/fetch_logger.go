package logger

import (
	"github.com/sirupsen/logrus"
)

// FetchLogger provides dedicated logging for odds fetch cycles.
type FetchLogger struct {
	*logrus.Entry
}

// NewFetchLogger creates a new fetch logger.
func NewFetchLogger(baseLogger *logrus.Logger) *FetchLogger {
	return &FetchLogger{
		Entry: orStandard(baseLogger).WithField("component", "fetch"),
	}
}

// LogFetchCompleted logs a successful fetch.
func (fl *FetchLogger) LogFetchCompleted(source, sport string, events, quotes int, requestsRemaining string, durationMs float64) {
	fl.WithFields(logrus.Fields{
		"source":             source,
		"sport":              sport,
		"events":             events,
		"quotes":             quotes,
		"requests_remaining": requestsRemaining,
		"duration_ms":        durationMs,
	}).Info("Odds fetch completed")
}

// LogFetchFailed logs a failed fetch. The board for the cycle will be empty.
func (fl *FetchLogger) LogFetchFailed(source, sport string, err error) {
	fl.WithFields(logrus.Fields{
		"source": source,
		"sport":  sport,
	}).WithError(err).Error("Odds fetch failed")
}

// LogDuplicateDropped logs a line already seen from an earlier bookmaker.
func (fl *FetchLogger) LogDuplicateDropped(key, bookmaker string) {
	fl.WithFields(logrus.Fields{
		"line":      key,
		"bookmaker": bookmaker,
	}).Debug("Duplicate line dropped")
}
