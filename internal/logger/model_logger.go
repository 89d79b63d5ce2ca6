package logger

import (
	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for probability model calls.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: orStandard(baseLogger).WithField("component", "model"),
	}
}

// LogPredictionRequest logs a model prediction request.
func (ml *ModelLogger) LogPredictionRequest(modelVersion, selection string, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"selection":     selection,
		"cache_hit":     cacheHit,
		"latency_ms":    latencyMs,
	}).Debug("Model prediction request completed")
}

// LogPredictionFailed logs a failed model call.
func (ml *ModelLogger) LogPredictionFailed(modelVersion, selection string, err error) {
	ml.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"selection":     selection,
	}).WithError(err).Warn("Model prediction failed")
}
