// Package ml provides gRPC client for the probability model service.
package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/yourusername/kelly-board/internal/config"
	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

const (
	grpcModelType       = "grpc"
	defaultModelVersion = "latest"
)

// GRPCEstimator estimates win probabilities by calling the remote model service
type GRPCEstimator struct {
	conn         *grpc.ClientConn
	modelVersion string
	timeout      time.Duration
	logger       *logger.ModelLogger
}

// NewGRPCEstimator creates a model service client. Extra dial options are
// appended after the defaults, which lets tests supply a bufconn dialer.
func NewGRPCEstimator(cfg config.ModelServiceConfig, log *logrus.Logger, opts ...grpc.DialOption) (*GRPCEstimator, error) {
	if cfg.GRPCAddress == "" {
		return nil, fmt.Errorf("%w: grpc address is required", ErrConnectionFailed)
	}

	creds := grpc.WithTransportCredentials(insecure.NewCredentials())
	if !cfg.Insecure {
		creds = grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(nil, ""))
	}

	connectParams := grpc.ConnectParams{
		Backoff: backoff.Config{
			BaseDelay:  1 * time.Second,
			Multiplier: 1.6,
			Jitter:     0.2,
			MaxDelay:   5 * time.Second,
		},
		MinConnectTimeout: 10 * time.Second,
	}

	keepAlive := keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             10 * time.Second,
		PermitWithoutStream: true,
	}

	dialOpts := append([]grpc.DialOption{
		creds,
		grpc.WithConnectParams(connectParams),
		grpc.WithKeepaliveParams(keepAlive),
	}, opts...)

	modelLogger := logger.NewModelLogger(log)

	conn, err := grpc.NewClient(cfg.GRPCAddress, dialOpts...)
	if err != nil {
		modelLogger.WithError(err).Error("Failed to create model service client")
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	version := cfg.ModelVersion
	if version == "" {
		version = defaultModelVersion
	}

	modelLogger.WithField("address", cfg.GRPCAddress).Info("Model service client created")

	return &GRPCEstimator{
		conn:         conn,
		modelVersion: version,
		timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:       modelLogger,
	}, nil
}

// Name returns the estimator name
func (e *GRPCEstimator) Name() string {
	return "model"
}

// ModelVersion returns the model version requested from the service
func (e *GRPCEstimator) ModelVersion() string {
	return e.modelVersion
}

// Estimate returns the model probability for quote
func (e *GRPCEstimator) Estimate(ctx context.Context, quote models.Quote, impliedProb float64) (float64, error) {
	result, err := e.Predict(ctx, quote, impliedProb)
	if err != nil {
		return 0, err
	}
	return result.Probability, nil
}

// Predict calls the model service for a single quote
func (e *GRPCEstimator) Predict(ctx context.Context, quote models.Quote, impliedProb float64) (*PredictionResult, error) {
	start := time.Now()
	defer func() {
		MLPredictionLatency.WithLabelValues(grpcModelType).Observe(time.Since(start).Seconds())
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := e.buildRequest(quote, impliedProb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	resp := new(structpb.Struct)
	if err := e.conn.Invoke(ctx, PredictMethod, req, resp); err != nil {
		MLGRPCErrorsTotal.WithLabelValues("Predict", status.Code(err).String()).Inc()
		e.logger.LogPredictionFailed(e.modelVersion, quote.Selection, err)
		return nil, classifyRPCError(err)
	}

	result, err := e.parseResponse(quote, resp)
	if err != nil {
		MLGRPCErrorsTotal.WithLabelValues("Predict", "invalid_response").Inc()
		e.logger.LogPredictionFailed(e.modelVersion, quote.Selection, err)
		return nil, err
	}

	MLPredictionsTotal.WithLabelValues(grpcModelType, "false").Inc()
	e.logger.LogPredictionRequest(result.ModelVersion, quote.Selection, false, float64(time.Since(start).Milliseconds()))
	return result, nil
}

// Close closes the underlying connection
func (e *GRPCEstimator) Close() error {
	return e.conn.Close()
}

func (e *GRPCEstimator) buildRequest(quote models.Quote, impliedProb float64) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		fieldSelection:    quote.Selection,
		fieldOpponent:     quote.Opponent,
		fieldMarket:       string(quote.Market),
		fieldOdds:         quote.Odds,
		fieldImpliedProb:  impliedProb,
		fieldEventID:      quote.EventID,
		fieldModelVersion: e.modelVersion,
	}
	if quote.Point != nil {
		fields[fieldPoint] = *quote.Point
	}
	return structpb.NewStruct(fields)
}

func (e *GRPCEstimator) parseResponse(quote models.Quote, resp *structpb.Struct) (*PredictionResult, error) {
	probValue, ok := resp.GetFields()[fieldProbability]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidPrediction, fieldProbability)
	}
	numberValue, ok := probValue.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidPrediction, fieldProbability)
	}
	probability := numberValue.NumberValue
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, fmt.Errorf("%w: probability %v out of range", ErrInvalidPrediction, probability)
	}

	version := e.modelVersion
	if v := resp.GetFields()[fieldModelVersion].GetStringValue(); v != "" {
		version = v
	}

	return &PredictionResult{
		Selection:    quote.Selection,
		Opponent:     quote.Opponent,
		Market:       string(quote.Market),
		Probability:  probability,
		Confidence:   resp.GetFields()[fieldConfidence].GetNumberValue(),
		ModelVersion: version,
		PredictedAt:  time.Now(),
	}, nil
}

// classifyRPCError maps gRPC status codes onto package errors
func classifyRPCError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if status.Code(err) == codes.Unavailable {
		return fmt.Errorf("%w: %v", ErrMLServiceUnavailable, err)
	}
	return fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
}
