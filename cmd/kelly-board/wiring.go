package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/kelly-board/internal/config"
	"github.com/yourusername/kelly-board/internal/datasource"
	"github.com/yourusername/kelly-board/internal/ml"
	"github.com/yourusername/kelly-board/internal/service"
	"github.com/yourusername/kelly-board/internal/strategy"
)

// closer is implemented by estimators holding a connection
type closer interface {
	Close() error
}

// probabilityBand reads the estimator band from configuration
func probabilityBand(cfg *config.Config) strategy.ProbabilityBand {
	return strategy.ProbabilityBand{
		Min: cfg.Estimator.MinProbability,
		Max: cfg.Estimator.MaxProbability,
	}
}

// buildEstimator creates the probability estimator selected by estimator.type
func buildEstimator(cfg *config.Config, log *logrus.Logger) (strategy.ProbabilityEstimator, error) {
	band := probabilityBand(cfg)

	switch cfg.Estimator.Type {
	case "offset":
		return strategy.NewOffsetEstimator(cfg.Estimator.Offset, band), nil
	case "simulated":
		return strategy.NewSimulatedEstimator(cfg.Estimator.Spread, cfg.Estimator.Seed, band), nil
	case "model":
		client, err := ml.NewGRPCEstimator(cfg.ModelService, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
		return ml.NewCachedEstimator(client, cfg.ModelCacheTTL(), cfg.ModelService.CacheMaxSize, log), nil
	default:
		return nil, fmt.Errorf("unknown estimator type: %s", cfg.Estimator.Type)
	}
}

// buildStrategy creates the Kelly value strategy from the engine settings
func buildStrategy(cfg *config.Config, estimator strategy.ProbabilityEstimator, log *logrus.Logger) (*strategy.KellyValueStrategy, error) {
	return strategy.NewKellyValueStrategy(strategy.Config{
		Bankroll:         cfg.Engine.Bankroll,
		MinEdge:          cfg.Engine.MinEdge,
		KellyMultiplier:  cfg.Engine.KellyMultiplier,
		MaxStakeFraction: cfg.Engine.MaxStakeFraction,
		Band:             probabilityBand(cfg),
	}, estimator, log)
}

// app bundles the collaborators shared by the board and serve commands
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	estimator strategy.ProbabilityEstimator
	strategy  *strategy.KellyValueStrategy
	source    datasource.OddsSource
	service   *service.BoardService
	closers   []closer
}

// newApp wires source, estimator, strategy and board service
func newApp(cfg *config.Config, log *logrus.Logger) (*app, error) {
	estimator, err := buildEstimator(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, estimator: estimator}
	if c, ok := estimator.(*ml.CachedEstimator); ok {
		if inner, ok := c.Predictor().(closer); ok {
			a.closers = append(a.closers, inner)
		}
	}

	a.strategy, err = buildStrategy(cfg, estimator, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create strategy: %w", err)
	}

	a.source, err = datasource.NewFactory(cfg, log).NewOddsSource()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create odds source: %w", err)
	}
	if c, ok := a.source.(closer); ok {
		a.closers = append(a.closers, c)
	}

	if err := a.rebuildService(a.strategy); err != nil {
		a.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"source":    a.source.Name(),
		"estimator": estimator.Name(),
		"bankroll":  cfg.Engine.Bankroll,
		"min_edge":  cfg.Engine.MinEdge,
	}).Info("Kelly board wired")

	return a, nil
}

// rebuildService swaps the strategy behind the board service
func (a *app) rebuildService(strat strategy.Strategy) error {
	svc, err := service.NewBoardService(a.source, strat, a.log)
	if err != nil {
		return fmt.Errorf("failed to create board service: %w", err)
	}
	a.service = svc
	return nil
}

// Close releases connections held by the wired collaborators
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close collaborator")
		}
	}
	a.closers = nil
}
