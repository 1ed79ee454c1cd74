package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/backtest"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/repository"
)

// BacktestService loads historical signals and settled outcomes from the
// store and replays them through the sequential simulator.
type BacktestService struct {
	cfg      *config.Config
	repos    *repository.Repositories
	notifier alerts.Notifier
	logger   *logrus.Logger
	runLog   *logger.BacktestLogger
}

// BacktestResult bundles the replay state with its derived report so callers
// can render both without re-deriving either.
type BacktestResult struct {
	State      *backtest.BacktestState
	Report     backtest.Report
	MonteCarlo *backtest.MonteCarloResult
}

// NewBacktestService creates the backtest orchestration service.
func NewBacktestService(cfg *config.Config, repos *repository.Repositories, notifier alerts.Notifier, log *logrus.Logger) (*BacktestService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if log == nil {
		log = logrus.New()
	}
	if notifier == nil {
		notifier = alerts.NopNotifier{}
	}
	return &BacktestService{
		cfg:      cfg,
		repos:    repos,
		notifier: notifier,
		logger:   log,
		runLog:   logger.NewBacktestLogger(log),
	}, nil
}

// Run replays the configured date window and returns the replay result.
// Partial state is discarded on failure; the caller only ever sees a
// completed run.
func (s *BacktestService) Run(ctx context.Context) (*BacktestResult, error) {
	runCfg, err := backtest.FromConfig(&s.cfg.Backtest, &s.cfg.Staking)
	if err != nil {
		return nil, err
	}

	signals, err := s.repos.Signal.GetByDateRange(ctx, runCfg.StartDate, runCfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load signals: %w", err)
	}
	outcomes, err := s.repos.Result.GetByDateRange(ctx, runCfg.StartDate, runCfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes: %w", err)
	}

	simulator, err := backtest.NewSimulator(runCfg, s.logger)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	s.runLog.LogRunStarted(runID, runCfg.StrategyName, runCfg.StartDate, runCfg.EndDate, runCfg.InitialBankroll)
	started := time.Now()

	state, err := simulator.Run(ctx, signals, outcomes)
	elapsed := time.Since(started)
	if err != nil {
		metrics.RecordBacktestRun("failed", elapsed.Seconds())
		processed := 0
		if state != nil {
			processed = len(state.BetLog)
		}
		s.runLog.LogRunAborted(runID, err.Error(), processed)
		return nil, err
	}

	report := backtest.CalculateReport(state, runCfg)
	metrics.RecordBacktestRun("completed", elapsed.Seconds())
	s.runLog.LogRunCompleted(runID, report.TotalBets, report.SkippedSignals, state.CurrentBankroll, elapsed)

	result := &BacktestResult{State: state, Report: report}

	if s.cfg.Backtest.MonteCarloIterations > 0 && len(state.BetLog) > 0 {
		mc, err := backtest.RunMonteCarlo(ctx, state.BetLog, backtest.MonteCarloConfig{
			Iterations:      s.cfg.Backtest.MonteCarloIterations,
			InitialBankroll: runCfg.InitialBankroll,
		})
		if err != nil {
			return nil, fmt.Errorf("monte carlo simulation failed: %w", err)
		}
		result.MonteCarlo = &mc
	}

	if s.cfg.Alerts.Enabled {
		if err := s.notifier.SendBacktestSummary(ctx, report); err != nil {
			s.logger.WithError(err).Warn("Failed to send backtest summary")
		}
	}

	return result, nil
}
