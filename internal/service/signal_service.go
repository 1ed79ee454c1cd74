package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/signal"
)

// SignalService runs the full signal pipeline for batches of match records:
// validate, normalize, classify, generate, size, persist, alert.
type SignalService struct {
	cfg       *config.Config
	generator *signal.Generator
	validator *DataValidator
	repos     *repository.Repositories
	notifier  alerts.Notifier
	logger    *logrus.Logger
	pipeLog   *logger.SignalLogger
	workers   int
}

// NewSignalService creates the signal pipeline service.
func NewSignalService(cfg *config.Config, repos *repository.Repositories, notifier alerts.Notifier, log *logrus.Logger) (*SignalService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logrus.New()
	}
	if notifier == nil {
		notifier = alerts.NopNotifier{}
	}

	staker, err := signal.NewStaker(signal.StakerConfig{
		KellyFraction:   cfg.Staking.KellyFraction,
		MaxStakePercent: cfg.Staking.MaxStakePercent,
	})
	if err != nil {
		return nil, err
	}

	generator, err := signal.NewGenerator(signal.GeneratorConfig{
		MinEVThreshold: cfg.Staking.MinEVThreshold,
		MinConfidence:  models.ConfidenceLevel(cfg.Signals.MinConfidenceLevel),
		Thresholds: signal.Thresholds{
			Low:  cfg.Signals.ConfidenceLowThreshold,
			High: cfg.Signals.ConfidenceHighThreshold,
		},
	}, staker, log)
	if err != nil {
		return nil, err
	}

	workers := cfg.Signals.Workers
	if workers <= 0 {
		workers = 1
	}

	return &SignalService{
		cfg:       cfg,
		generator: generator,
		validator: NewDataValidator(),
		repos:     repos,
		notifier:  notifier,
		logger:    log,
		pipeLog:   logger.NewSignalLogger(log),
		workers:   workers,
	}, nil
}

// matchResult carries the outcome of one match evaluation off a worker.
type matchResult struct {
	matchID string
	signals []*models.Signal
	err     error
}

// ProcessBatch evaluates a batch of match records concurrently and returns
// the generated signals. Matches are independent, so workers share nothing
// but the job channel; per-match failures are logged and skipped without
// failing the batch.
func (s *SignalService) ProcessBatch(ctx context.Context, matches []*models.Match) ([]*models.Signal, error) {
	started := time.Now()
	bankroll := s.cfg.Staking.Bankroll

	jobs := make(chan *models.Match)
	results := make(chan matchResult, len(matches))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for match := range jobs {
				results <- s.processMatch(match, bankroll)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, match := range matches {
			select {
			case <-ctx.Done():
				return
			case jobs <- match:
			}
		}
	}()

	wg.Wait()
	close(results)

	var generated []*models.Signal
	for result := range results {
		if result.err != nil {
			s.pipeLog.LogMarketRejected(result.matchID, result.err.Error())
			continue
		}
		generated = append(generated, result.signals...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Workers finish in arbitrary order; restore a deterministic batch order.
	sort.Slice(generated, func(i, j int) bool {
		a, b := generated[i], generated[j]
		if !a.MatchTime.Equal(b.MatchTime) {
			return a.MatchTime.Before(b.MatchTime)
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		return a.Selection < b.Selection
	})

	if s.repos != nil && len(generated) > 0 {
		if err := s.repos.Signal.CreateBatch(ctx, generated); err != nil {
			return nil, fmt.Errorf("failed to persist signals: %w", err)
		}
	}

	s.sendAlerts(ctx, generated)

	metrics.RecordBatchDuration(time.Since(started).Seconds())
	metrics.UpdateBankroll(bankroll)
	s.logger.WithFields(logrus.Fields{
		"matches": len(matches),
		"signals": len(generated),
	}).Info("Signal batch processed")

	return generated, nil
}

// ProcessUpcoming loads upcoming matches from the store and runs the pipeline.
func (s *SignalService) ProcessUpcoming(ctx context.Context, limit int) ([]*models.Signal, error) {
	if s.repos == nil {
		return nil, fmt.Errorf("repositories are required to load matches")
	}
	matches, err := s.repos.Match.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming matches: %w", err)
	}

	generated, err := s.ProcessBatch(ctx, matches)
	if err != nil {
		return nil, err
	}

	if active, err := s.repos.Signal.GetActive(ctx, 0); err == nil {
		metrics.UpdateActiveSignals(float64(len(active)))
	}
	return generated, nil
}

func (s *SignalService) processMatch(match *models.Match, bankroll float64) matchResult {
	metrics.RecordMatchProcessed()

	s.validator.CleanMatch(match)
	if problems := s.validator.ValidateMatch(match); len(problems) > 0 {
		metrics.RecordMarketRejected("invalid_record")
		return matchResult{matchID: match.MatchID,
			err: fmt.Errorf("record failed validation: %v", problems)}
	}

	signals, err := s.generator.GenerateForMatch(match, bankroll)
	if err != nil {
		metrics.RecordMarketRejected(rejectionReason(err))
		return matchResult{matchID: match.MatchID, err: err}
	}

	for _, sig := range signals {
		metrics.RecordSignalGenerated(string(sig.ConfidenceLevel), sig.ExpectedValue)
		s.pipeLog.LogSignalGenerated(sig)
	}
	return matchResult{matchID: match.MatchID, signals: signals}
}

func (s *SignalService) sendAlerts(ctx context.Context, signals []*models.Signal) {
	if !s.cfg.Alerts.Enabled {
		return
	}
	for _, sig := range signals {
		if sig.ExpectedValue < s.cfg.Alerts.MinEVForAlert {
			continue
		}
		if err := s.notifier.SendValueBetAlert(ctx, sig); err != nil {
			s.logger.WithField("signal_id", sig.ID).
				WithError(err).Warn("Failed to send value bet alert")
		}
	}
}

func rejectionReason(err error) string {
	var dataErr *models.DataError
	if errors.As(err, &dataErr) {
		return string(dataErr.Kind)
	}
	return "error"
}
