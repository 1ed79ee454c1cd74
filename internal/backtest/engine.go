package backtest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/signal"
)

// Simulator replays an ordered sequence of signals against a settlement feed,
// evolving a bankroll bet by bet. A simulator is stateless and safe to share;
// each Run owns its BacktestState exclusively, so independent runs may execute
// concurrently.
type Simulator struct {
	cfg    Config
	staker *signal.Staker
	logger *logrus.Logger
}

// NewSimulator creates a backtest simulator for the given run parameters.
func NewSimulator(cfg Config, logger *logrus.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	staker, err := signal.NewStaker(signal.StakerConfig{
		KellyFraction:   cfg.KellyFraction,
		MaxStakePercent: cfg.MaxStakePercent,
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Simulator{cfg: cfg, staker: staker, logger: logger}, nil
}

// Config returns the run parameters.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Run replays the signals against the outcomes and returns the final state.
//
// Signals are reordered deterministically by (match time, match id,
// selection) before replay regardless of input order, so a run over the same
// inputs is bit-for-bit reproducible. Stakes are re-sized from the bankroll
// at each step, which makes the result path-dependent.
//
// The context is checked between bets; on cancellation the partial state is
// returned alongside the context error and remains reportable. A bankroll
// below zero after an update aborts the run with ErrInsufficientBankroll;
// the stake sizer's cap makes that unreachable, so it indicates a logic
// defect, not bad input.
func (s *Simulator) Run(ctx context.Context, signals []*models.Signal, outcomes []models.SettlementOutcome) (*BacktestState, error) {
	state := NewBacktestState(s.cfg.InitialBankroll)
	state.Status = RunStatusRunning
	// The opening balance anchors the equity trace so a losing first bet
	// still registers as a drawdown from the initial peak.
	state.RecordEquityPoint(s.cfg.StartDate, state.CurrentBankroll)

	ordered := orderSignals(signals)
	outcomeByMatch := make(map[string]models.SettlementOutcome, len(outcomes))
	for _, o := range outcomes {
		outcomeByMatch[o.MatchID] = o
	}

	for _, sig := range ordered {
		if err := ctx.Err(); err != nil {
			state.Status = RunStatusAborted
			return state, err
		}
		if err := s.processSignal(state, sig, outcomeByMatch); err != nil {
			state.Status = RunStatusAborted
			return state, err
		}
	}

	state.Status = RunStatusCompleted
	return state, nil
}

func (s *Simulator) processSignal(state *BacktestState, sig *models.Signal, outcomes map[string]models.SettlementOutcome) error {
	outcome, found := outcomes[sig.MatchID]
	if !found {
		state.SkippedSignals++
		return nil
	}

	// Sizing uses the bankroll before this bet, never the initial one.
	_, stake, err := s.staker.Size(sig.ModelProb, sig.Odds, state.CurrentBankroll)
	if err != nil {
		if errors.Is(err, models.ErrDegenerateOdds) {
			s.logger.WithFields(logrus.Fields{
				"match_id":  sig.MatchID,
				"selection": sig.Selection,
			}).Warn("Skipping signal with degenerate odds")
			state.SkippedSignals++
			return nil
		}
		return err
	}
	if stake <= 0 {
		state.SkippedSignals++
		return nil
	}

	bet := models.BetRecord{
		SignalID:  sig.ID.String(),
		MatchID:   sig.MatchID,
		Selection: sig.Selection,
		Odds:      sig.Odds,
		Stake:     stake,
		PlacedAt:  sig.MatchTime,
	}
	if sig.Selection == outcome.WinningSelection {
		bet.Result = models.BetResultWin
		bet.Profit = stake * (sig.Odds - 1.0)
	} else {
		bet.Result = models.BetResultLoss
		bet.Profit = -stake
	}

	state.ApplyBet(bet)

	if state.CurrentBankroll < 0 {
		return fmt.Errorf("%w: %.2f after bet on %s (%d bets processed)",
			models.ErrInsufficientBankroll, state.CurrentBankroll, sig.MatchID, len(state.BetLog))
	}
	return nil
}

// orderSignals returns the signals sorted by match time with a stable
// (match id, selection) secondary order so equal timestamps replay
// deterministically.
func orderSignals(signals []*models.Signal) []*models.Signal {
	ordered := make([]*models.Signal, len(signals))
	copy(ordered, signals)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.MatchTime.Equal(b.MatchTime) {
			return a.MatchTime.Before(b.MatchTime)
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		return a.Selection < b.Selection
	})
	return ordered
}
