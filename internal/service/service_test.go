package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/repository"
)

type fakeMatchRepo struct {
	upcoming []*models.Match
}

func (f *fakeMatchRepo) Create(context.Context, *models.Match) error { return nil }
func (f *fakeMatchRepo) GetByID(context.Context, string) (*models.Match, error) {
	return nil, models.ErrNotFound
}
func (f *fakeMatchRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]*models.Match, error) {
	return f.upcoming, nil
}
func (f *fakeMatchRepo) GetUpcoming(context.Context, int) ([]*models.Match, error) {
	return f.upcoming, nil
}
func (f *fakeMatchRepo) UpsertQuote(context.Context, *models.OddsQuote) error { return nil }
func (f *fakeMatchRepo) UpsertEstimate(context.Context, *models.ProbabilityEstimate) error {
	return nil
}

type fakeSignalRepo struct {
	created []*models.Signal
	stored  []*models.Signal
}

func (f *fakeSignalRepo) Create(_ context.Context, sig *models.Signal) error {
	f.created = append(f.created, sig)
	return nil
}

func (f *fakeSignalRepo) CreateBatch(_ context.Context, signals []*models.Signal) error {
	f.created = append(f.created, signals...)
	return nil
}

func (f *fakeSignalRepo) GetByID(context.Context, uuid.UUID) (*models.Signal, error) {
	return nil, models.ErrNotFound
}

func (f *fakeSignalRepo) GetActive(context.Context, int) ([]*models.Signal, error) {
	return f.stored, nil
}

func (f *fakeSignalRepo) GetByMatchID(context.Context, string) ([]*models.Signal, error) {
	return f.stored, nil
}

func (f *fakeSignalRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]*models.Signal, error) {
	return f.stored, nil
}

func (f *fakeSignalRepo) UpdateStatus(context.Context, uuid.UUID, models.SignalStatus) error {
	return nil
}

type fakeResultRepo struct {
	outcomes []models.SettlementOutcome
}

func (f *fakeResultRepo) Upsert(context.Context, *models.SettlementOutcome) error { return nil }
func (f *fakeResultRepo) GetByMatchID(context.Context, string) (*models.SettlementOutcome, error) {
	return nil, models.ErrNotFound
}
func (f *fakeResultRepo) GetByDateRange(context.Context, time.Time, time.Time) ([]models.SettlementOutcome, error) {
	return f.outcomes, nil
}

func fakeRepositories() (*repository.Repositories, *fakeMatchRepo, *fakeSignalRepo, *fakeResultRepo) {
	matches := &fakeMatchRepo{}
	signals := &fakeSignalRepo{}
	results := &fakeResultRepo{}
	return &repository.Repositories{
		Match:  matches,
		Signal: signals,
		Result: results,
	}, matches, signals, results
}

func serviceTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.Staking.Bankroll = 10000
	cfg.Staking.KellyFraction = 0.5
	cfg.Staking.MaxStakePercent = 0.05
	cfg.Staking.MinEVThreshold = 0.05
	cfg.Signals.ConfidenceLowThreshold = 0.5
	cfg.Signals.ConfidenceHighThreshold = 0.7
	cfg.Signals.MinConfidenceLevel = "medium"
	cfg.Signals.Workers = 2
	cfg.Backtest.StartDate = "2024-01-01"
	cfg.Backtest.EndDate = "2024-06-30"
	cfg.Backtest.Strategy = "value_betting"
	cfg.Backtest.InitialBankroll = 10000
	return cfg
}

func serviceTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func valueMatch(matchID string, matchTime time.Time) *models.Match {
	return &models.Match{
		MatchID:    matchID,
		Tournament: "ATP Indian Wells",
		Player1:    "Djokovic N.",
		Player2:    "Alcaraz C.",
		MatchTime:  matchTime,
		Quotes: []models.OddsQuote{
			{MatchID: matchID, Selection: "Djokovic N.", Odds: 2.10, Timestamp: matchTime.Add(-time.Hour)},
			{MatchID: matchID, Selection: "Alcaraz C.", Odds: 1.85, Timestamp: matchTime.Add(-time.Hour)},
		},
		Estimates: []models.ProbabilityEstimate{
			{MatchID: matchID, Selection: "Djokovic N.", ModelProb: 0.58, ConfidenceScore: 0.82},
			{MatchID: matchID, Selection: "Alcaraz C.", ModelProb: 0.42, ConfidenceScore: 0.82},
		},
	}
}

func TestProcessBatchGeneratesAndPersistsSignals(t *testing.T) {
	repos, _, signalRepo, _ := fakeRepositories()
	svc, err := NewSignalService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	matchTime := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	generated, err := svc.ProcessBatch(context.Background(), []*models.Match{valueMatch("iw-001", matchTime)})
	require.NoError(t, err)

	// Djokovic at 2.10 with model prob 0.58 clears the 5% EV floor; the
	// Alcaraz side is negative edge and must not surface.
	require.Len(t, generated, 1)
	sig := generated[0]
	assert.Equal(t, "iw-001", sig.MatchID)
	assert.Equal(t, "Djokovic N.", sig.Selection)
	assert.Equal(t, models.SignalStatusActive, sig.Status)
	assert.InDelta(t, 0.58*2.10-1.0, sig.ExpectedValue, 1e-9)
	assert.Greater(t, sig.RecommendedStake, 0.0)

	assert.Equal(t, generated, signalRepo.created)
}

func TestProcessBatchRejectsInvalidMatch(t *testing.T) {
	repos, _, signalRepo, _ := fakeRepositories()
	svc, err := NewSignalService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	bad := valueMatch("iw-002", time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC))
	bad.Player2 = ""

	generated, err := svc.ProcessBatch(context.Background(), []*models.Match{bad})
	require.NoError(t, err)
	assert.Empty(t, generated)
	assert.Empty(t, signalRepo.created)
}

func TestProcessBatchDeterministicOrdering(t *testing.T) {
	repos, _, _, _ := fakeRepositories()
	svc, err := NewSignalService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	later := valueMatch("zz-100", time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC))
	earlier := valueMatch("aa-100", time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC))

	generated, err := svc.ProcessBatch(context.Background(), []*models.Match{later, earlier})
	require.NoError(t, err)
	require.Len(t, generated, 2)
	assert.Equal(t, "aa-100", generated[0].MatchID)
	assert.Equal(t, "zz-100", generated[1].MatchID)
}

func TestProcessBatchCancelledContext(t *testing.T) {
	repos, _, _, _ := fakeRepositories()
	svc, err := NewSignalService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matchTime := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	_, err = svc.ProcessBatch(ctx, []*models.Match{valueMatch("iw-003", matchTime)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessUpcomingUsesRepository(t *testing.T) {
	repos, matchRepo, signalRepo, _ := fakeRepositories()
	matchTime := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	matchRepo.upcoming = []*models.Match{valueMatch("iw-004", matchTime)}

	svc, err := NewSignalService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	generated, err := svc.ProcessUpcoming(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Len(t, signalRepo.created, 1)
}

func storedSignal(matchID string, matchTime time.Time, odds, modelProb float64) *models.Signal {
	return &models.Signal{
		ID:               uuid.New(),
		MatchID:          matchID,
		Selection:        "Djokovic N.",
		Opponent:         "Alcaraz C.",
		Tournament:       "ATP Indian Wells",
		MatchTime:        matchTime,
		Odds:             odds,
		ImpliedProb:      1.0 / odds,
		ModelProb:        modelProb,
		ExpectedValue:    modelProb*odds - 1.0,
		KellyStake:       0.05,
		RecommendedStake: 500,
		ConfidenceLevel:  models.ConfidenceHigh,
		Status:           models.SignalStatusActive,
		CreatedAt:        matchTime.Add(-2 * time.Hour),
	}
}

func TestBacktestServiceRun(t *testing.T) {
	repos, _, signalRepo, resultRepo := fakeRepositories()
	matchTime := time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)
	signalRepo.stored = []*models.Signal{storedSignal("bt-001", matchTime, 2.0, 0.60)}
	resultRepo.outcomes = []models.SettlementOutcome{
		{MatchID: "bt-001", WinningSelection: "Djokovic N.", SettlementTime: matchTime.Add(3 * time.Hour)},
	}

	svc, err := NewBacktestService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.Report.TotalBets)
	assert.Equal(t, 1, result.Report.WinningBets)
	// Capped fraction 0.05 of the 10000 opening bankroll staked at 2.0.
	assert.InDelta(t, 10500.0, result.Report.FinalBankroll, 1e-9)
	assert.Nil(t, result.MonteCarlo)
}

func TestBacktestServiceRunMonteCarlo(t *testing.T) {
	repos, _, signalRepo, resultRepo := fakeRepositories()
	matchTime := time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)
	signalRepo.stored = []*models.Signal{storedSignal("bt-002", matchTime, 2.0, 0.60)}
	resultRepo.outcomes = []models.SettlementOutcome{
		{MatchID: "bt-002", WinningSelection: "Djokovic N.", SettlementTime: matchTime.Add(3 * time.Hour)},
	}

	cfg := serviceTestConfig()
	cfg.Backtest.MonteCarloIterations = 200

	svc, err := NewBacktestService(cfg, repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.MonteCarlo)
	assert.InDelta(t, 1.0, result.MonteCarlo.ProbabilityOfProfit, 1e-9)
}

func TestBacktestServiceNoSignals(t *testing.T) {
	repos, _, _, _ := fakeRepositories()
	svc, err := NewBacktestService(serviceTestConfig(), repos, alerts.NopNotifier{}, serviceTestLogger())
	require.NoError(t, err)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Report.TotalBets)
	assert.InDelta(t, 10000.0, result.Report.FinalBankroll, 1e-9)
}
