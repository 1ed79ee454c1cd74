package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tennis-edge/internal/models"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Match, error)
	GetUpcoming(ctx context.Context, limit int) ([]*models.Match, error)
	UpsertQuote(ctx context.Context, quote *models.OddsQuote) error
	UpsertEstimate(ctx context.Context, estimate *models.ProbabilityEstimate) error
}

// SignalRepository defines the interface for signal data access
type SignalRepository interface {
	Create(ctx context.Context, signal *models.Signal) error
	CreateBatch(ctx context.Context, signals []*models.Signal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error)
	GetActive(ctx context.Context, limit int) ([]*models.Signal, error)
	GetByMatchID(ctx context.Context, matchID string) ([]*models.Signal, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Signal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SignalStatus) error
}

// ResultRepository defines the interface for settlement result data access
type ResultRepository interface {
	Upsert(ctx context.Context, outcome *models.SettlementOutcome) error
	GetByMatchID(ctx context.Context, matchID string) (*models.SettlementOutcome, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.SettlementOutcome, error)
}
