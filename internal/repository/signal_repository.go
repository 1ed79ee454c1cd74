package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

const errScanSignal = "failed to scan signal: %w"

const signalColumns = `id, match_id, selection, opponent, tournament, match_time, odds,
	implied_prob, model_prob, expected_value, kelly_stake, recommended_stake,
	confidence_level, status, created_at`

// PostgresSignalRepository implements SignalRepository for PostgreSQL
type PostgresSignalRepository struct {
	db *database.DB
}

// NewPostgresSignalRepository creates a new signal repository
func NewPostgresSignalRepository(db *database.DB) SignalRepository {
	return &PostgresSignalRepository{db: db}
}

// Create inserts a new signal
func (r *PostgresSignalRepository) Create(ctx context.Context, signal *models.Signal) error {
	query := `
		INSERT INTO signals (id, match_id, selection, opponent, tournament, match_time, odds,
			implied_prob, model_prob, expected_value, kelly_stake, recommended_stake,
			confidence_level, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		signal.ID, signal.MatchID, signal.Selection, signal.Opponent, signal.Tournament,
		signal.MatchTime, signal.Odds, signal.ImpliedProb, signal.ModelProb,
		signal.ExpectedValue, signal.KellyStake, signal.RecommendedStake,
		signal.ConfidenceLevel, signal.Status, signal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}
	return nil
}

// CreateBatch inserts signals atomically within one transaction
func (r *PostgresSignalRepository) CreateBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO signals (id, match_id, selection, opponent, tournament, match_time, odds,
				implied_prob, model_prob, expected_value, kelly_stake, recommended_stake,
				confidence_level, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		for _, signal := range signals {
			if _, err := tx.Exec(ctx, query,
				signal.ID, signal.MatchID, signal.Selection, signal.Opponent, signal.Tournament,
				signal.MatchTime, signal.Odds, signal.ImpliedProb, signal.ModelProb,
				signal.ExpectedValue, signal.KellyStake, signal.RecommendedStake,
				signal.ConfidenceLevel, signal.Status, signal.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to create signal %s in batch: %w", signal.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a signal by ID
func (r *PostgresSignalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Signal, error) {
	query := fmt.Sprintf(`SELECT %s FROM signals WHERE id = $1`, signalColumns)

	signal := &models.Signal{}
	err := scanSignalRow(r.db.GetPool().QueryRow(ctx, query, id), signal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return signal, nil
}

// GetActive retrieves active signals for upcoming matches. A non-positive
// limit falls back to a sane default cap.
func (r *PostgresSignalRepository) GetActive(ctx context.Context, limit int) ([]*models.Signal, error) {
	if limit <= 0 {
		limit = 500
	}
	query := fmt.Sprintf(`
		SELECT %s FROM signals
		WHERE status = 'active'
		ORDER BY match_time ASC
		LIMIT $1
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetByMatchID retrieves all signals for one match
func (r *PostgresSignalRepository) GetByMatchID(ctx context.Context, matchID string) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM signals
		WHERE match_id = $1
		ORDER BY selection ASC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals by match: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetByDateRange retrieves signals for matches within a date range, in the
// deterministic replay order used by the simulator
func (r *PostgresSignalRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM signals
		WHERE match_time >= $1 AND match_time <= $2
		ORDER BY match_time ASC, match_id ASC, selection ASC
	`, signalColumns)

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals by date range: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// UpdateStatus transitions a signal's lifecycle status. Terminal states are
// final: the update only matches rows still in active status, so a settled
// or cancelled signal cannot be moved again.
func (r *PostgresSignalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SignalStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid signal status %q", status)
	}
	if status == models.SignalStatusActive {
		return fmt.Errorf("signal %s: cannot transition back to active", id)
	}

	tag, err := r.db.GetPool().Exec(ctx,
		`UPDATE signals SET status = $1 WHERE id = $2 AND status = 'active'`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update signal status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("signal %s is %s: cannot transition to %s", id, current.Status, status)
	}
	return nil
}

func scanSignalRow(row pgx.Row, signal *models.Signal) error {
	return row.Scan(
		&signal.ID, &signal.MatchID, &signal.Selection, &signal.Opponent,
		&signal.Tournament, &signal.MatchTime, &signal.Odds, &signal.ImpliedProb,
		&signal.ModelProb, &signal.ExpectedValue, &signal.KellyStake,
		&signal.RecommendedStake, &signal.ConfidenceLevel, &signal.Status,
		&signal.CreatedAt,
	)
}

func scanSignals(rows pgx.Rows) ([]*models.Signal, error) {
	var signals []*models.Signal
	for rows.Next() {
		signal := &models.Signal{}
		if err := scanSignalRow(rows, signal); err != nil {
			return nil, fmt.Errorf(errScanSignal, err)
		}
		signals = append(signals, signal)
	}
	return signals, rows.Err()
}
