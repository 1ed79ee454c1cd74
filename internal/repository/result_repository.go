package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// Upsert records the settled outcome of a match
func (r *PostgresResultRepository) Upsert(ctx context.Context, outcome *models.SettlementOutcome) error {
	query := `
		INSERT INTO results (match_id, winner, score, settled_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO UPDATE SET
			winner = EXCLUDED.winner,
			score = EXCLUDED.score,
			settled_at = EXCLUDED.settled_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		outcome.MatchID, outcome.WinningSelection, outcome.Score, outcome.SettlementTime,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result: %w", err)
	}
	return nil
}

// GetByMatchID retrieves the settled outcome for one match
func (r *PostgresResultRepository) GetByMatchID(ctx context.Context, matchID string) (*models.SettlementOutcome, error) {
	query := `
		SELECT match_id, winner, score, settled_at
		FROM results WHERE match_id = $1
	`

	outcome := &models.SettlementOutcome{}
	err := r.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&outcome.MatchID, &outcome.WinningSelection, &outcome.Score, &outcome.SettlementTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return outcome, nil
}

// GetByDateRange retrieves outcomes settled within a date range
func (r *PostgresResultRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.SettlementOutcome, error) {
	query := `
		SELECT match_id, winner, score, settled_at
		FROM results
		WHERE settled_at >= $1 AND settled_at <= $2
		ORDER BY settled_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query results by date range: %w", err)
	}
	defer rows.Close()

	var outcomes []models.SettlementOutcome
	for rows.Next() {
		var outcome models.SettlementOutcome
		if err := rows.Scan(
			&outcome.MatchID, &outcome.WinningSelection, &outcome.Score, &outcome.SettlementTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}
