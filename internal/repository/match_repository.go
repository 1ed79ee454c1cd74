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

const errScanMatch = "failed to scan match: %w"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match together with its quotes and estimates
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO matches (match_id, tournament, player1, player2, match_time)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (match_id) DO UPDATE SET
				tournament = EXCLUDED.tournament,
				player1 = EXCLUDED.player1,
				player2 = EXCLUDED.player2,
				match_time = EXCLUDED.match_time,
				updated_at = CURRENT_TIMESTAMP
		`
		if _, err := tx.Exec(ctx, query,
			match.MatchID, match.Tournament, match.Player1, match.Player2, match.MatchTime,
		); err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}

		for _, quote := range match.Quotes {
			if err := upsertQuoteTx(ctx, tx, &quote); err != nil {
				return err
			}
		}
		for _, estimate := range match.Estimates {
			if err := upsertEstimateTx(ctx, tx, &estimate); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a match with its quotes and estimates attached
func (r *PostgresMatchRepository) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	query := `
		SELECT match_id, tournament, player1, player2, match_time, created_at, updated_at
		FROM matches WHERE match_id = $1
	`

	match := &models.Match{}
	err := r.db.GetPool().QueryRow(ctx, query, matchID).Scan(
		&match.MatchID, &match.Tournament, &match.Player1, &match.Player2,
		&match.MatchTime, &match.CreatedAt, &match.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err := r.attachMarket(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// GetByDateRange retrieves matches within a date range, markets attached
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Match, error) {
	query := `
		SELECT match_id, tournament, player1, player2, match_time, created_at, updated_at
		FROM matches
		WHERE match_time >= $1 AND match_time <= $2
		ORDER BY match_time ASC, match_id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		if err := r.attachMarket(ctx, match); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// GetUpcoming retrieves matches that have not started yet
func (r *PostgresMatchRepository) GetUpcoming(ctx context.Context, limit int) ([]*models.Match, error) {
	query := `
		SELECT match_id, tournament, player1, player2, match_time, created_at, updated_at
		FROM matches
		WHERE match_time > NOW()
		ORDER BY match_time ASC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	defer rows.Close()

	matches, err := scanMatches(rows)
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		if err := r.attachMarket(ctx, match); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// UpsertQuote inserts or refreshes a bookmaker quote for a selection
func (r *PostgresMatchRepository) UpsertQuote(ctx context.Context, quote *models.OddsQuote) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return upsertQuoteTx(ctx, tx, quote)
	})
}

// UpsertEstimate inserts or refreshes a model probability for a selection
func (r *PostgresMatchRepository) UpsertEstimate(ctx context.Context, estimate *models.ProbabilityEstimate) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return upsertEstimateTx(ctx, tx, estimate)
	})
}

func upsertQuoteTx(ctx context.Context, tx pgx.Tx, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds (match_id, selection, odds, odds_time)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, query,
		quote.MatchID, quote.Selection, quote.Odds, quote.Timestamp,
	); err != nil {
		return fmt.Errorf("failed to upsert quote: %w", err)
	}
	return nil
}

func upsertEstimateTx(ctx context.Context, tx pgx.Tx, estimate *models.ProbabilityEstimate) error {
	query := `
		INSERT INTO probabilities (match_id, selection, model_prob, confidence)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, query,
		estimate.MatchID, estimate.Selection, estimate.ModelProb, estimate.ConfidenceScore,
	); err != nil {
		return fmt.Errorf("failed to upsert estimate: %w", err)
	}
	return nil
}

// attachMarket loads the latest quote and estimate per selection for a match
func (r *PostgresMatchRepository) attachMarket(ctx context.Context, match *models.Match) error {
	quoteQuery := `
		SELECT DISTINCT ON (selection) match_id, selection, odds, odds_time
		FROM odds
		WHERE match_id = $1
		ORDER BY selection, odds_time DESC
	`
	rows, err := r.db.GetPool().Query(ctx, quoteQuery, match.MatchID)
	if err != nil {
		return fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	match.Quotes = match.Quotes[:0]
	for rows.Next() {
		var q models.OddsQuote
		if err := rows.Scan(&q.MatchID, &q.Selection, &q.Odds, &q.Timestamp); err != nil {
			return fmt.Errorf("failed to scan quote: %w", err)
		}
		match.Quotes = append(match.Quotes, q)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	estimateQuery := `
		SELECT DISTINCT ON (selection) match_id, selection, model_prob, confidence
		FROM probabilities
		WHERE match_id = $1
		ORDER BY selection, created_at DESC
	`
	estRows, err := r.db.GetPool().Query(ctx, estimateQuery, match.MatchID)
	if err != nil {
		return fmt.Errorf("failed to query estimates: %w", err)
	}
	defer estRows.Close()

	match.Estimates = match.Estimates[:0]
	for estRows.Next() {
		var e models.ProbabilityEstimate
		if err := estRows.Scan(&e.MatchID, &e.Selection, &e.ModelProb, &e.ConfidenceScore); err != nil {
			return fmt.Errorf("failed to scan estimate: %w", err)
		}
		match.Estimates = append(match.Estimates, e)
	}
	return estRows.Err()
}

func scanMatches(rows pgx.Rows) ([]*models.Match, error) {
	var matches []*models.Match
	for rows.Next() {
		match := &models.Match{}
		if err := rows.Scan(
			&match.MatchID, &match.Tournament, &match.Player1, &match.Player2,
			&match.MatchTime, &match.CreatedAt, &match.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}
