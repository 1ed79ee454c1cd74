package database

import (
	"context"
	"fmt"

	"github.com/yourusername/tennis-edge/internal/config"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(255) UNIQUE NOT NULL,
		tournament VARCHAR(255),
		player1 VARCHAR(255),
		player2 VARCHAR(255),
		match_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS odds (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(255) REFERENCES matches(match_id),
		selection VARCHAR(255) NOT NULL,
		odds DECIMAL(10,2) NOT NULL,
		odds_time TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS probabilities (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(255) REFERENCES matches(match_id),
		selection VARCHAR(255) NOT NULL,
		model_prob DECIMAL(5,4) NOT NULL,
		confidence DECIMAL(5,4),
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signals (
		id UUID PRIMARY KEY,
		match_id VARCHAR(255) REFERENCES matches(match_id),
		selection VARCHAR(255) NOT NULL,
		opponent VARCHAR(255),
		tournament VARCHAR(255),
		match_time TIMESTAMPTZ,
		odds DECIMAL(10,2) NOT NULL,
		implied_prob DECIMAL(5,4),
		model_prob DECIMAL(5,4),
		expected_value DECIMAL(6,4),
		kelly_stake DECIMAL(6,4),
		recommended_stake DECIMAL(10,2),
		confidence_level VARCHAR(50),
		status VARCHAR(50) DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(255) UNIQUE REFERENCES matches(match_id),
		winner VARCHAR(255) NOT NULL,
		score VARCHAR(100),
		settled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_match_id ON signals (match_id)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_status ON signals (status)`,
	`CREATE INDEX IF NOT EXISTS idx_signals_match_time ON signals (match_time)`,
	`CREATE INDEX IF NOT EXISTS idx_odds_match_id ON odds (match_id)`,
	`CREATE INDEX IF NOT EXISTS idx_results_match_id ON results (match_id)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables and indexes if they do not already exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
