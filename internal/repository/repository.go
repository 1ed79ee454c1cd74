package repository

import (
	"fmt"

	"github.com/yourusername/tennis-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match  MatchRepository
	Signal SignalRepository
	Result ResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:  NewPostgresMatchRepository(db),
		Signal: NewPostgresSignalRepository(db),
		Result: NewPostgresResultRepository(db),
	}, nil
}
