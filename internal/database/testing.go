package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/tennis-edge/internal/config"
)

// SetupTestDB creates a test database connection and ensures the schema.
// Tests calling it are skipped when no test database is reachable.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.LoadWithDefaults("../../config/config.test.yaml")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}
