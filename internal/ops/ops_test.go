package ops

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.UserName = "Alice"
	cfg.CharName = "Bob"
	return cfg
}
