package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/vistara-apps/energyflow/migrations"
)

// setupPostgresTestDB connects to ENERGYFLOW_TEST_POSTGRES, e.g.
// "postgres://user@localhost:5432/testdb?sslmode=disable".
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("ENERGYFLOW_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("ENERGYFLOW_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		for _, table := range []string{"schema_version", "users", "habit_logs", "feedback", "generated_habits"} {
			db.Exec("DROP TABLE IF EXISTS " + table)
		}
		db.Close()
	})
	return db
}

func TestPostgresSetVersion(t *testing.T) {
	db := setupPostgresTestDB(t)
	runner := NewRunner(db, memFS(map[string]string{"001_init.sql": "SELECT 1;"}), DialectPostgres)

	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
}

func TestPostgresEmbeddedMigrations(t *testing.T) {
	db := setupPostgresTestDB(t)
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	runner := NewRunner(db, sub, DialectPostgres)

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count == 0 {
		t.Error("expected at least one migration applied")
	}

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if current != latest {
		t.Errorf("current version %d, want %d", current, latest)
	}
}
