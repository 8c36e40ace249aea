package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)

	ctx := cli.NewContext(store, nil, filepath.Join(tempDir, "backups"))
	ctx.Out = &bytes.Buffer{}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	u := cli.NewUser(time.Now())
	if err := ctx.SaveUser(u); err != nil {
		t.Fatalf("SaveUser() error: %v", err)
	}

	// Run init second time - should be idempotent
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}

	got, err := ctx.Store.LoadUser()
	if err != nil || got == nil || got.ID != u.ID {
		t.Errorf("user lost after second init: %v, %v", got, err)
	}
}

func TestInitCmd_ForceClearsExisting(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if err := ctx.SaveUser(cli.NewUser(time.Now())); err != nil {
		t.Fatalf("SaveUser() error: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	got, err := ctx.Store.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected no user after force init, got %s", got.ID)
	}

	// The cleared user is kept as a backup
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup after force init, got %d", len(backups))
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	// Verify database doesn't exist initially
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("database file should not exist initially")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_MigratesFromSource(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	sourcePath := filepath.Join(t.TempDir(), "old.json")
	source := storage.NewJSONStore(sourcePath)
	if err := source.Init(); err != nil {
		t.Fatalf("source Init() error: %v", err)
	}
	u := cli.NewUser(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	u.HabitHistory = []models.HabitLog{
		{ID: "l1", UserID: u.ID, HabitID: "deep-breathing", Timestamp: u.CreatedAt, EnergyLevel: 2, Completed: true},
	}
	if err := source.SaveUser(*u); err != nil {
		t.Fatalf("source SaveUser() error: %v", err)
	}

	cmd := &InitCmd{Source: sourcePath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	got, err := ctx.Store.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser() error: %v", err)
	}
	if got == nil || got.ID != u.ID || len(got.HabitHistory) != 1 {
		t.Fatalf("user not migrated: %+v", got)
	}
	if !strings.Contains(ctx.Out.(*bytes.Buffer).String(), "Migration completed successfully!") {
		t.Error("expected migration summary in output")
	}
}

func TestInitCmd_SameSourceAndDestination(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when source equals destination")
	}
}
