package system

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := cli.NewContext(store, nil, filepath.Join(tempDir, "backups"))
	out := &bytes.Buffer{}
	ctx.Out = out

	cleanup := func() {
		store.Close()
	}

	return ctx, out, cleanup
}

func saveTestUser(t *testing.T, ctx *cli.Context, logs ...models.HabitLog) *models.User {
	t.Helper()
	u := cli.NewUser(time.Now().Add(-time.Hour))
	for i := range logs {
		logs[i].UserID = u.ID
	}
	u.HabitHistory = logs
	if err := ctx.SaveUser(u); err != nil {
		t.Fatalf("SaveUser() error: %v", err)
	}
	return u
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	saveTestUser(t, ctx, models.HabitLog{
		ID: "l1", HabitID: "deep-breathing", Timestamp: time.Now().Add(-time.Minute), EnergyLevel: 2, Completed: true,
	})

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "All diagnostics passed!") {
		t.Errorf("expected success summary, got:\n%s", out.String())
	}
}

func TestDoctorCmd_MissingBackups(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	cmd := &DoctorCmd{}
	err := cmd.Run(ctx)

	// Missing backups is a warning, not a failure
	if err != nil {
		t.Errorf("doctor command should not fail on missing backups: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "⚠ Suggestion source: WARNING") {
		t.Errorf("expected suggestion source warning, got:\n%s", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		t.Fatal("expected sqlite.Store")
	}

	db := sqliteStore.GetDB()
	if db == nil {
		t.Fatal("database connection is nil")
	}

	// Set an impossible future schema version
	if _, err := db.Exec("UPDATE schema_version SET version = 999"); err != nil {
		t.Fatalf("failed to corrupt schema version: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail with a future schema version")
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("expected schema version failure, got:\n%s", out.String())
	}
}

func TestDoctorCmd_PendingMigrations(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to reset schema version: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err == nil {
		t.Error("doctor command should fail with pending migrations")
	}
	if !strings.Contains(out.String(), "run 'energyflow migrate'") {
		t.Errorf("expected migrate hint, got:\n%s", out.String())
	}
}

func TestDoctorCmd_ProfileIntegrity(t *testing.T) {
	tests := []struct {
		name string
		logs []models.HabitLog
		want string
	}{
		{
			name: "energy out of range",
			logs: []models.HabitLog{
				{ID: "l1", HabitID: "deep-breathing", Timestamp: time.Now().Add(-time.Minute), EnergyLevel: 9},
			},
			want: "❌ Profile integrity: FAIL",
		},
		{
			name: "duplicate ids",
			logs: []models.HabitLog{
				{ID: "l1", HabitID: "deep-breathing", Timestamp: time.Now().Add(-time.Minute), EnergyLevel: 2},
				{ID: "l1", HabitID: "power-walk", Timestamp: time.Now().Add(-time.Minute), EnergyLevel: 4},
			},
			want: "duplicate log entry ID found: l1",
		},
		{
			name: "future timestamp",
			logs: []models.HabitLog{
				{ID: "l1", HabitID: "deep-breathing", Timestamp: time.Now().Add(72 * time.Hour), EnergyLevel: 2},
			},
			want: "❌ Timestamp integrity: FAIL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The SQL schema rejects these rows, so use a JSON store
			ctx, out, _ := setupTestContext(t)
			if err := ctx.Store.Init(); err != nil {
				t.Fatalf("Init() error: %v", err)
			}
			saveTestUser(t, ctx, tt.logs...)

			if err := (&DoctorCmd{}).Run(ctx); err == nil {
				t.Error("expected doctor to fail")
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestDoctorCmd_UnknownHabitIsWarning(t *testing.T) {
	ctx, out, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	saveTestUser(t, ctx, models.HabitLog{
		ID: "l1", HabitID: "retired-habit", Timestamp: time.Now().Add(-time.Minute), EnergyLevel: 3,
	})

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("unknown habit references should only warn: %v", err)
	}
	if !strings.Contains(out.String(), "⚠ Habit references: WARNING") {
		t.Errorf("expected habit reference warning, got:\n%s", out.String())
	}
}

func TestDoctorCmd_UnreachableStore(t *testing.T) {
	ctx, out, _ := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when storage was never initialized")
	}
	if !strings.Contains(out.String(), "⊘ Profile integrity: SKIPPED") {
		t.Errorf("expected skipped checks, got:\n%s", out.String())
	}
}
