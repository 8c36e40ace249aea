package system

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/migration"
	"github.com/vistara-apps/energyflow/internal/storage/sqlite"
	"github.com/vistara-apps/energyflow/migrations"
)

// errWarning marks a check result that is reported but does not fail doctor.
var errWarning = errors.New("warning")

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Profile integrity", needsDB: true, run: checkProfileIntegrity},
	{name: "Habit references", needsDB: true, run: checkHabitReferences},
	{name: "Timestamp integrity", needsDB: true, run: checkTimestampIntegrity},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone() }},
	{name: "Suggestion source", run: checkSuggestionSource},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false

	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Storage reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Storage reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errWarning):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func warnf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errWarning}, args...)...)
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func sqliteRunner(ctx *cli.Context) (*migration.Runner, bool, error) {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// Other backends carry no schema version to inspect here
		return nil, false, nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return nil, true, fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, true, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, subFS, migration.DialectSQLite), true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	runner, ok, err := sqliteRunner(ctx)
	if !ok || err != nil {
		return err
	}

	if err := runner.ValidateVersion(); err != nil {
		if errors.Is(err, migration.ErrSchemaTooNew) {
			return err
		}
		return fmt.Errorf("failed to check schema version: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	runner, ok, err := sqliteRunner(ctx)
	if !ok || err != nil {
		return err
	}

	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to list pending migrations: %w", err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("migrations incomplete: %d pending, run 'energyflow migrate'", len(pending))
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return warnf("no backups found - consider creating one with 'energyflow backup create'")
	}

	return nil
}

// checkProfileIntegrity validates values the engine would otherwise clamp or skip.
func checkProfileIntegrity(ctx *cli.Context) error {
	user, err := ctx.Store.LoadUser()
	if err != nil {
		return fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil
	}
	return user.Validate()
}

func checkHabitReferences(ctx *cli.Context) error {
	user, err := ctx.Store.LoadUser()
	if err != nil || user == nil {
		return err
	}

	resolver := engine.Resolver(ctx.Catalog, user)
	unresolved := 0
	for _, l := range user.HabitHistory {
		if _, ok := resolver.Lookup(l.HabitID); !ok {
			unresolved++
		}
	}
	if unresolved > 0 {
		return warnf("%d log entries reference habits that no longer exist; they count toward totals without time or category", unresolved)
	}
	return nil
}

func checkTimestampIntegrity(ctx *cli.Context) error {
	user, err := ctx.Store.LoadUser()
	if err != nil || user == nil {
		return err
	}

	limit := time.Now().Add(24 * time.Hour)
	corrupted := 0
	for _, l := range user.HabitHistory {
		if l.Timestamp.IsZero() || l.Timestamp.After(limit) {
			corrupted++
		}
	}
	for _, f := range user.FeedbackHistory {
		if f.Timestamp.IsZero() || f.Timestamp.After(limit) {
			corrupted++
		}
	}
	if corrupted > 0 {
		return fmt.Errorf("found %d entries with missing or future timestamps", corrupted)
	}

	return nil
}

func checkClockTimezone() error {
	// Check if system time is reasonable
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	return nil
}

func checkSuggestionSource(ctx *cli.Context) error {
	if ctx.SourceName == "" || ctx.SourceName == "none" {
		return warnf("no API key configured, suggestions come from the built-in catalog only")
	}
	return nil
}
