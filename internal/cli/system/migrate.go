package system

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/migration"
	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/storage/sqlite"
	"github.com/vistara-apps/energyflow/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// Other backends migrate themselves on init
		if err := ctx.Store.Init(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Storage at %s is up to date.\n", ctx.Store.GetConfigPath())
		return nil
	}

	// A file with no schema yet is still opened by Load
	if err := sqliteStore.Load(); err != nil {
		if !errors.Is(err, storage.ErrNotInitialized) || sqliteStore.GetDB() == nil {
			return fmt.Errorf("failed to load database: %w", err)
		}
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS, migration.DialectSQLite)

	count, err := runner.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
