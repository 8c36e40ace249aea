package system

import (
	"fmt"

	"github.com/vistara-apps/energyflow/internal/cli"
)

type InitCmd struct {
	Force  bool   `help:"Clear existing data after taking a backup."`
	Source string `help:"Storage path or connection string to copy the user from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Source != "" && c.Source == ctx.Store.GetConfigPath() {
		return fmt.Errorf("source and destination are the same: %s", c.Source)
	}

	// Initialize destination store
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized energyflow storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Force {
		if err := resetStore(ctx); err != nil {
			return err
		}
	}

	// If source is provided, migrate data
	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	sourceStore, err := cli.OpenStore(c.Source, false)
	if err != nil {
		return err
	}

	// Load the source store
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer sourceStore.Close()

	user, err := sourceStore.LoadUser()
	if err != nil {
		return fmt.Errorf("failed to read user from source: %w", err)
	}
	if user == nil {
		ctx.Println("  Source has no saved user, nothing to migrate.")
		return nil
	}

	if err := ctx.SaveUser(user); err != nil {
		return err
	}
	ctx.Printf("  Migrated user with %d log entries, %d feedback entries and %d generated habits\n",
		len(user.HabitHistory), len(user.FeedbackHistory), len(user.GeneratedHabits))
	return nil
}
