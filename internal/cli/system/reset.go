package system

import (
	"fmt"
	"path/filepath"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/logger"
)

type ResetCmd struct {
	Yes bool `short:"y" help:"Reset without asking for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ctx.Println("⚠️  This deletes your profile, habit history and feedback.")
		ctx.Println("A backup is taken first and can be restored with 'energyflow backup restore'.")
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}
	return resetStore(ctx)
}

// resetStore snapshots the saved user, if any, and clears the store.
func resetStore(ctx *cli.Context) error {
	user, err := ctx.Store.LoadUser()
	if err != nil {
		logger.Warn("Could not read user before reset", "error", err)
	}
	if user != nil {
		path, err := ctx.Backups.CreateBackup(user)
		if err != nil {
			return fmt.Errorf("failed to back up before reset: %w", err)
		}
		ctx.Printf("Backed up current data to %s\n", filepath.Base(path))
	}

	if err := ctx.Store.Clear(); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	ctx.Println("✓ All energyflow data cleared.")
	return nil
}
