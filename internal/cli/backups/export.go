package backups

import (
	"fmt"
	"path/filepath"

	"github.com/vistara-apps/energyflow/internal/backup"
	"github.com/vistara-apps/energyflow/internal/cli"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"File to write. Defaults to a new snapshot in the backup directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	if c.Output == "" {
		path, err := ctx.Backups.CreateBackup(user)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		ctx.Printf("✓ Exported to %s\n", path)
		return nil
	}

	if err := backup.Export(user, c.Output); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	ctx.Printf("✓ Exported to %s\n", filepath.Clean(c.Output))
	return nil
}

type ImportCmd struct {
	Input string `arg:"" help:"Snapshot file written by export."`
	Yes   bool   `short:"y" help:"Import without asking for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	restore := &BackupRestoreCmd{BackupFile: c.Input, Yes: c.Yes}
	return restore.Run(ctx)
}
