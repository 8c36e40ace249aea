package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/storage"
)

// outputContext returns a context that only captures output.
func outputContext() *cli.Context {
	return &cli.Context{Out: &bytes.Buffer{}}
}

// setupTestContext returns a context over an uninitialized JSON store.
func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "energyflow.json")
	ctx := cli.NewContext(storage.NewJSONStore(path), nil, filepath.Join(dir, "backups"))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out, path
}
