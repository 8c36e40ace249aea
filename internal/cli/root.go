// Package cli holds the shared command context. Commands live in the
// subpackages and receive a *Context from kong.
package cli

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vistara-apps/energyflow/internal/backup"
	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/errors"
	"github.com/vistara-apps/energyflow/internal/keyring"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/progress"
	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/storage/mongo"
	"github.com/vistara-apps/energyflow/internal/storage/postgres"
	"github.com/vistara-apps/energyflow/internal/storage/redis"
	"github.com/vistara-apps/energyflow/internal/storage/sqlite"
	"github.com/vistara-apps/energyflow/internal/suggest"
	"github.com/vistara-apps/energyflow/internal/utils"
)

type Context struct {
	Store    storage.Provider
	Catalog  *catalog.Catalog
	Selector *engine.Selector
	Recorder *engine.Recorder
	Backups  *backup.Manager
	Location *time.Location
	In       io.Reader
	Out      io.Writer

	// SuggestTimeout bounds a single call to the suggestion source.
	SuggestTimeout time.Duration
	// SourceName describes the configured suggestion source, e.g. "openai".
	SourceName string
}

// NewContext wires the engine around store. A nil source disables
// generated suggestions.
func NewContext(store storage.Provider, source suggest.Source, backupDir string) *Context {
	cat := catalog.Default()
	name := "none"
	if source != nil {
		if _, ok := source.(suggest.None); !ok {
			name = "openai"
		}
	}
	return &Context{
		Store:          store,
		Catalog:        cat,
		Selector:       engine.NewSelector(cat, source),
		Recorder:       engine.NewRecorder(cat),
		Backups:        backup.NewManager(backupDir),
		Location:       time.Local,
		In:             os.Stdin,
		Out:            os.Stdout,
		SuggestTimeout: constants.DefaultSuggestTimeout,
		SourceName:     name,
	}
}

// Printf writes formatted output to the context's writer.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// Print writes its arguments to the context's writer.
func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Out, args...)
}

// Println writes a line to the context's writer.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In. Anything but y or yes is a no.
func (c *Context) Confirm(question string) (bool, error) {
	c.Printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// NewUser returns an empty user with a fresh id.
func NewUser(now time.Time) *models.User {
	return &models.User{
		ID:                  uuid.NewString(),
		PreferredCategories: []string{},
		CreatedAt:           now,
	}
}

// LoadOrCreateUser returns the saved user, or a new unsaved one when nothing
// is stored. A stored user that cannot be read is treated as missing so the
// app stays usable; the failure is logged.
func (c *Context) LoadOrCreateUser() (*models.User, bool) {
	u, err := c.Store.LoadUser()
	if err != nil {
		logger.Warn("Could not load saved user, starting fresh", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not load saved data (%v); starting a new profile.\n", err)
		return NewUser(time.Now()), false
	}
	if u == nil {
		return NewUser(time.Now()), false
	}
	return u, true
}

// RequireUser returns the saved user or ErrNotOnboarded.
func (c *Context) RequireUser() (*models.User, error) {
	u, ok := c.LoadOrCreateUser()
	if !ok {
		return nil, errors.ErrNotOnboarded
	}
	return u, nil
}

// SaveUser persists the whole aggregate.
func (c *Context) SaveUser(u *models.User) error {
	if err := c.Store.SaveUser(*u); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	logger.Debug("Saved user", "id", u.ID, "logs", len(u.HabitHistory), "feedback", len(u.FeedbackHistory))
	return nil
}

// Tracker returns a progress tracker that also resolves u's generated habits.
func (c *Context) Tracker(u *models.User) *progress.Tracker {
	return progress.NewTracker(engine.Resolver(c.Catalog, u), c.Location)
}

// ResolveHabit finds a habit id in the catalog or in u's generated habits.
func (c *Context) ResolveHabit(u *models.User, habitID string) (models.Habit, error) {
	h, ok := engine.Resolver(c.Catalog, u).Lookup(habitID)
	if !ok {
		return models.Habit{}, fmt.Errorf("%w: %s", errors.ErrUnknownHabit, habitID)
	}
	return h, nil
}

// PerformAutomaticBackup snapshots the saved user and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	u, err := c.Store.LoadUser()
	if err != nil || u == nil {
		return
	}
	if _, err := c.Backups.CreateBackup(u); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ValidateEnergy rejects CLI input outside the supported range.
func ValidateEnergy(level int) error {
	if level < constants.MinEnergyLevel || level > constants.MaxEnergyLevel {
		return fmt.Errorf("%w: got %d", errors.ErrInvalidEnergyLevel, level)
	}
	return nil
}

// ResolveConfig returns the storage location to use. The default path is
// replaced by a connection string from the OS keyring when one is stored;
// fromKeyring reports that case.
func ResolveConfig(config string) (resolved string, fromKeyring bool, err error) {
	if config == constants.DefaultConfigPath {
		connStr, err := keyring.GetConnectionString()
		if err == nil && connStr != "" {
			logger.Debug("Using connection string from keyring")
			return connStr, true, nil
		}
		if err != nil && !stderrors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring unavailable", "error", err)
		}
	}
	resolved, err = utils.ExpandPath(config)
	return resolved, false, err
}

// OpenStore picks a backend from the shape of config. Embedded PostgreSQL
// passwords are only accepted when the string came from the keyring.
func OpenStore(config string, fromKeyring bool) (storage.Provider, error) {
	switch {
	case hasPrefix(config, "postgres://", "postgresql://") || strings.Contains(config, "host="):
		if valid, err := postgres.ValidateConnString(config); !valid {
			if fromKeyring && stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
				return postgres.New(config), nil
			}
			if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; store it with 'energyflow keyring set-connection' or use .pgpass")
			}
			return nil, err
		}
		return postgres.New(config), nil
	case hasPrefix(config, "redis://", "rediss://"):
		return redis.New(config), nil
	case hasPrefix(config, "mongodb://", "mongodb+srv://"):
		return mongo.New(config), nil
	case strings.EqualFold(filepath.Ext(config), ".json"):
		return storage.NewJSONStore(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}

func hasPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// ConfigDir returns the directory holding logs and, for network stores,
// backups.
func ConfigDir(config string) string {
	if filepath.IsAbs(config) {
		return filepath.Dir(config)
	}
	dir, err := utils.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return "."
	}
	return dir
}
