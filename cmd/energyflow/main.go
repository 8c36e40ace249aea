package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/vistara-apps/energyflow/internal/backup"
	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/cli/backups"
	"github.com/vistara-apps/energyflow/internal/cli/habits"
	"github.com/vistara-apps/energyflow/internal/cli/stats"
	"github.com/vistara-apps/energyflow/internal/cli/system"
	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/errors"
	"github.com/vistara-apps/energyflow/internal/keyring"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/suggest"
	"github.com/vistara-apps/energyflow/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage location: a SQLite or .json file path, or a postgres://, redis:// or mongodb:// connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass instead." type:"string" env:"ENERGYFLOW_CONFIG" default:"${default_config}"`
	Debug    bool   `help:"Enable debug logging to stderr."`
	LogLevel string `name:"log-level" help:"Minimum level written to the log file." enum:"debug,info,warn,error" default:"warn" env:"ENERGYFLOW_LOG_LEVEL"`

	OpenAIModel    string        `name:"openai-model" help:"Chat model used to generate habits." env:"ENERGYFLOW_OPENAI_MODEL" default:"${default_model}"`
	OpenAIBaseURL  string        `name:"openai-base-url" help:"OpenAI-compatible API base URL." env:"ENERGYFLOW_OPENAI_BASE_URL"`
	SuggestTimeout time.Duration `help:"Time limit for generating a habit." default:"${default_timeout}"`
	NoAI           bool          `name:"no-ai" help:"Only suggest habits from the built-in catalog."`
	Timezone       string        `help:"IANA timezone used for streaks and daily stats." env:"ENERGYFLOW_TIMEZONE" default:"Local"`

	Init      system.InitCmd      `cmd:"" help:"Initialize energyflow storage."`
	Migrate   system.MigrateCmd   `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Onboard   system.OnboardCmd   `cmd:"" help:"Create or update your profile."`
	Reset     system.ResetCmd     `cmd:"" help:"Delete your profile and history."`
	Suggest   habits.SuggestCmd   `cmd:"" help:"Suggest a micro-habit for your energy level."`
	Complete  habits.CompleteCmd  `cmd:"" help:"Log a habit as completed."`
	Feedback  habits.FeedbackCmd  `cmd:"" help:"Rate a habit as helpful or not."`
	History   habits.HistoryCmd   `cmd:"" help:"Show logged habits."`
	Recommend habits.RecommendCmd `cmd:"" help:"Show top habits per energy tier."`
	Stats     stats.StatsCmd      `cmd:"" help:"Show progress and insights."`
	Export    backups.ExportCmd   `cmd:"" help:"Export your data to a JSON file."`
	Import    backups.ImportCmd   `cmd:"" help:"Import data from a JSON file."`
	Backup    struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Keyring struct {
		SetConnection system.KeyringSetConnectionCmd `cmd:"" help:"Store a database connection string."`
		SetAPIKey     system.KeyringSetAPIKeyCmd     `cmd:"" name:"set-api-key" help:"Store an OpenAI API key."`
		Get           system.KeyringGetCmd           `cmd:"" help:"Show the stored connection string (masked)."`
		Delete        system.KeyringDeleteCmd        `cmd:"" help:"Delete a stored secret."`
		Status        system.KeyringStatusCmd        `cmd:"" help:"Show which secrets are stored."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
}

func main() {
	// A missing .env file is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Micro-habits that adapt to your energy level."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         constants.Version,
			"default_config":  constants.DefaultConfigPath,
			"default_model":   constants.DefaultOpenAIModel,
			"default_timeout": constants.DefaultSuggestTimeout.String(),
		},
	)

	config, fromKeyring, err := cli.ResolveConfig(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	// Network stores log under the default config directory
	configDir := cli.ConfigDir(config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logger.Debug("Logging to file", "path", logger.Path(configDir))

	store, err := cli.OpenStore(config, fromKeyring)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, newSource(), backup.DirFor(config, configDir))
	appCtx.SuggestTimeout = CLI.SuggestTimeout
	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		errors.Fatal(fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err))
	}
	appCtx.Location = loc

	// Init and migrate handle their own loading
	command := ctx.Command()
	if command != "init" && command != "migrate" {
		if err := loadOrInit(store); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "command", command, "error", err)
		fmt.Fprintln(os.Stderr, errors.Format(err))
		store.Close()
		os.Exit(1)
	}
}

// loadOrInit loads the store, setting it up on first use.
func loadOrInit(store storage.Provider) error {
	err := store.Load()
	if !stderrors.Is(err, storage.ErrNotInitialized) {
		return err
	}
	logger.Info("Storage not initialized, creating it", "location", store.GetConfigPath())
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store.Load()
}

// newSource returns the OpenAI source when an API key is available and
// suggest.None otherwise.
func newSource() suggest.Source {
	if CLI.NoAI {
		return suggest.None{}
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		if key, err := keyring.GetAPIKey(); err == nil {
			apiKey = key
		}
	}

	source, err := suggest.NewOpenAI(suggest.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: CLI.OpenAIBaseURL,
		Model:   CLI.OpenAIModel,
		Timeout: CLI.SuggestTimeout,
	})
	if err != nil {
		if !stderrors.Is(err, suggest.ErrNotConfigured) {
			logger.Warn("Suggestion source unavailable", "error", err)
		}
		return suggest.None{}
	}
	return source
}
