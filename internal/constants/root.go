package constants

import "time"

const (
	AppName            = "energyflow"
	DefaultKeyringUser = "database-connection"
	APIKeyKeyringUser  = "openai-api-key"
	DefaultConfigPath  = "~/.config/energyflow/energyflow.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "energyflow-"
	BackupFileSuffix = ".json"

	// Storage keys for single-record backends
	RedisUserKey       = "energyflow:user"
	MongoDatabase      = "energyflow"
	MongoUsersColl     = "users"
	MongoCurrentUserID = "current"

	// Anonymous user id used before onboarding completes
	AnonymousUserID = "anonymous"

	// Suggestion source defaults
	DefaultOpenAIModel    = "gpt-3.5-turbo"
	DefaultSuggestTimeout = 15 * time.Second
	SuggestMaxTokens      = 800
	SuggestTemperature    = 0.7
	MaxCandidates         = 3
	RecentHistoryInPrompt = 5
	GeneratedHabitPrefix  = "ai_"

	// Habit duration bounds in minutes
	MinHabitDurationMin     = 1
	MaxHabitDurationMin     = 5
	DefaultHabitDurationMin = 3

	// Energy level bounds
	MinEnergyLevel     = 1
	MaxEnergyLevel     = 5
	DefaultEnergyLevel = 3
)
