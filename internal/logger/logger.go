// Package logger writes energyflow's diagnostic log to a rotating file under
// <config dir>/logs. The terminal only sees log lines in debug mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vistara-apps/energyflow/internal/constants"
)

// Logger stays nil until Init, so the helpers below are no-ops in tests.
var Logger *log.Logger

const (
	LogFileName = "energyflow.log"
	logDirName  = "logs"
)

type Config struct {
	ConfigDir string
	// Debug forces debug level, mirrors lines to stderr and reports callers.
	Debug bool
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string
}

// Path returns the log file used for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, logDirName, LogFileName)
}

func Init(cfg Config) error {
	level, err := levelFor(cfg)
	if err != nil {
		return err
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	var out io.Writer = rotatingFile(path)
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		CallerOffset:    1,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func levelFor(cfg Config) (log.Level, error) {
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	if cfg.Level == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	return level, nil
}

// rotatingFile keeps at most three 10 MB archives for four weeks.
func rotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
