package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func resetLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { Logger = nil })
}

func TestInitWritesToConfigDir(t *testing.T) {
	resetLogger(t)
	configDir := filepath.Join(t.TempDir(), "energyflow")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	Warn("Storage file is not valid JSON", "path", "energyflow.json")
	Debug("dropped at warn level")

	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "Storage file is not valid JSON") {
		t.Errorf("warning missing from log: %s", data)
	}
	if strings.Contains(string(data), "dropped at warn level") {
		t.Error("debug line written at the default level")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{name: "default", cfg: Config{}, want: log.WarnLevel},
		{name: "explicit info", cfg: Config{Level: "info"}, want: log.InfoLevel},
		{name: "debug flag wins", cfg: Config{Debug: true, Level: "error"}, want: log.DebugLevel},
		{name: "unknown level", cfg: Config{Level: "chatty"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := levelFor(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("levelFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("levelFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	resetLogger(t)
	if err := Init(Config{ConfigDir: t.TempDir(), Level: "chatty"}); err == nil {
		t.Error("Init() should reject an unknown level")
	}
	if Logger != nil {
		t.Error("Logger set despite the error")
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
