// Package backup writes, rotates and restores JSON snapshots of the user.
// Snapshots are independent of the storage backend, so a profile kept in
// Postgres can be restored into SQLite and back.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager rooted at backupDir.
func NewManager(backupDir string) *Manager {
	return &Manager{
		backupDir: backupDir,
		now:       time.Now,
	}
}

// DirFor returns the backup directory for a store. File-backed stores keep
// backups next to their data; network stores use fallbackDir.
func DirFor(configPath, fallbackDir string) string {
	if filepath.IsAbs(configPath) {
		return filepath.Join(filepath.Dir(configPath), constants.BackupDirName)
	}
	return filepath.Join(fallbackDir, constants.BackupDirName)
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes a snapshot of user and rotates old snapshots.
func (m *Manager) CreateBackup(user *models.User) (string, error) {
	return m.createBackup(user, false)
}

// createBackup writes a snapshot. skipRotation keeps the snapshot taken
// right before a restore from pushing out the one being restored.
func (m *Manager) createBackup(user *models.User, skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextPath()
	if err != nil {
		return "", err
	}

	if err := Export(user, backupPath); err != nil {
		return "", err
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// Log error but don't fail the backup operation
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// nextPath picks a free file name, adding seconds and then a counter when
// several snapshots land in the same minute.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	name := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}

	backupPath := name(now.Format("20060102-1504"))
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return backupPath, nil
	}

	stamp := now.Format("20060102-150405")
	backupPath = name(stamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return backupPath, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = name(fmt.Sprintf("%s-%d", stamp, counter))
	}
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		timestamp, ok := parseBackupName(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	// Newest first; names break ties so counters order predictably
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupName extracts the timestamp from energyflow-YYYYMMDD-HHMM.json,
// energyflow-YYYYMMDD-HHMMSS.json or either form with a -N counter.
func parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(stamp, "-")
	if len(parts) == 3 && isDigits(parts[2]) {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) <= constants.MaxBackups {
		return nil
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}

// RestoreBackup replaces the stored user with the snapshot at backupPath.
// The current user, if any, is snapshotted first.
func (m *Manager) RestoreBackup(store storage.Provider, backupPath string) (*models.User, error) {
	restored, err := Import(backupPath)
	if err != nil {
		return nil, err
	}

	current, err := store.LoadUser()
	if err != nil {
		logger.Warn("Could not read current user before restore", "error", err)
	} else if current != nil {
		safety, err := m.createBackup(current, true)
		if err != nil {
			return nil, fmt.Errorf("failed to backup current user before restore: %w", err)
		}
		logger.Info("Created backup of current user", "path", safety)
	}

	if restored == nil {
		return nil, store.Clear()
	}
	if err := store.SaveUser(*restored); err != nil {
		return nil, fmt.Errorf("failed to restore user: %w", err)
	}
	return restored, nil
}

// Export writes user to path in the storage document format.
func Export(user *models.User, path string) error {
	data, err := json.MarshalIndent(storage.Document{Version: storage.JSONVersion, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Import reads a snapshot written by Export. A snapshot of an empty store
// yields a nil user.
func Import(path string) (*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup file does not exist: %s", path)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc storage.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	if doc.Version == 0 || doc.Version > storage.JSONVersion {
		return nil, fmt.Errorf("backup file has unsupported version %d", doc.Version)
	}
	if doc.User != nil {
		if err := doc.User.Validate(); err != nil {
			return nil, fmt.Errorf("backup file contains invalid data: %w", err)
		}
	}
	return doc.User, nil
}
