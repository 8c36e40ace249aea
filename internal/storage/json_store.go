package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
)

// JSONVersion is the file format version written by JSONStore.
const JSONVersion = 1

// Document is the on-disk layout of a JSON store and of backup snapshots.
type Document struct {
	Version int          `json:"version"`
	User    *models.User `json:"user"`
}

type JSONStore struct {
	path string
	doc  *Document
	// set when the file exists but does not decode
	parseErr error
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// An existing file is kept as is
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &Document{Version: JSONVersion}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		logger.Warn("Storage file is not valid JSON", "path", s.path, "error", err)
		s.doc = nil
		s.parseErr = fmt.Errorf("%w: %v", ErrUnreadable, err)
		return nil
	}
	if doc.Version > JSONVersion {
		return fmt.Errorf("storage format version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, JSONVersion)
	}
	s.doc = doc
	s.parseErr = nil
	return nil
}

// writable returns the document to modify, replacing an unreadable file
// with an empty one.
func (s *JSONStore) writable() (*Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}
	if s.parseErr == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	logger.Warn("Replacing unreadable storage file", "path", s.path)
	s.doc = &Document{Version: JSONVersion}
	s.parseErr = nil
	return s.doc, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write through a temp file so a crash never leaves half a document
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) LoadUser() (*models.User, error) {
	if s.parseErr != nil {
		return nil, s.parseErr
	}
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	if s.doc.User == nil {
		return nil, nil
	}
	u := s.doc.User.Clone()
	return &u, nil
}

func (s *JSONStore) SaveUser(user models.User) error {
	doc, err := s.writable()
	if err != nil {
		return err
	}
	u := user.Clone()
	doc.User = &u
	return s.save()
}

func (s *JSONStore) Clear() error {
	doc, err := s.writable()
	if err != nil {
		return err
	}
	doc.User = nil
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
