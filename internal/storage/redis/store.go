// Package redis keeps the user aggregate as one JSON document in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage"
)

const opTimeout = 5 * time.Second

type Store struct {
	url    string
	key    string
	client *goredis.Client
}

func New(url string) *Store {
	return &Store{
		url: url,
		key: constants.RedisUserKey,
	}
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	opt, err := goredis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("invalid Redis URL: %w", err)
	}
	opt.PoolSize = 4
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := goredis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	s.client = client
	logger.Debug("Connected to Redis", "addr", opt.Addr, "db", opt.DB)
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	data, err := json.Marshal(storage.Document{Version: storage.JSONVersion})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	// An existing document is kept as is
	if err := s.client.SetNX(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to initialize Redis storage: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}

	doc, err := s.read()
	if errors.Is(err, storage.ErrUnreadable) {
		// LoadUser reports it; the next write replaces the document
		logger.Warn("Redis storage document is unreadable", "key", s.key, "error", err)
		return nil
	}
	if err != nil {
		return err
	}
	if doc.Version > storage.JSONVersion {
		return fmt.Errorf("storage format version (%d) is newer than supported version (%d) - please upgrade the application", doc.Version, storage.JSONVersion)
	}
	return nil
}

func (s *Store) read() (*storage.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, storage.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read Redis storage: %w", err)
	}

	doc := &storage.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnreadable, err)
	}
	return doc, nil
}

func (s *Store) write(doc storage.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write Redis storage: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *Store) LoadUser() (*models.User, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return doc.User, nil
}

func (s *Store) SaveUser(u models.User) error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	return s.write(storage.Document{Version: storage.JSONVersion, User: &u})
}

func (s *Store) Clear() error {
	if s.client == nil {
		return fmt.Errorf("storage not loaded")
	}
	return s.write(storage.Document{Version: storage.JSONVersion})
}

func (s *Store) GetConfigPath() string {
	// Return a non-sensitive identifier instead of the full URL
	return "redis"
}
