// Package mongo keeps the user aggregate as a single MongoDB document.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage"
)

const opTimeout = 10 * time.Second

// record is the stored document. User is nil until onboarding saves one.
type record struct {
	ID      string       `bson:"_id"`
	Version int          `bson:"version"`
	User    *models.User `bson:"user"`
}

type Store struct {
	uri        string
	database   string
	collection string
	client     *mongodriver.Client
	coll       *mongodriver.Collection
}

func New(uri string) *Store {
	return &Store{
		uri:        uri,
		database:   constants.MongoDatabase,
		collection: constants.MongoUsersColl,
	}
}

func (s *Store) connect() error {
	if s.client != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(s.uri)
	clientOptions.SetServerSelectionTimeout(5 * time.Second)

	client, err := mongodriver.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	s.client = client
	s.coll = client.Database(s.database).Collection(s.collection)
	logger.Debug("Connected to MongoDB", "database", s.database)
	return nil
}

func (s *Store) filter() bson.M {
	return bson.M{"_id": constants.MongoCurrentUserID}
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// An existing document is kept as is
	update := bson.M{"$setOnInsert": bson.M{"version": storage.JSONVersion, "user": nil}}
	if _, err := s.coll.UpdateOne(ctx, s.filter(), update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to initialize MongoDB storage: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.connect(); err != nil {
		return err
	}

	rec, err := s.read()
	if errors.Is(err, storage.ErrUnreadable) {
		// LoadUser reports it; the next write replaces the document
		logger.Warn("MongoDB storage document is unreadable", "collection", s.collection, "error", err)
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Version > storage.JSONVersion {
		return fmt.Errorf("storage format version (%d) is newer than supported version (%d) - please upgrade the application", rec.Version, storage.JSONVersion)
	}
	return nil
}

func (s *Store) read() (*record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.coll.FindOne(ctx, s.filter()).Raw()
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, storage.ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read MongoDB storage: %w", err)
	}

	var rec record
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnreadable, err)
	}
	return &rec, nil
}

func (s *Store) write(u *models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rec := record{ID: constants.MongoCurrentUserID, Version: storage.JSONVersion, User: u}
	if _, err := s.coll.ReplaceOne(ctx, s.filter(), rec, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to write MongoDB storage: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.coll = nil
	return err
}

func (s *Store) LoadUser() (*models.User, error) {
	if s.coll == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	rec, err := s.read()
	if err != nil {
		return nil, err
	}
	return rec.User, nil
}

func (s *Store) SaveUser(u models.User) error {
	if s.coll == nil {
		return fmt.Errorf("storage not loaded")
	}
	return s.write(&u)
}

func (s *Store) Clear() error {
	if s.coll == nil {
		return fmt.Errorf("storage not loaded")
	}
	return s.write(nil)
}

func (s *Store) GetConfigPath() string {
	// Return a non-sensitive identifier instead of the full URI
	return "mongodb"
}
