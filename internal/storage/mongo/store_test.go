package mongo

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vistara-apps/energyflow/internal/constants"

	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/storage/storagetest"
)

func TestInvalidURI(t *testing.T) {
	s := New("localhost:27017")
	assert.Error(t, s.Init())
}

func TestStoreNotLoaded(t *testing.T) {
	s := New("mongodb://localhost:27017")

	_, err := s.LoadUser()
	assert.Error(t, err)
	assert.Error(t, s.SaveUser(storagetest.SampleUser()))
	assert.Error(t, s.Clear())
	assert.NoError(t, s.Close())
	assert.Equal(t, "mongodb", s.GetConfigPath())
}

// TestStore_Integration runs the provider contract against a real server.
// Set ENERGYFLOW_TEST_MONGO to a URI such as mongodb://localhost:27017.
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("ENERGYFLOW_TEST_MONGO")
	if uri == "" {
		t.Skip("ENERGYFLOW_TEST_MONGO not set, skipping MongoDB integration test")
	}

	storagetest.Run(t, func(t *testing.T) storage.Provider {
		s := New(uri)
		s.database = "energyflow_test"
		s.collection = strings.ReplaceAll(t.Name(), "/", "_")
		return s
	})

	t.Run("LoadWithoutInit", func(t *testing.T) {
		s := New(uri)
		s.database = "energyflow_test"
		s.collection = "missing"
		defer s.Close()
		assert.ErrorIs(t, s.Load(), storage.ErrNotInitialized)
	})

	t.Run("UnreadableDocument", func(t *testing.T) {
		s := New(uri)
		s.database = "energyflow_test"
		s.collection = "unreadable"
		defer s.Close()
		require.NoError(t, s.connect())
		bad := bson.M{"_id": constants.MongoCurrentUserID, "version": "one", "user": "nobody"}
		_, err := s.coll.ReplaceOne(context.Background(), s.filter(), bad, options.Replace().SetUpsert(true))
		require.NoError(t, err)

		require.NoError(t, s.Load())
		_, err = s.LoadUser()
		assert.ErrorIs(t, err, storage.ErrUnreadable)

		require.NoError(t, s.SaveUser(storagetest.SampleUser()))
		u, err := s.LoadUser()
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, storagetest.SampleUser().ID, u.ID)
	})
}
