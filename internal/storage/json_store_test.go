package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vistara-apps/energyflow/internal/storage"
	"github.com/vistara-apps/energyflow/internal/storage/storagetest"
)

func TestJSONStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return storage.NewJSONStore(filepath.Join(t.TempDir(), "energyflow.json"))
	})
}

func TestJSONStoreLoadBeforeInit(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestJSONStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "energyflow.json")

	first := storage.NewJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	want := storagetest.SampleUser()
	if err := first.SaveUser(want); err != nil {
		t.Fatalf("SaveUser() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	second := storage.NewJSONStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got, err := second.LoadUser()
	if err != nil || got == nil {
		t.Fatalf("LoadUser() = %v, %v", got, err)
	}
	storagetest.AssertUsersEqual(t, want, *got)

	// the JSON encoding keeps full precision
	if !got.HabitHistory[0].Timestamp.Equal(want.HabitHistory[0].Timestamp) {
		t.Errorf("timestamp changed: %v vs %v", got.HabitHistory[0].Timestamp, want.HabitHistory[0].Timestamp)
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energyflow.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil for unreadable data", err)
	}
	if _, err := s.LoadUser(); !errors.Is(err, storage.ErrUnreadable) {
		t.Fatalf("LoadUser() error = %v, want ErrUnreadable", err)
	}

	want := storagetest.SampleUser()
	if err := s.SaveUser(want); err != nil {
		t.Fatalf("SaveUser() error: %v", err)
	}

	reopened := storage.NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() after save error: %v", err)
	}
	got, err := reopened.LoadUser()
	if err != nil || got == nil {
		t.Fatalf("LoadUser() = %v, %v", got, err)
	}
	storagetest.AssertUsersEqual(t, want, *got)
}

func TestJSONStoreCorruptFileClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energyflow.json")
	if err := os.WriteFile(path, []byte(`{"version": "one"}`), 0600); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	u, err := s.LoadUser()
	if err != nil || u != nil {
		t.Errorf("LoadUser() after Clear = %v, %v; want nil, nil", u, err)
	}
}

func TestJSONStoreNewerVersionIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energyflow.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := storage.NewJSONStore(path).Load(); err == nil {
		t.Error("Load() should fail on a newer format version")
	}
}

func TestJSONStoreLoadedUserIsACopy(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "energyflow.json"))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUser(storagetest.SampleUser()); err != nil {
		t.Fatal(err)
	}

	u, _ := s.LoadUser()
	u.PreferredCategories[0] = "Changed"

	again, _ := s.LoadUser()
	if again.PreferredCategories[0] != "Movement" {
		t.Error("mutating a loaded user changed the store's state")
	}
}
