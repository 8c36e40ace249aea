// Package storagetest holds the behavior every storage.Provider must share.
package storagetest

import (
	"testing"
	"time"

	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/storage"
)

// SampleUser returns a user with every field populated, including a
// generated habit and an inline feedback value.
func SampleUser() models.User {
	base := time.Date(2024, 3, 4, 9, 15, 30, 0, time.UTC)
	helpful := models.FeedbackHelpful
	return models.User{
		ID:                  "user-1",
		WalletAddress:       "0xabc123",
		SocialID:            "fc:42",
		PreferredCategories: []string{"Movement", "Mindfulness"},
		HabitHistory: []models.HabitLog{
			{ID: "log-1", UserID: "user-1", HabitID: "power-walk", Timestamp: base, EnergyLevel: 4, Completed: true},
			{ID: "log-2", UserID: "user-1", HabitID: "deep-breathing", Timestamp: base.Add(26 * time.Hour), EnergyLevel: 1, Completed: false},
			{ID: "log-3", UserID: "user-1", HabitID: "ai_gen1", Timestamp: base.Add(50 * time.Hour), EnergyLevel: 5, Completed: true, Feedback: &helpful},
		},
		FeedbackHistory: []models.FeedbackData{
			{HabitID: "power-walk", Feedback: models.FeedbackHelpful, Timestamp: base.Add(time.Minute)},
			{HabitID: "deep-breathing", Feedback: models.FeedbackNotHelpful, Timestamp: base.Add(26*time.Hour + time.Minute)},
		},
		GeneratedHabits: []models.Habit{
			{
				ID:           "ai_gen1",
				Name:         "Window Gaze",
				Description:  "Rest your eyes on something far away",
				Category:     "Wellness",
				DurationMin:  2,
				Energy:       models.EnergyHigh,
				Instructions: []string{"Look outside", "Breathe"},
			},
		},
		CreatedAt: base.Add(-time.Hour),
	}
}

// Run exercises the Provider contract. newStore must return an
// uninitialized store over empty, isolated storage.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Run("EmptyStoreHasNoUser", func(t *testing.T) {
		s := open(t, newStore)
		u, err := s.LoadUser()
		if err != nil {
			t.Fatalf("LoadUser() error: %v", err)
		}
		if u != nil {
			t.Errorf("LoadUser() = %+v, want nil", u)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		s := open(t, newStore)
		want := SampleUser()
		if err := s.SaveUser(want); err != nil {
			t.Fatalf("SaveUser() error: %v", err)
		}

		got, err := s.LoadUser()
		if err != nil {
			t.Fatalf("LoadUser() error: %v", err)
		}
		if got == nil {
			t.Fatal("LoadUser() returned nil after SaveUser")
		}
		AssertUsersEqual(t, want, *got)
	})

	t.Run("SaveReplacesAggregate", func(t *testing.T) {
		s := open(t, newStore)
		u := SampleUser()
		if err := s.SaveUser(u); err != nil {
			t.Fatalf("SaveUser() error: %v", err)
		}

		u.HabitHistory = append(u.HabitHistory, models.HabitLog{
			ID: "log-4", UserID: u.ID, HabitID: "quick-tidy",
			Timestamp: u.HabitHistory[2].Timestamp.Add(time.Hour), EnergyLevel: 3, Completed: true,
		})
		u.FeedbackHistory = u.FeedbackHistory[:1]
		u.PreferredCategories = []string{"Organization"}
		u.WalletAddress = ""
		if err := s.SaveUser(u); err != nil {
			t.Fatalf("second SaveUser() error: %v", err)
		}

		got, err := s.LoadUser()
		if err != nil || got == nil {
			t.Fatalf("LoadUser() = %v, %v", got, err)
		}
		AssertUsersEqual(t, u, *got)
	})

	t.Run("Clear", func(t *testing.T) {
		s := open(t, newStore)
		if err := s.SaveUser(SampleUser()); err != nil {
			t.Fatalf("SaveUser() error: %v", err)
		}
		if err := s.Clear(); err != nil {
			t.Fatalf("Clear() error: %v", err)
		}
		u, err := s.LoadUser()
		if err != nil {
			t.Fatalf("LoadUser() error: %v", err)
		}
		if u != nil {
			t.Errorf("LoadUser() after Clear = %+v, want nil", u)
		}
	})

	t.Run("InitIsIdempotent", func(t *testing.T) {
		s := open(t, newStore)
		if err := s.SaveUser(SampleUser()); err != nil {
			t.Fatalf("SaveUser() error: %v", err)
		}
		if err := s.Init(); err != nil {
			t.Fatalf("second Init() error: %v", err)
		}
		u, err := s.LoadUser()
		if err != nil || u == nil {
			t.Fatalf("LoadUser() after second Init = %v, %v", u, err)
		}
	})
}

func open(t *testing.T, newStore func(t *testing.T) storage.Provider) storage.Provider {
	t.Helper()
	s := newStore(t)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Clear()
		_ = s.Close()
	})
	return s
}

// AssertUsersEqual compares two users field by field. Timestamps only need
// to match to the second, and nil and empty slices are treated alike.
func AssertUsersEqual(t *testing.T, want, got models.User) {
	t.Helper()

	if got.ID != want.ID || got.WalletAddress != want.WalletAddress || got.SocialID != want.SocialID {
		t.Errorf("identity = %q/%q/%q, want %q/%q/%q",
			got.ID, got.WalletAddress, got.SocialID, want.ID, want.WalletAddress, want.SocialID)
	}
	if !sameSecond(got.CreatedAt, want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if !equalStrings(got.PreferredCategories, want.PreferredCategories) {
		t.Errorf("PreferredCategories = %v, want %v", got.PreferredCategories, want.PreferredCategories)
	}

	if len(got.HabitHistory) != len(want.HabitHistory) {
		t.Fatalf("len(HabitHistory) = %d, want %d", len(got.HabitHistory), len(want.HabitHistory))
	}
	for i, w := range want.HabitHistory {
		g := got.HabitHistory[i]
		if g.ID != w.ID || g.UserID != w.UserID || g.HabitID != w.HabitID ||
			g.EnergyLevel != w.EnergyLevel || g.Completed != w.Completed {
			t.Errorf("HabitHistory[%d] = %+v, want %+v", i, g, w)
		}
		if !sameSecond(g.Timestamp, w.Timestamp) {
			t.Errorf("HabitHistory[%d].Timestamp = %v, want %v", i, g.Timestamp, w.Timestamp)
		}
		if (g.Feedback == nil) != (w.Feedback == nil) || (g.Feedback != nil && *g.Feedback != *w.Feedback) {
			t.Errorf("HabitHistory[%d].Feedback = %v, want %v", i, g.Feedback, w.Feedback)
		}
	}

	if len(got.FeedbackHistory) != len(want.FeedbackHistory) {
		t.Fatalf("len(FeedbackHistory) = %d, want %d", len(got.FeedbackHistory), len(want.FeedbackHistory))
	}
	for i, w := range want.FeedbackHistory {
		g := got.FeedbackHistory[i]
		if g.HabitID != w.HabitID || g.Feedback != w.Feedback || !sameSecond(g.Timestamp, w.Timestamp) {
			t.Errorf("FeedbackHistory[%d] = %+v, want %+v", i, g, w)
		}
	}

	if len(got.GeneratedHabits) != len(want.GeneratedHabits) {
		t.Fatalf("len(GeneratedHabits) = %d, want %d", len(got.GeneratedHabits), len(want.GeneratedHabits))
	}
	for i, w := range want.GeneratedHabits {
		g := got.GeneratedHabits[i]
		if g.ID != w.ID || g.Name != w.Name || g.Description != w.Description || g.Category != w.Category ||
			g.DurationMin != w.DurationMin || g.Energy != w.Energy || !equalStrings(g.Instructions, w.Instructions) {
			t.Errorf("GeneratedHabits[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func sameSecond(a, b time.Time) bool {
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
