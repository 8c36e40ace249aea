package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/vistara-apps/energyflow/internal/constants"
)

// User is the root aggregate. It owns both histories and every generated habit
// that was suggested to it, so persisting the user persists all of them.
type User struct {
	ID                  string         `json:"id" bson:"id"`
	WalletAddress       string         `json:"wallet_address,omitempty" bson:"wallet_address,omitempty"`
	SocialID            string         `json:"social_id,omitempty" bson:"social_id,omitempty"`
	PreferredCategories []string       `json:"preferred_categories" bson:"preferred_categories"`
	HabitHistory        []HabitLog     `json:"habit_history" bson:"habit_history"`
	FeedbackHistory     []FeedbackData `json:"feedback_history" bson:"feedback_history"`
	GeneratedHabits     []Habit        `json:"generated_habits,omitempty" bson:"generated_habits,omitempty"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
}

// HasHistory reports whether the user has logged or rated anything yet.
func (u *User) HasHistory() bool {
	return len(u.HabitHistory) > 0 || len(u.FeedbackHistory) > 0
}

// RecentHabitIDs returns the habit ids of the last n log entries, oldest first.
func (u *User) RecentHabitIDs(n int) []string {
	logs := u.HabitHistory
	if n >= 0 && len(logs) > n {
		logs = logs[len(logs)-n:]
	}
	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.HabitID)
	}
	return ids
}

// Validate reports the first value the engine would otherwise clamp or skip:
// a repeated log id, an energy level outside 1-5, or an unknown feedback value.
func (u *User) Validate() error {
	ids := make(map[string]bool, len(u.HabitHistory))
	for _, l := range u.HabitHistory {
		if ids[l.ID] {
			return fmt.Errorf("duplicate log entry ID found: %s", l.ID)
		}
		ids[l.ID] = true
		if l.EnergyLevel < constants.MinEnergyLevel || l.EnergyLevel > constants.MaxEnergyLevel {
			return fmt.Errorf("log entry %s has energy level %d outside 1-5", l.ID, l.EnergyLevel)
		}
		if l.Feedback != nil {
			if _, err := ParseFeedback(string(*l.Feedback)); err != nil {
				return fmt.Errorf("log entry %s: %w", l.ID, err)
			}
		}
	}

	for _, f := range u.FeedbackHistory {
		if _, err := ParseFeedback(string(f.Feedback)); err != nil {
			return fmt.Errorf("feedback for %s: %w", f.HabitID, err)
		}
	}
	return nil
}

// FindGeneratedHabit looks up a generated habit remembered on the user.
func (u *User) FindGeneratedHabit(id string) (Habit, bool) {
	for _, h := range u.GeneratedHabits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// Clone returns a deep copy, so stores can hand out users without sharing
// slices with their cached state.
func (u User) Clone() User {
	c := u
	c.PreferredCategories = slices.Clone(u.PreferredCategories)
	c.HabitHistory = slices.Clone(u.HabitHistory)
	for i, l := range c.HabitHistory {
		if l.Feedback != nil {
			fb := *l.Feedback
			c.HabitHistory[i].Feedback = &fb
		}
	}
	c.FeedbackHistory = slices.Clone(u.FeedbackHistory)
	c.GeneratedHabits = slices.Clone(u.GeneratedHabits)
	for i, h := range c.GeneratedHabits {
		c.GeneratedHabits[i].Instructions = slices.Clone(h.Instructions)
	}
	return c
}
