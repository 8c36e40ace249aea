package models

import (
	"fmt"
	"time"

	"github.com/vistara-apps/energyflow/internal/constants"
)

type EnergyTier string

const (
	EnergyLow    EnergyTier = "low"
	EnergyMedium EnergyTier = "medium"
	EnergyHigh   EnergyTier = "high"
)

// Tiers lists every energy tier from lowest to highest.
var Tiers = []EnergyTier{EnergyLow, EnergyMedium, EnergyHigh}

// Label returns the display label used in stats output.
func (t EnergyTier) Label() string {
	switch t {
	case EnergyLow:
		return "Low"
	case EnergyMedium:
		return "Medium"
	case EnergyHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ClampEnergy forces an energy level into the supported 1-5 range.
func ClampEnergy(level int) int {
	if level < constants.MinEnergyLevel {
		return constants.MinEnergyLevel
	}
	if level > constants.MaxEnergyLevel {
		return constants.MaxEnergyLevel
	}
	return level
}

// TierForEnergy maps a self-reported energy level to its tier.
// 1-2 are low, 3 is medium and 4-5 are high. Out-of-range values are clamped first.
func TierForEnergy(level int) EnergyTier {
	switch level = ClampEnergy(level); {
	case level <= 2:
		return EnergyLow
	case level == 3:
		return EnergyMedium
	default:
		return EnergyHigh
	}
}

// ClampDuration forces a habit duration into the 1-5 minute range.
func ClampDuration(minutes int) int {
	if minutes < constants.MinHabitDurationMin {
		return constants.MinHabitDurationMin
	}
	if minutes > constants.MaxHabitDurationMin {
		return constants.MaxHabitDurationMin
	}
	return minutes
}

type Feedback string

const (
	FeedbackHelpful    Feedback = "helpful"
	FeedbackNotHelpful Feedback = "not_helpful"
)

// ParseFeedback validates a feedback value coming from user input.
func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(s) {
	case FeedbackHelpful, FeedbackNotHelpful:
		return Feedback(s), nil
	default:
		return "", fmt.Errorf("invalid feedback %q (expected %q or %q)", s, FeedbackHelpful, FeedbackNotHelpful)
	}
}

// Habit is a short suggested activity. Catalog habits never change at runtime.
type Habit struct {
	ID           string     `json:"id" bson:"id"`
	Name         string     `json:"name" bson:"name"`
	Description  string     `json:"description" bson:"description"`
	Category     string     `json:"category" bson:"category"`
	DurationMin  int        `json:"duration_min" bson:"duration_min"`
	Energy       EnergyTier `json:"energy" bson:"energy"`
	Instructions []string   `json:"instructions" bson:"instructions"`
}

// HabitLog records one start/complete action. Entries are appended and never rewritten.
type HabitLog struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	HabitID     string    `json:"habit_id" bson:"habit_id"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	EnergyLevel int       `json:"energy_level" bson:"energy_level"` // 1-5, the level that prompted the suggestion
	Completed   bool      `json:"completed" bson:"completed"`
	Feedback    *Feedback `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// FeedbackData records a rating of a habit, independent of any HabitLog.
type FeedbackData struct {
	HabitID   string    `json:"habit_id" bson:"habit_id"`
	Feedback  Feedback  `json:"feedback" bson:"feedback"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
