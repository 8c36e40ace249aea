package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/models"
)

// Recorder appends completions and feedback to a user's history.
type Recorder struct {
	catalog *catalog.Catalog
	now     func() time.Time
	newID   func() string
}

func NewRecorder(cat *catalog.Catalog) *Recorder {
	return &Recorder{
		catalog: cat,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Resolver returns a lookup over the catalog and the user's generated habits.
func Resolver(cat *catalog.Catalog, user *models.User) catalog.Resolver {
	return catalog.Overlay(cat, user.GeneratedHabits)
}

// RecordCompletion appends exactly one log entry and returns it. Prior
// entries are never touched. Completed entries also refresh the user's
// preferred categories.
func (r *Recorder) RecordCompletion(user *models.User, habitID string, energyLevel int, completed bool) models.HabitLog {
	userID := user.ID
	if userID == "" {
		userID = constants.AnonymousUserID
	}

	entry := models.HabitLog{
		ID:          r.newID(),
		UserID:      userID,
		HabitID:     habitID,
		Timestamp:   r.now(),
		EnergyLevel: models.ClampEnergy(energyLevel),
		Completed:   completed,
	}
	user.HabitHistory = append(user.HabitHistory, entry)

	if completed {
		r.UpdatePreferredCategories(user)
	}
	return entry
}

// RecordFeedback appends one feedback entry, independent of any log entry.
func (r *Recorder) RecordFeedback(user *models.User, habitID string, feedback models.Feedback) (models.FeedbackData, error) {
	fb, err := models.ParseFeedback(string(feedback))
	if err != nil {
		return models.FeedbackData{}, err
	}

	entry := models.FeedbackData{
		HabitID:   habitID,
		Feedback:  fb,
		Timestamp: r.now(),
	}
	user.FeedbackHistory = append(user.FeedbackHistory, entry)
	return entry, nil
}

// UpdatePreferredCategories sets the user's preferred categories to the
// PreferredCategoryLimit categories with the most completed entries. Equal
// counts are ordered by name.
func (r *Recorder) UpdatePreferredCategories(user *models.User) {
	resolver := Resolver(r.catalog, user)

	counts := make(map[string]int)
	for _, l := range user.HabitHistory {
		if !l.Completed {
			continue
		}
		if h, ok := resolver.Lookup(l.HabitID); ok {
			counts[h.Category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > constants.PreferredCategoryLimit {
		categories = categories[:constants.PreferredCategoryLimit]
	}
	user.PreferredCategories = categories
}
