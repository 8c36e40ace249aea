// Package engine scores catalog habits against a user's history, picks a
// suggestion for an energy level and records completions and feedback.
//
// Functions here mutate the *models.User they are given and never touch
// storage. Persisting the aggregate is the caller's job.
package engine

import (
	"sort"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/models"
)

// ScoredHabit pairs a catalog habit with its preference score.
type ScoredHabit struct {
	Habit models.Habit `json:"habit"`
	Score float64      `json:"score"`
}

// Analyze returns a score for every catalog habit in tier.
//
// Feedback adds ScoreHelpful or ScoreNotHelpful, each of the last
// RecentCompletionWindow log entries adds ScoreCompleted or ScoreSkipped, and
// each preferred category adds ScorePreferredCategory to matching habits.
// Entries referring to habits outside the tier, or not in the catalog at
// all, contribute nothing.
func Analyze(cat *catalog.Catalog, tier models.EnergyTier, feedback []models.FeedbackData, completions []models.HabitLog, preferred []string) map[string]float64 {
	tierHabits := cat.ByTier(tier)
	scores := make(map[string]float64, len(tierHabits))
	for _, h := range tierHabits {
		scores[h.ID] = 0
	}

	for _, f := range feedback {
		if _, ok := scores[f.HabitID]; !ok {
			continue
		}
		switch f.Feedback {
		case models.FeedbackHelpful:
			scores[f.HabitID] += constants.ScoreHelpful
		case models.FeedbackNotHelpful:
			scores[f.HabitID] += constants.ScoreNotHelpful
		}
	}

	recent := completions
	if len(recent) > constants.RecentCompletionWindow {
		recent = recent[len(recent)-constants.RecentCompletionWindow:]
	}
	for _, l := range recent {
		if _, ok := scores[l.HabitID]; !ok {
			continue
		}
		if l.Completed {
			scores[l.HabitID] += constants.ScoreCompleted
		} else {
			scores[l.HabitID] += constants.ScoreSkipped
		}
	}

	for _, category := range preferred {
		for _, h := range tierHabits {
			if h.Category == category {
				scores[h.ID] += constants.ScorePreferredCategory
			}
		}
	}

	return scores
}

// Rank orders habits by score, highest first. Equal scores keep the input
// order, which for catalog habits is catalog order.
func Rank(habits []models.Habit, scores map[string]float64) []ScoredHabit {
	ranked := make([]ScoredHabit, len(habits))
	for i, h := range habits {
		ranked[i] = ScoredHabit{Habit: h, Score: scores[h.ID]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Recommendations returns the top RecommendationsPerTier scored habits for
// every tier.
func Recommendations(cat *catalog.Catalog, user *models.User) map[models.EnergyTier][]ScoredHabit {
	out := make(map[models.EnergyTier][]ScoredHabit, len(models.Tiers))
	for _, tier := range models.Tiers {
		scores := Analyze(cat, tier, user.FeedbackHistory, user.HabitHistory, user.PreferredCategories)
		ranked := Rank(cat.ByTier(tier), scores)
		if len(ranked) > constants.RecommendationsPerTier {
			ranked = ranked[:constants.RecommendationsPerTier]
		}
		out[tier] = ranked
	}
	return out
}
