package engine

import (
	"context"
	"math/rand/v2"

	"github.com/lithammer/shortuuid/v4"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/logger"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/suggest"
)

// Origin tells which path produced a suggestion.
type Origin string

const (
	OriginGenerated Origin = "generated"
	OriginScored    Origin = "scored"
	OriginRandom    Origin = "random"
)

// Suggestion is the result of Selector.Suggest.
type Suggestion struct {
	Habit  models.Habit      `json:"habit"`
	Tier   models.EnergyTier `json:"tier"`
	Origin Origin            `json:"origin"`
	// Scores holds the ranked tier when Origin is OriginScored.
	Scores []ScoredHabit `json:"scores,omitempty"`
	// Reason explains why the generated path was not used. Empty when it was,
	// or when no source is configured.
	Reason string `json:"reason,omitempty"`
}

// Found reports whether a habit was selected. It is false only for an empty catalog.
func (s Suggestion) Found() bool {
	return s.Habit.ID != ""
}

// Selector picks a habit for an energy level: generated first, then scored,
// then random.
type Selector struct {
	catalog *catalog.Catalog
	source  suggest.Source
	intn    func(n int) int
	newID   func() string
}

// NewSelector creates a selector over cat. A nil source disables generation.
func NewSelector(cat *catalog.Catalog, source suggest.Source) *Selector {
	return &Selector{
		catalog: cat,
		source:  source,
		intn:    rand.IntN,
		newID:   func() string { return constants.GeneratedHabitPrefix + shortuuid.New() },
	}
}

// Suggest returns a habit for energyLevel. It never fails: source errors
// are logged and the catalog is used instead. A generated habit is appended
// to user.GeneratedHabits so later stats can resolve its id.
func (s *Selector) Suggest(ctx context.Context, energyLevel int, user *models.User) Suggestion {
	if user == nil {
		user = &models.User{}
	}
	level := models.ClampEnergy(energyLevel)
	tier := models.TierForEnergy(level)

	var reason string
	if s.source != nil {
		habit, why, ok := s.generate(ctx, level, tier, user)
		if ok {
			user.GeneratedHabits = append(user.GeneratedHabits, habit)
			return Suggestion{Habit: habit, Tier: tier, Origin: OriginGenerated}
		}
		reason = why
	}

	tierHabits := s.catalog.ByTier(tier)
	if !user.HasHistory() || len(tierHabits) == 0 {
		return Suggestion{Habit: s.pickRandom(tierHabits), Tier: tier, Origin: OriginRandom, Reason: reason}
	}

	scores := Analyze(s.catalog, tier, user.FeedbackHistory, user.HabitHistory, user.PreferredCategories)
	ranked := Rank(tierHabits, scores)
	return Suggestion{Habit: ranked[0].Habit, Tier: tier, Origin: OriginScored, Scores: ranked, Reason: reason}
}

func (s *Selector) generate(ctx context.Context, level int, tier models.EnergyTier, user *models.User) (models.Habit, string, bool) {
	candidates, err := s.source.Generate(ctx, level, user.RecentHabitIDs(constants.RecentHistoryInPrompt), user.PreferredCategories)
	if err != nil {
		logger.Debug("Suggestion source unavailable, using catalog", "error", err)
		return models.Habit{}, err.Error(), false
	}
	if len(candidates) == 0 {
		logger.Debug("Suggestion source returned no candidates, using catalog")
		return models.Habit{}, "no candidates", false
	}

	c := candidates[0]
	return models.Habit{
		ID:           s.newID(),
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		DurationMin:  models.ClampDuration(c.DurationMin),
		Energy:       tier,
		Instructions: append([]string(nil), c.Instructions...),
	}, "", true
}

// pickRandom draws uniformly from habits, or from the full catalog when
// habits is empty.
func (s *Selector) pickRandom(habits []models.Habit) models.Habit {
	if len(habits) == 0 {
		habits = s.catalog.All()
	}
	if len(habits) == 0 {
		return models.Habit{}
	}
	return habits[s.intn(len(habits))]
}
