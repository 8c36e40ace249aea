package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/suggest"
)

// fakeSource records its inputs and returns canned candidates.
type fakeSource struct {
	candidates []suggest.Candidate
	err        error

	calls     int
	level     int
	recent    []string
	preferred []string
}

func (f *fakeSource) Generate(_ context.Context, level int, recent, preferred []string) ([]suggest.Candidate, error) {
	f.calls++
	f.level, f.recent, f.preferred = level, recent, preferred
	return f.candidates, f.err
}

func TestSuggestTierForEveryLevel(t *testing.T) {
	cat := catalog.Default()
	sel := NewSelector(cat, nil)

	tests := []struct {
		level int
		want  models.EnergyTier
	}{
		{0, models.EnergyLow},
		{1, models.EnergyLow},
		{2, models.EnergyLow},
		{3, models.EnergyMedium},
		{4, models.EnergyHigh},
		{5, models.EnergyHigh},
		{9, models.EnergyHigh},
	}

	for _, tt := range tests {
		for _, user := range []*models.User{
			{},
			{HabitHistory: []models.HabitLog{logEntry("power-walk", true)}},
		} {
			s := sel.Suggest(context.Background(), tt.level, user)
			require.True(t, s.Found())
			assert.Equal(t, tt.want, s.Habit.Energy, "level %d", tt.level)
			assert.Equal(t, tt.want, s.Tier, "level %d", tt.level)
			_, inCatalog := cat.Lookup(s.Habit.ID)
			assert.True(t, inCatalog, s.Habit.ID)
		}
	}
}

func TestSuggestEmptyHistoryIsRandom(t *testing.T) {
	sel := NewSelector(catalog.Default(), nil)

	seen := make(map[string]bool)
	for range 200 {
		s := sel.Suggest(context.Background(), 3, &models.User{})
		assert.Equal(t, OriginRandom, s.Origin)
		assert.Equal(t, models.EnergyMedium, s.Habit.Energy)
		seen[s.Habit.ID] = true
	}
	assert.Greater(t, len(seen), 1, "random picks should vary")
}

func TestSuggestNilUser(t *testing.T) {
	s := NewSelector(catalog.Default(), nil).Suggest(context.Background(), 1, nil)
	assert.Equal(t, OriginRandom, s.Origin)
	assert.Equal(t, models.EnergyLow, s.Habit.Energy)
}

func TestSuggestScoredPicksTopHabit(t *testing.T) {
	sel := NewSelector(catalog.Default(), nil)
	user := &models.User{
		FeedbackHistory: []models.FeedbackData{feedbackEntry("learning-bite", models.FeedbackHelpful)},
	}

	s := sel.Suggest(context.Background(), 5, user)

	assert.Equal(t, OriginScored, s.Origin)
	assert.Equal(t, "learning-bite", s.Habit.ID)
	require.Len(t, s.Scores, 3)
	assert.Equal(t, 2.0, s.Scores[0].Score)
}

func TestSuggestScoredTieKeepsCatalogOrder(t *testing.T) {
	sel := NewSelector(catalog.Default(), nil)
	// history exists but touches nothing in the low tier
	user := &models.User{HabitHistory: []models.HabitLog{logEntry("power-walk", true)}}

	s := sel.Suggest(context.Background(), 1, user)

	assert.Equal(t, OriginScored, s.Origin)
	assert.Equal(t, "deep-breathing", s.Habit.ID)
}

func TestSuggestFeedbackOnlyCountsAsHistory(t *testing.T) {
	sel := NewSelector(catalog.Default(), nil)
	user := &models.User{
		FeedbackHistory: []models.FeedbackData{feedbackEntry("deep-breathing", models.FeedbackNotHelpful)},
	}

	s := sel.Suggest(context.Background(), 2, user)

	assert.Equal(t, OriginScored, s.Origin)
	assert.NotEqual(t, "deep-breathing", s.Habit.ID)
}

func TestSuggestGenerated(t *testing.T) {
	src := &fakeSource{candidates: []suggest.Candidate{
		{Name: "Window Gaze", Description: "Rest your eyes", Category: "Wellness", DurationMin: 9, Instructions: []string{"Look outside"}},
		{Name: "Second", Description: "Ignored", Category: "Learning", DurationMin: 2},
	}}
	sel := NewSelector(catalog.Default(), src)
	user := &models.User{
		PreferredCategories: []string{"Wellness"},
		HabitHistory:        []models.HabitLog{logEntry("quick-tidy", true)},
	}

	s := sel.Suggest(context.Background(), 8, user)

	assert.Equal(t, OriginGenerated, s.Origin)
	assert.Empty(t, s.Reason)
	assert.True(t, strings.HasPrefix(s.Habit.ID, "ai_"), s.Habit.ID)
	assert.Equal(t, "Window Gaze", s.Habit.Name)
	assert.Equal(t, models.EnergyHigh, s.Habit.Energy)
	assert.Equal(t, 5, s.Habit.DurationMin)

	assert.Equal(t, 5, src.level, "source receives the clamped level")
	assert.Equal(t, []string{"quick-tidy"}, src.recent)
	assert.Equal(t, []string{"Wellness"}, src.preferred)

	remembered, ok := user.FindGeneratedHabit(s.Habit.ID)
	require.True(t, ok)
	assert.Equal(t, s.Habit, remembered)

	again := sel.Suggest(context.Background(), 8, user)
	assert.NotEqual(t, s.Habit.ID, again.Habit.ID, "each generated habit gets a fresh id")
	assert.Len(t, user.GeneratedHabits, 2)
}

func TestSuggestSourceFailureFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
		reason string
	}{
		{"error", &fakeSource{err: errors.New("connection refused")}, "connection refused"},
		{"not configured", &fakeSource{err: suggest.ErrNotConfigured}, suggest.ErrNotConfigured.Error()},
		{"empty", &fakeSource{}, "no candidates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(catalog.Default(), tt.source)
			user := &models.User{}

			s := sel.Suggest(context.Background(), 3, user)

			assert.Equal(t, 1, tt.source.calls)
			assert.Equal(t, OriginRandom, s.Origin)
			assert.Equal(t, models.EnergyMedium, s.Habit.Energy)
			assert.Equal(t, tt.reason, s.Reason)
			assert.Empty(t, user.GeneratedHabits)
		})
	}
}

func TestSuggestEmptyTierUsesWholeCatalog(t *testing.T) {
	cat := catalog.New([]models.Habit{
		{ID: "only-high", Name: "High", Category: "Movement", DurationMin: 2, Energy: models.EnergyHigh},
	})
	sel := NewSelector(cat, nil)

	for _, user := range []*models.User{{}, {HabitHistory: []models.HabitLog{logEntry("only-high", true)}}} {
		s := sel.Suggest(context.Background(), 1, user)
		assert.Equal(t, "only-high", s.Habit.ID)
		assert.Equal(t, OriginRandom, s.Origin)
	}
}

func TestSuggestEmptyCatalog(t *testing.T) {
	s := NewSelector(catalog.New(nil), nil).Suggest(context.Background(), 3, &models.User{})
	assert.False(t, s.Found())
}
