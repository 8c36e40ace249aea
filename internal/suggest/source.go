// Package suggest produces habit candidates from an external text generator.
//
// A Source is optional. The engine treats every error or empty result from
// it as "no candidates" and falls back to the catalog.
package suggest

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by sources that lack credentials.
var ErrNotConfigured = errors.New("suggestion source not configured")

// Candidate is one generated habit idea, before it is given an id and tier.
type Candidate struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	DurationMin  int      `json:"duration_min"`
	Instructions []string `json:"instructions"`
}

// Source generates up to three candidates for an energy level. recentHabitIDs
// is ordered oldest first.
type Source interface {
	Generate(ctx context.Context, energyLevel int, recentHabitIDs, preferredCategories []string) ([]Candidate, error)
}

// None is the source used when generation is disabled.
type None struct{}

func (None) Generate(context.Context, int, []string, []string) ([]Candidate, error) {
	return nil, ErrNotConfigured
}
