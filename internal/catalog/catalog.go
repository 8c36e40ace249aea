// Package catalog holds the built-in, read-only habit table.
package catalog

import (
	"slices"

	"github.com/vistara-apps/energyflow/internal/models"
)

// Resolver looks up a habit by id. Both the catalog and overlays of
// generated habits implement it.
type Resolver interface {
	Lookup(id string) (models.Habit, bool)
}

// Catalog is an immutable habit table. Construct it once and share it.
type Catalog struct {
	habits []models.Habit
	byID   map[string]int
}

// New builds a catalog from habits, keeping their order. Later duplicates
// of an id are ignored.
func New(habits []models.Habit) *Catalog {
	c := &Catalog{
		habits: make([]models.Habit, 0, len(habits)),
		byID:   make(map[string]int, len(habits)),
	}
	for _, h := range habits {
		if _, dup := c.byID[h.ID]; dup {
			continue
		}
		h.Instructions = slices.Clone(h.Instructions)
		c.byID[h.ID] = len(c.habits)
		c.habits = append(c.habits, h)
	}
	return c
}

// Lookup returns the habit with the given id.
func (c *Catalog) Lookup(id string) (models.Habit, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Habit{}, false
	}
	return copyHabit(c.habits[i]), true
}

// All returns every habit in catalog order.
func (c *Catalog) All() []models.Habit {
	out := make([]models.Habit, len(c.habits))
	for i, h := range c.habits {
		out[i] = copyHabit(h)
	}
	return out
}

// ByTier returns the habits of one energy tier in catalog order.
func (c *Catalog) ByTier(tier models.EnergyTier) []models.Habit {
	var out []models.Habit
	for _, h := range c.habits {
		if h.Energy == tier {
			out = append(out, copyHabit(h))
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, h := range c.habits {
		if !slices.Contains(out, h.Category) {
			out = append(out, h.Category)
		}
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.habits)
}

func copyHabit(h models.Habit) models.Habit {
	h.Instructions = slices.Clone(h.Instructions)
	return h
}

type overlay struct {
	base  Resolver
	extra map[string]models.Habit
}

// Overlay resolves ids against extra first, then base. It is used to make
// generated habits visible to stats without touching the catalog.
func Overlay(base Resolver, extra []models.Habit) Resolver {
	if len(extra) == 0 {
		return base
	}
	o := overlay{base: base, extra: make(map[string]models.Habit, len(extra))}
	for _, h := range extra {
		o.extra[h.ID] = h
	}
	return o
}

func (o overlay) Lookup(id string) (models.Habit, bool) {
	if h, ok := o.extra[id]; ok {
		return copyHabit(h), true
	}
	return o.base.Lookup(id)
}
