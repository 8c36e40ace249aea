// Package progress derives engagement statistics from a habit log.
//
// Every call is a full recompute over the log it is given; nothing is cached
// or partially updated. Habit ids that the resolver cannot find still count
// as completions but add no time and no category.
package progress

import (
	"slices"
	"sort"
	"time"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/utils"
)

type Tracker struct {
	resolver catalog.Resolver
	loc      *time.Location
}

// NewTracker creates a tracker resolving habit ids through r. Calendar days
// are computed in loc; nil means the system local timezone.
func NewTracker(r catalog.Resolver, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{resolver: r, loc: loc}
}

// Compute returns overall stats for the whole log.
func (t *Tracker) Compute(logs []models.HabitLog) models.ProgressStats {
	completed := completedEntries(logs)
	stats := t.aggregate(completed)
	stats.StreakDays = t.streak(completed)
	return stats
}

// ForPeriod returns stats restricted to entries with start <= timestamp <= end.
// The streak is computed over the filtered entries only.
func (t *Tracker) ForPeriod(logs []models.HabitLog, start, end time.Time) models.ProgressStats {
	var inPeriod []models.HabitLog
	for _, l := range completedEntries(logs) {
		if l.Timestamp.Before(start) || l.Timestamp.After(end) {
			continue
		}
		inPeriod = append(inPeriod, l)
	}
	stats := t.aggregate(inPeriod)
	stats.StreakDays = t.streak(inPeriod)
	return stats
}

// Weekly returns stats from Sunday 00:00 of the current week until now.
func (t *Tracker) Weekly(logs []models.HabitLog, now time.Time) models.ProgressStats {
	return t.ForPeriod(logs, utils.StartOfWeek(now, t.loc), now)
}

// Monthly returns stats from the first of the current month until now.
func (t *Tracker) Monthly(logs []models.HabitLog, now time.Time) models.ProgressStats {
	return t.ForPeriod(logs, utils.StartOfMonth(now, t.loc), now)
}

// Streak returns the current run of consecutive calendar days with at least
// one completed entry, counted backward from the most recent such day.
func (t *Tracker) Streak(logs []models.HabitLog) int {
	return t.streak(completedEntries(logs))
}

func (t *Tracker) aggregate(completed []models.HabitLog) models.ProgressStats {
	stats := models.ProgressStats{TotalHabitsCompleted: len(completed)}
	counts := make(map[string]int)
	for _, l := range completed {
		h, ok := t.resolver.Lookup(l.HabitID)
		if !ok {
			continue
		}
		stats.TotalTimeSpent += h.DurationMin
		counts[h.Category]++
	}
	stats.FavoriteCategory = topCategory(counts)
	return stats
}

func (t *Tracker) streak(completed []models.HabitLog) int {
	if len(completed) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(completed))
	for _, l := range completed {
		days = append(days, utils.StartOfDay(l.Timestamp, t.loc))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	anchor := days[0]
	for _, d := range days[1:] {
		switch diff := utils.DaysBetween(d, anchor); {
		case diff == 0:
			// same calendar day counts once
		case diff == 1:
			streak++
			anchor = d
		default:
			return streak
		}
	}
	return streak
}

func completedEntries(logs []models.HabitLog) []models.HabitLog {
	var out []models.HabitLog
	for _, l := range logs {
		if l.Completed {
			out = append(out, l)
		}
	}
	return out
}

// topCategory picks the highest count; equal counts resolve to the
// lexicographically smallest category so results do not depend on map order.
func topCategory(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)

	best, bestCount := "", 0
	for _, name := range names {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
