package progress

import (
	"math"
	"sort"
	"time"

	"github.com/vistara-apps/energyflow/internal/constants"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/utils"
)

// DailyCount is the number of completed entries on one calendar day.
type DailyCount struct {
	Date      time.Time `json:"date"`
	Label     string    `json:"label"` // e.g. "Mar 6"
	Completed int       `json:"completed"`
}

// EnergyShare is the share of log entries that were prompted by one energy tier.
type EnergyShare struct {
	Level      string `json:"level"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Insights summarizes attempts as well as completions.
type Insights struct {
	TotalAttempted   int     `json:"total_attempted"`
	TotalCompleted   int     `json:"total_completed"`
	CompletionRate   float64 `json:"completion_rate"`   // percent
	AverageEnergy    int     `json:"average_energy"`    // rounded; DefaultEnergyLevel with no history
	ConsistencyScore int     `json:"consistency_score"` // 0-100
	FavoriteCategory string  `json:"favorite_category"`
}

// DailyCompletions returns one entry per day for the last days days ending
// with now's day, oldest first.
func (t *Tracker) DailyCompletions(logs []models.HabitLog, days int, now time.Time) []DailyCount {
	if days <= 0 {
		return nil
	}

	perDay := make(map[time.Time]int)
	for _, l := range logs {
		if l.Completed {
			perDay[utils.StartOfDay(l.Timestamp, t.loc)]++
		}
	}

	today := utils.StartOfDay(now, t.loc)
	out := make([]DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		out = append(out, DailyCount{
			Date:      day,
			Label:     day.Format("Jan 2"),
			Completed: perDay[day],
		})
	}
	return out
}

// EnergyDistribution counts every log entry (completed or not) by the tier
// of its energy level, largest share first.
func EnergyDistribution(logs []models.HabitLog) []EnergyShare {
	total := len(logs)
	if total == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, l := range logs {
		counts[models.TierForEnergy(l.EnergyLevel).Label()]++
	}

	out := make([]EnergyShare, 0, len(counts))
	for level, count := range counts {
		out = append(out, EnergyShare{
			Level:      level,
			Count:      count,
			Percentage: int(math.Round(float64(count) / float64(total) * 100)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Level < out[j].Level
	})
	return out
}

// Insights computes attempt-level statistics. The favorite category here
// counts every attempt, not only completions.
func (t *Tracker) Insights(logs []models.HabitLog) Insights {
	ins := Insights{TotalAttempted: len(logs), AverageEnergy: constants.DefaultEnergyLevel}
	if len(logs) == 0 {
		return ins
	}

	energySum := 0
	counts := make(map[string]int)
	for _, l := range logs {
		if l.Completed {
			ins.TotalCompleted++
		}
		energySum += l.EnergyLevel
		if h, ok := t.resolver.Lookup(l.HabitID); ok {
			counts[h.Category]++
		}
	}

	ins.CompletionRate = float64(ins.TotalCompleted) / float64(ins.TotalAttempted) * 100
	ins.ConsistencyScore = int(math.Round(ins.CompletionRate))
	ins.AverageEnergy = int(math.Round(float64(energySum) / float64(ins.TotalAttempted)))
	ins.FavoriteCategory = topCategory(counts)
	return ins
}
