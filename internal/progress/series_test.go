package progress

import (
	"testing"

	"github.com/vistara-apps/energyflow/internal/models"
)

func TestDailyCompletions(t *testing.T) {
	logs := []models.HabitLog{
		done("power-walk", day(4, 9)),
		done("power-walk", day(4, 10)),
		skipped("power-walk", day(5, 9)),
		done("power-walk", day(6, 9)),
	}

	series := newTestTracker().DailyCompletions(logs, 3, day(6, 20))

	if len(series) != 3 {
		t.Fatalf("expected 3 days, got %d", len(series))
	}
	want := []struct {
		label string
		count int
	}{
		{"Mar 4", 2},
		{"Mar 5", 0},
		{"Mar 6", 1},
	}
	for i, w := range want {
		if series[i].Label != w.label || series[i].Completed != w.count {
			t.Errorf("series[%d] = %+v, want %s/%d", i, series[i], w.label, w.count)
		}
	}

	if got := newTestTracker().DailyCompletions(logs, 0, day(6, 20)); got != nil {
		t.Errorf("expected nil for zero days, got %v", got)
	}
}

func TestEnergyDistribution(t *testing.T) {
	logs := []models.HabitLog{
		{HabitID: "a", EnergyLevel: 1},
		{HabitID: "b", EnergyLevel: 2},
		{HabitID: "c", EnergyLevel: 5},
		{HabitID: "d", EnergyLevel: 3},
	}

	dist := EnergyDistribution(logs)

	if len(dist) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(dist))
	}
	if dist[0].Level != "Low" || dist[0].Count != 2 || dist[0].Percentage != 50 {
		t.Errorf("first bucket = %+v, want Low/2/50", dist[0])
	}
	// equal counts are ordered by label
	if dist[1].Level != "High" || dist[2].Level != "Medium" {
		t.Errorf("unexpected order: %+v", dist)
	}
	if EnergyDistribution(nil) != nil {
		t.Error("expected nil distribution for empty log")
	}
}

func TestInsights(t *testing.T) {
	logs := []models.HabitLog{
		done("power-walk", day(4, 9)),
		skipped("deep-breathing", day(4, 10)),
		skipped("gratitude-moment", day(4, 11)),
	}
	logs[0].EnergyLevel = 5
	logs[1].EnergyLevel = 1
	logs[2].EnergyLevel = 3

	ins := newTestTracker().Insights(logs)

	if ins.TotalAttempted != 3 || ins.TotalCompleted != 1 {
		t.Errorf("attempted/completed = %d/%d, want 3/1", ins.TotalAttempted, ins.TotalCompleted)
	}
	if ins.ConsistencyScore != 33 {
		t.Errorf("ConsistencyScore = %d, want 33", ins.ConsistencyScore)
	}
	if ins.AverageEnergy != 3 {
		t.Errorf("AverageEnergy = %v, want 3", ins.AverageEnergy)
	}
	if ins.FavoriteCategory != "Mindfulness" {
		t.Errorf("FavoriteCategory = %q, want Mindfulness", ins.FavoriteCategory)
	}

	if empty := newTestTracker().Insights(nil); empty.TotalAttempted != 0 || empty.CompletionRate != 0 {
		t.Errorf("unexpected insights for empty log: %+v", empty)
	}
}

func TestInsightsAverageEnergy(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		want   int
	}{
		{"empty log defaults to medium", nil, 3},
		{"exact", []int{2, 4}, 3},
		{"rounds half up", []int{4, 5}, 5},
		{"rounds down", []int{1, 1, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []models.HabitLog
			for i, level := range tt.levels {
				l := done("power-walk", day(4, 9+i))
				l.EnergyLevel = level
				logs = append(logs, l)
			}
			if got := newTestTracker().Insights(logs).AverageEnergy; got != tt.want {
				t.Errorf("AverageEnergy = %d, want %d", got, tt.want)
			}
		})
	}
}
