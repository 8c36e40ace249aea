package stats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/progress"
)

const maxBarWidth = 20

// Report is the JSON form of the stats command.
type Report struct {
	Period     string                 `json:"period"`
	Stats      models.ProgressStats   `json:"stats"`
	TimeSpent  string                 `json:"time_spent"`
	Daily      []progress.DailyCount  `json:"daily,omitempty"`
	Energy     []progress.EnergyShare `json:"energy,omitempty"`
	Insights   progress.Insights      `json:"insights"`
	HasHistory bool                   `json:"has_history"`
}

type StatsCmd struct {
	Period string `short:"p" enum:"all,week,month" default:"all" help:"Period to summarize: all, week or month."`
	Days   int    `default:"7" help:"Number of days in the daily completion chart."`
	JSON   bool   `help:"Print the report as JSON."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	user, _ := ctx.LoadOrCreateUser()
	report := BuildReport(ctx, user, c.Period, c.Days, time.Now())

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if !report.HasHistory {
		ctx.Println("No habits logged yet. Try 'energyflow suggest --energy 3'.")
		return nil
	}

	ctx.Println(cli.TitleStyle.Render(periodTitle(report.Period)))
	ctx.Printf("  Completed:  %d\n", report.Stats.TotalHabitsCompleted)
	ctx.Printf("  Time spent: %s\n", report.TimeSpent)
	ctx.Printf("  Streak:     %d day(s)\n", report.Stats.StreakDays)
	if report.Stats.FavoriteCategory != "" {
		ctx.Printf("  Favorite:   %s\n", report.Stats.FavoriteCategory)
	}

	if len(report.Daily) > 0 {
		ctx.Println()
		ctx.Println(cli.TitleStyle.Render("Daily completions"))
		ctx.Print(RenderDaily(report.Daily))
	}

	if len(report.Energy) > 0 {
		ctx.Println()
		ctx.Println(cli.TitleStyle.Render("Energy levels"))
		for _, share := range report.Energy {
			ctx.Printf("  %-7s %3d%%  (%d)\n", share.Level, share.Percentage, share.Count)
		}
	}

	ins := report.Insights
	ctx.Println()
	ctx.Println(cli.TitleStyle.Render("Insights"))
	ctx.Printf("  Consistency:    %d/100 (%d of %d attempts completed)\n", ins.ConsistencyScore, ins.TotalCompleted, ins.TotalAttempted)
	ctx.Printf("  Average energy: %d\n", ins.AverageEnergy)
	return nil
}

// BuildReport computes every section of the stats output for user.
func BuildReport(ctx *cli.Context, user *models.User, period string, days int, now time.Time) Report {
	tracker := ctx.Tracker(user)
	logs := user.HabitHistory

	var stats models.ProgressStats
	switch period {
	case "week":
		stats = tracker.Weekly(logs, now)
	case "month":
		stats = tracker.Monthly(logs, now)
	default:
		period = "all"
		stats = tracker.Compute(logs)
	}

	return Report{
		Period:     period,
		Stats:      stats,
		TimeSpent:  progress.FormatDuration(stats.TotalTimeSpent),
		Daily:      tracker.DailyCompletions(logs, days, now),
		Energy:     progress.EnergyDistribution(logs),
		Insights:   tracker.Insights(logs),
		HasHistory: len(logs) > 0,
	}
}

func periodTitle(period string) string {
	switch period {
	case "week":
		return "This week"
	case "month":
		return "This month"
	default:
		return "All time"
	}
}

// RenderDaily draws one bar per day, scaled to the busiest day.
func RenderDaily(daily []progress.DailyCount) string {
	peak := 0
	for _, d := range daily {
		peak = max(peak, d.Completed)
	}

	var b strings.Builder
	for _, d := range daily {
		width := 0
		if peak > 0 {
			width = d.Completed * maxBarWidth / peak
		}
		bar := strings.Repeat("█", width)
		fmt.Fprintf(&b, "  %-6s %s %d\n", d.Label, cli.SuccessStyle.Render(bar), d.Completed)
	}
	return b.String()
}
