package habits

import (
	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/progress"
)

type CompleteCmd struct {
	HabitID string `arg:"" help:"Habit id, as shown by suggest."`
	Energy  int    `short:"e" required:"" help:"Energy level that prompted the habit (1-5)."`
	Skipped bool   `help:"Log the habit as attempted but not completed."`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	if err := cli.ValidateEnergy(c.Energy); err != nil {
		return err
	}

	user, _ := ctx.LoadOrCreateUser()
	habit, err := ctx.ResolveHabit(user, c.HabitID)
	if err != nil {
		return err
	}

	ctx.Recorder.RecordCompletion(user, habit.ID, c.Energy, !c.Skipped)
	if err := ctx.SaveUser(user); err != nil {
		return err
	}

	if c.Skipped {
		ctx.Printf("Logged %s as skipped.\n", habit.Name)
		return nil
	}

	stats := ctx.Tracker(user).Compute(user.HabitHistory)
	ctx.Println(cli.SuccessStyle.Render("✓ Completed " + habit.Name))
	ctx.Printf("Streak: %d day(s) · Total: %d habit(s), %s\n",
		stats.StreakDays, stats.TotalHabitsCompleted, progress.FormatDuration(stats.TotalTimeSpent))
	ctx.Printf("Was it helpful? energyflow feedback %s helpful|not_helpful\n", habit.ID)
	return nil
}
