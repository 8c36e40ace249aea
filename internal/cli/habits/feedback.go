package habits

import (
	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/models"
)

type FeedbackCmd struct {
	HabitID  string `arg:"" help:"Habit id to rate."`
	Feedback string `arg:"" enum:"helpful,not_helpful" help:"helpful or not_helpful."`
}

func (c *FeedbackCmd) Run(ctx *cli.Context) error {
	user, _ := ctx.LoadOrCreateUser()
	habit, err := ctx.ResolveHabit(user, c.HabitID)
	if err != nil {
		return err
	}

	entry, err := ctx.Recorder.RecordFeedback(user, habit.ID, models.Feedback(c.Feedback))
	if err != nil {
		return err
	}
	if err := ctx.SaveUser(user); err != nil {
		return err
	}

	if entry.Feedback == models.FeedbackHelpful {
		ctx.Printf("Thanks! %s will come up more often.\n", habit.Name)
	} else {
		ctx.Printf("Noted. %s will come up less often.\n", habit.Name)
	}
	return nil
}
