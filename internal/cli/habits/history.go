package habits

import (
	"fmt"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/utils"
)

type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Number of entries to show (0 for all)."`
	Since string `help:"Only show entries on or after this date (YYYY-MM-DD)."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if len(user.HabitHistory) == 0 {
		ctx.Println("No habits logged yet.")
		return nil
	}

	resolver := engine.Resolver(ctx.Catalog, user)
	logs := user.HabitHistory
	if c.Since != "" {
		since, err := utils.ParseDateInLocation(c.Since, ctx.Location)
		if err != nil {
			return fmt.Errorf("invalid --since date %q (expected YYYY-MM-DD): %w", c.Since, err)
		}
		// Logs are in append order, so keep the tail from the first match
		first := len(logs)
		for i, l := range logs {
			if !l.Timestamp.Before(since) {
				first = i
				break
			}
		}
		logs = logs[first:]
		if len(logs) == 0 {
			ctx.Printf("No habits logged since %s.\n", c.Since)
			return nil
		}
	}
	start := 0
	if c.Limit > 0 && len(logs) > c.Limit {
		start = len(logs) - c.Limit
	}

	// Newest first
	for i := len(logs) - 1; i >= start; i-- {
		l := logs[i]
		name := l.HabitID
		if h, ok := resolver.Lookup(l.HabitID); ok {
			name = h.Name
		}
		status := cli.SuccessStyle.Render("done")
		if !l.Completed {
			status = cli.WarningStyle.Render("skipped")
		}
		line := fmt.Sprintf("%s  %-7s  energy %d  %s",
			l.Timestamp.In(ctx.Location).Format("2006-01-02 15:04"), status, l.EnergyLevel, name)
		if l.Feedback != nil {
			line += cli.MutedStyle.Render(" (" + string(*l.Feedback) + ")")
		}
		ctx.Println(line)
	}

	if start > 0 {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("… %d older entries hidden", start)))
	}
	return nil
}
