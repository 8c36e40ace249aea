package habits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/engine"
)

type SuggestCmd struct {
	Energy int  `short:"e" required:"" help:"Current energy level (1-5)."`
	JSON   bool `help:"Print the suggestion as JSON."`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	if err := cli.ValidateEnergy(c.Energy); err != nil {
		return err
	}

	user, saved := ctx.LoadOrCreateUser()

	reqCtx, cancel := context.WithTimeout(context.Background(), ctx.SuggestTimeout)
	defer cancel()
	suggestion := ctx.Selector.Suggest(reqCtx, c.Energy, user)
	if !suggestion.Found() {
		return fmt.Errorf("no habits available for %s energy", suggestion.Tier.Label())
	}

	// Generated habits must be stored so later completions resolve
	if suggestion.Origin == engine.OriginGenerated || !saved {
		if err := ctx.SaveUser(user); err != nil {
			return err
		}
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestion)
	}

	ctx.Printf("Energy %d · %s\n\n", c.Energy, cli.TierBadge(suggestion.Tier))
	ctx.Println(cli.RenderHabit(suggestion.Habit))
	ctx.Println()
	ctx.Println(cli.MutedStyle.Render(describeOrigin(suggestion)))
	ctx.Printf("\nDone? energyflow complete %s --energy %d\n", suggestion.Habit.ID, c.Energy)
	return nil
}

func describeOrigin(s engine.Suggestion) string {
	switch s.Origin {
	case engine.OriginGenerated:
		return "Generated for you just now."
	case engine.OriginScored:
		msg := "Picked from your history and feedback."
		if s.Reason != "" {
			msg += " (generator unavailable: " + s.Reason + ")"
		}
		return msg
	default:
		msg := "Picked at random for your energy level."
		if s.Reason != "" {
			msg += " (generator unavailable: " + s.Reason + ")"
		}
		return msg
	}
}
