package habits

import (
	"fmt"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/models"
)

type RecommendCmd struct {
	Energy int `short:"e" help:"Only show the tier for this energy level (1-5)."`
}

func (c *RecommendCmd) Run(ctx *cli.Context) error {
	tiers := []models.EnergyTier{models.EnergyLow, models.EnergyMedium, models.EnergyHigh}
	if c.Energy != 0 {
		if err := cli.ValidateEnergy(c.Energy); err != nil {
			return err
		}
		tiers = []models.EnergyTier{models.TierForEnergy(c.Energy)}
	}

	user, _ := ctx.LoadOrCreateUser()
	recs := engine.Recommendations(ctx.Catalog, user)

	for i, tier := range tiers {
		if i > 0 {
			ctx.Println()
		}
		ctx.Println(cli.TierBadge(tier))
		for _, s := range recs[tier] {
			ctx.Printf("  %+5.1f  %-22s %s\n", s.Score, s.Habit.Name,
				cli.MutedStyle.Render(fmt.Sprintf("%s · %s", s.Habit.ID, s.Habit.Category)))
		}
	}
	return nil
}
