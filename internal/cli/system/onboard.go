package system

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/cli/habits"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateWallet accepts an empty value or a 0x-prefixed 20-byte hex address.
func ValidateWallet(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || walletPattern.MatchString(s) {
		return nil
	}
	return fmt.Errorf("wallet address must look like 0x followed by 40 hex characters")
}

type OnboardCmd struct {
	Wallet  string `help:"Wallet address to link to your profile."`
	Social  string `help:"Social profile id to link, e.g. a Farcaster id."`
	Energy  int    `short:"e" help:"Current energy level (1-5) for a first suggestion."`
	NoInput bool   `help:"Use the flags as given instead of the interactive form."`
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	user, saved := ctx.LoadOrCreateUser()
	if saved {
		if c.Wallet == "" {
			c.Wallet = user.WalletAddress
		}
		if c.Social == "" {
			c.Social = user.SocialID
		}
	}

	if !c.NoInput {
		if err := c.runForm(); err != nil {
			if stderrors.Is(err, huh.ErrUserAborted) {
				ctx.Println("Onboarding cancelled.")
				return nil
			}
			return err
		}
	}

	if err := ValidateWallet(c.Wallet); err != nil {
		return err
	}
	if c.Energy != 0 {
		if err := cli.ValidateEnergy(c.Energy); err != nil {
			return err
		}
	}

	user.WalletAddress = strings.TrimSpace(c.Wallet)
	user.SocialID = strings.TrimSpace(c.Social)
	if err := ctx.SaveUser(user); err != nil {
		return err
	}

	if saved {
		ctx.Println(cli.SuccessStyle.Render("✓ Profile updated"))
	} else {
		ctx.Println(cli.SuccessStyle.Render("✓ Welcome to energyflow"))
	}

	if c.Energy == 0 {
		ctx.Println("Get a habit for how you feel: energyflow suggest --energy 3")
		return nil
	}

	ctx.Println()
	suggest := &habits.SuggestCmd{Energy: c.Energy}
	return suggest.Run(ctx)
}

func (c *OnboardCmd) runForm() error {
	energy := "3"
	if c.Energy != 0 {
		energy = strconv.Itoa(c.Energy)
	}

	options := make([]huh.Option[string], 0, 5)
	for level, label := range []string{"1 · Drained", "2 · Tired", "3 · Okay", "4 · Good", "5 · Energized"} {
		options = append(options, huh.NewOption(label, strconv.Itoa(level+1)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to energyflow").
				Description("Micro-habits that adapt to how you feel. Every field is optional."),
			huh.NewInput().
				Title("Wallet address").
				Description("Link a wallet now or later.").
				Placeholder("0x...").
				Validate(ValidateWallet).
				Value(&c.Wallet),
			huh.NewInput().
				Title("Social id").
				Description("For example your Farcaster id.").
				Value(&c.Social),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How are you feeling right now?").
				Options(options...).
				Value(&energy),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	level, err := strconv.Atoi(energy)
	if err != nil {
		return fmt.Errorf("invalid energy selection: %w", err)
	}
	c.Energy = level
	return nil
}
