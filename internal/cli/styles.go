package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/progress"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	tierColors = map[models.EnergyTier]lipgloss.Color{
		models.EnergyLow:    lipgloss.Color("81"),
		models.EnergyMedium: lipgloss.Color("220"),
		models.EnergyHigh:   lipgloss.Color("203"),
	}
)

// TierBadge renders a tier label in the tier's color.
func TierBadge(t models.EnergyTier) string {
	return lipgloss.NewStyle().Foreground(tierColors[t]).Bold(true).Render(t.Label())
}

// RenderHabit renders a habit as a bordered card.
func RenderHabit(h models.Habit) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(h.Name))
	b.WriteString("\n")
	if h.Description != "" {
		b.WriteString(h.Description)
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%s · %s · %s · id %s",
		h.Category, progress.FormatDuration(h.DurationMin), h.Energy.Label(), h.ID)))
	if len(h.Instructions) > 0 {
		b.WriteString("\n")
		for i, step := range h.Instructions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, step)
		}
	}
	return CardStyle.Render(b.String())
}
