package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/cli/stats"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/models"
)

var energyLabels = []string{"Drained", "Tired", "Okay", "Good", "Energized"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateEnergy:
		content = m.viewEnergy()
	case StateLoading:
		content = m.viewLoading()
	case StateSuggestion:
		content = m.viewSuggestion()
	case StateFeedback:
		content = m.viewFeedback()
	case StateProgress:
		content = m.viewProgress()
	case StateHistory:
		content = m.viewHistory()
	}

	var footer string
	switch {
	case m.err != nil:
		footer = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		footer,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state.tab() == i {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewEnergy() string {
	levels := make([]string, 0, len(energyLabels))
	for i := range energyLabels {
		label := strconv.Itoa(i + 1)
		if i+1 == m.energy {
			levels = append(levels, selectedLevelStyle.Render(label))
		} else {
			levels = append(levels, levelStyle.Render(label))
		}
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cli.TitleStyle.Render("How is your energy right now?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, levels...),
		"",
		fmt.Sprintf("%s · %s energy", energyLabels[m.energy-1], cli.TierBadge(models.TierForEnergy(m.energy))),
		"",
		cli.MutedStyle.Render("Press enter for a habit that fits."),
	))
}

func (m Model) viewLoading() string {
	return docStyle.Render(fmt.Sprintf("%s Finding a habit for energy %d...", m.spinner.View(), m.energy))
}

func (m Model) viewSuggestion() string {
	s := m.suggestion
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Energy %d · %s", m.energy, cli.TierBadge(s.Tier)),
		"",
		cli.RenderHabit(s.Habit),
		cli.MutedStyle.Render(originLine(s)),
	))
}

func originLine(s engine.Suggestion) string {
	var line string
	switch s.Origin {
	case engine.OriginGenerated:
		line = "Generated for you just now."
	case engine.OriginScored:
		line = "Picked from your history and feedback."
	default:
		line = "Picked at random for your energy level."
	}
	if s.Reason != "" {
		line += " (generator unavailable: " + s.Reason + ")"
	}
	return line
}

func (m Model) viewFeedback() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			fmt.Sprintf("Was %s helpful?", m.rated.Name),
			"",
			"[y] Yes",
			"[n] No",
			"",
			"[esc] Skip",
		),
	)
}

func (m Model) viewProgress() string {
	report := stats.BuildReport(m.ctx, m.user, "week", 7, time.Now())
	if !report.HasHistory {
		return docStyle.Render("No habits logged yet. Complete a suggestion to start a streak.")
	}

	var b strings.Builder
	b.WriteString(cli.TitleStyle.Render("This week"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Completed:  %d\n", report.Stats.TotalHabitsCompleted)
	fmt.Fprintf(&b, "  Time spent: %s\n", report.TimeSpent)
	fmt.Fprintf(&b, "  Streak:     %d day(s)\n", report.Stats.StreakDays)
	if report.Stats.FavoriteCategory != "" {
		fmt.Fprintf(&b, "  Favorite:   %s\n", report.Stats.FavoriteCategory)
	}

	b.WriteString("\n")
	b.WriteString(cli.TitleStyle.Render("Daily completions"))
	b.WriteString("\n")
	b.WriteString(stats.RenderDaily(report.Daily))

	ins := report.Insights
	b.WriteString("\n")
	b.WriteString(cli.TitleStyle.Render("Consistency"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %d/100\n", m.meter.ViewAs(float64(ins.ConsistencyScore)/100), ins.ConsistencyScore)
	fmt.Fprintf(&b, "  Average energy: %d\n", ins.AverageEnergy)

	return docStyle.Render(b.String())
}

func (m Model) viewHistory() string {
	return docStyle.Render(m.history.View())
}
