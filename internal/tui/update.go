package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/tui/components/history"
)

// suggestionMsg carries a selection made off the UI goroutine. user is a
// copy that may hold a newly generated habit.
type suggestionMsg struct {
	suggestion engine.Suggestion
	user       *models.User
}

var tabStates = []SessionState{StateEnergy, StateProgress, StateHistory}

func (m Model) suggest() tea.Cmd {
	appCtx := m.ctx
	user := m.user.Clone()
	level := m.energy
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(context.Background(), appCtx.SuggestTimeout)
		defer cancel()
		s := appCtx.Selector.Suggest(reqCtx, level, &user)
		return suggestionMsg{suggestion: s, user: &user}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.meter.Width = min(max(msg.Width-20, 10), 40)
		m.history.SetSize(max(msg.Width-4, 0), max(msg.Height-6, 0))
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case suggestionMsg:
		m.handleSuggestion(msg)
		return m, nil

	case history.RateMsg:
		m.rate(msg.HabitID, msg.Feedback)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleSuggestion(msg suggestionMsg) {
	m.user = msg.user
	if !msg.suggestion.Found() {
		m.err = fmt.Errorf("no habits available for %s energy", msg.suggestion.Tier.Label())
		m.state = StateEnergy
		return
	}

	// Generated habits must be stored so later completions resolve
	if msg.suggestion.Origin == engine.OriginGenerated || !m.saved {
		m.persist()
	}
	m.suggestion = msg.suggestion
	m.state = StateSuggestion
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.switchTab(-1)
		return m, nil
	}

	switch m.state {
	case StateEnergy:
		return m.handleEnergyKey(msg)
	case StateSuggestion:
		return m.handleSuggestionKey(msg)
	case StateFeedback:
		switch {
		case key.Matches(msg, m.keys.Helpful):
			m.rate(m.rated.ID, models.FeedbackHelpful)
			m.state = StateEnergy
		case key.Matches(msg, m.keys.NotHelpful):
			m.rate(m.rated.ID, models.FeedbackNotHelpful)
			m.state = StateEnergy
		case key.Matches(msg, m.keys.Back):
			m.state = StateEnergy
		}
		return m, nil
	case StateHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) switchTab(step int) {
	if m.state == StateLoading {
		return
	}
	next := (m.state.tab() + step + len(tabStates)) % len(tabStates)
	m.state = tabStates[next]
	m.err = nil
}

func (m Model) handleEnergyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.energy = models.ClampEnergy(m.energy + 1)
	case key.Matches(msg, m.keys.Down):
		m.energy = models.ClampEnergy(m.energy - 1)
	case key.Matches(msg, m.keys.Enter):
		return m.startSuggest()
	default:
		if level, err := strconv.Atoi(msg.String()); err == nil {
			m.energy = models.ClampEnergy(level)
		}
	}
	return m, nil
}

func (m Model) handleSuggestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Complete):
		m.record(true)
	case key.Matches(msg, m.keys.Skip):
		m.record(false)
	case key.Matches(msg, m.keys.Another):
		return m.startSuggest()
	case key.Matches(msg, m.keys.Back):
		m.state = StateEnergy
	}
	return m, nil
}

func (m Model) startSuggest() (tea.Model, tea.Cmd) {
	m.state = StateLoading
	m.status = ""
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.suggest())
}

func (m *Model) record(completed bool) {
	habit := m.suggestion.Habit
	m.ctx.Recorder.RecordCompletion(m.user, habit.ID, m.energy, completed)
	if !m.persist() {
		return
	}
	m.refreshHistory()

	if !completed {
		m.status = fmt.Sprintf("Logged %s as skipped.", habit.Name)
		m.state = StateEnergy
		return
	}

	stats := m.ctx.Tracker(m.user).Compute(m.user.HabitHistory)
	m.status = fmt.Sprintf("✓ Completed %s · streak %d day(s)", habit.Name, stats.StreakDays)
	m.rated = habit
	m.state = StateFeedback
}

func (m *Model) rate(habitID string, f models.Feedback) {
	habit, err := m.ctx.ResolveHabit(m.user, habitID)
	if err != nil {
		m.err = err
		return
	}
	if _, err := m.ctx.Recorder.RecordFeedback(m.user, habit.ID, f); err != nil {
		m.err = err
		return
	}
	if !m.persist() {
		return
	}
	m.refreshHistory()

	if f == models.FeedbackHelpful {
		m.status = fmt.Sprintf("Thanks! %s will come up more often.", habit.Name)
	} else {
		m.status = fmt.Sprintf("Noted. %s will come up less often.", habit.Name)
	}
}
