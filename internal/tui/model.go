// Package tui is the interactive front end: pick an energy level, get a
// habit, log it and rate it, and watch progress build up.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vistara-apps/energyflow/internal/cli"
	"github.com/vistara-apps/energyflow/internal/engine"
	"github.com/vistara-apps/energyflow/internal/models"
	"github.com/vistara-apps/energyflow/internal/tui/components/history"
)

type SessionState int

const (
	StateEnergy SessionState = iota
	StateLoading
	StateSuggestion
	StateFeedback
	StateProgress
	StateHistory
)

// tab returns the tab a state belongs to.
func (s SessionState) tab() int {
	switch s {
	case StateProgress:
		return 1
	case StateHistory:
		return 2
	default:
		return 0
	}
}

var tabTitles = []string{"Suggest", "Progress", "History"}

type Model struct {
	ctx   *cli.Context
	user  *models.User
	saved bool

	state   SessionState
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	meter   progress.Model
	history history.Model

	energy     int
	suggestion engine.Suggestion
	// rated is the habit waiting for feedback after a completion.
	rated models.Habit

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	user, saved := ctx.LoadOrCreateUser()

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		user:    user,
		saved:   saved,
		state:   StateEnergy,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		meter:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		history: history.New(0, 0),
		energy:  3,
	}
	m.refreshHistory()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateEnergy:
		keys = append(keys, m.keys.Up, m.keys.Down, m.keys.Enter)
	case StateSuggestion:
		keys = append(keys, m.keys.Complete, m.keys.Skip, m.keys.Another, m.keys.Back)
	case StateFeedback:
		keys = append(keys, m.keys.Helpful, m.keys.NotHelpful, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	suggest := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
	actions := []key.Binding{m.keys.Complete, m.keys.Skip, m.keys.Another, m.keys.Back}
	return [][]key.Binding{global, suggest, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) refreshHistory() {
	m.history.SetLogs(m.user.HabitHistory, engine.Resolver(m.ctx.Catalog, m.user))
}

// persist saves the user and records a failure for the view.
func (m *Model) persist() bool {
	if err := m.ctx.SaveUser(m.user); err != nil {
		m.err = err
		return false
	}
	m.saved = true
	m.err = nil
	return true
}
