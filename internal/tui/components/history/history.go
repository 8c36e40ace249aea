package history

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vistara-apps/energyflow/internal/catalog"
	"github.com/vistara-apps/energyflow/internal/models"
)

// RateMsg asks the parent model to record feedback for a habit.
type RateMsg struct {
	HabitID  string
	Feedback models.Feedback
}

type Item struct {
	Log   models.HabitLog
	Habit models.Habit
	Known bool
}

func (i Item) Title() string {
	name := i.Log.HabitID
	if i.Known {
		name = i.Habit.Name
	}
	if i.Log.Completed {
		return "✓ " + name
	}
	return "○ " + name
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · energy %d", i.Log.Timestamp.Local().Format("Jan 2 15:04"), i.Log.EnergyLevel)
	if !i.Log.Completed {
		desc += " · skipped"
	}
	if i.Log.Feedback != nil {
		desc += " · " + string(*i.Log.Feedback)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Title() }

type KeyMap struct {
	Helpful    key.Binding
	NotHelpful key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Helpful: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "helpful"),
		),
		NotHelpful: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "not helpful"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "History"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Helpful, keys.NotHelpful}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Helpful, keys.NotHelpful}
	}

	return Model{
		list: l,
		keys: keys,
	}
}

// SetLogs shows logs newest first, naming habits through r.
func (m *Model) SetLogs(logs []models.HabitLog, r catalog.Resolver) {
	items := make([]list.Item, 0, len(logs))
	for _, l := range slices.Backward(logs) {
		h, ok := r.Lookup(l.HabitID)
		items = append(items, Item{Log: l, Habit: h, Known: ok})
	}
	m.list.SetItems(items)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Helpful):
			return m, m.rate(models.FeedbackHelpful)
		case key.Matches(msg, m.keys.NotHelpful):
			return m, m.rate(models.FeedbackNotHelpful)
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) rate(f models.Feedback) tea.Cmd {
	i, ok := m.list.SelectedItem().(Item)
	if !ok || !i.Known {
		return nil
	}
	return func() tea.Msg { return RateMsg{HabitID: i.Log.HabitID, Feedback: f} }
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  Nothing logged yet.\n  Pick your energy on the Suggest tab to get started."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
