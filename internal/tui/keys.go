package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab        key.Binding
	ShiftTab   key.Binding
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Complete   key.Binding
	Skip       key.Binding
	Another    key.Binding
	Helpful    key.Binding
	NotHelpful key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev view"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "right", "l"),
			key.WithHelp("↑/k", "more energy"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "left", "h"),
			key.WithHelp("↓/j", "less energy"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "suggest"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Another: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "another"),
		),
		Helpful: key.NewBinding(
			key.WithKeys("y", "+"),
			key.WithHelp("y", "helpful"),
		),
		NotHelpful: key.NewBinding(
			key.WithKeys("n", "-"),
			key.WithHelp("n", "not helpful"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
