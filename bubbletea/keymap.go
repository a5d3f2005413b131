package bubbletea

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the review surface.
type KeyMap struct {
	// Navigation
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	NextGroup    key.Binding
	PrevGroup    key.Binding

	// Review actions
	Accept    key.Binding
	Reject    key.Binding
	AcceptAll key.Binding
	RejectAll key.Binding

	// Mode switching
	EnterEdit key.Binding
	ExitEdit  key.Binding
	CleanView key.Binding

	// Persistence
	Save key.Binding

	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings for review mode.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		NextGroup: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("tab/n", "next change"),
		),
		PrevGroup: key.NewBinding(
			key.WithKeys("shift+tab", "p"),
			key.WithHelp("S-tab/p", "previous change"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept change"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject change"),
		),
		AcceptAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "accept all"),
		),
		RejectAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reject all"),
		),
		EnterEdit: key.NewBinding(
			key.WithKeys("e", "i"),
			key.WithHelp("e/i", "edit text"),
		),
		ExitEdit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to review"),
		),
		CleanView: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle clean view"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
