package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the plan review flow.
type KeyMap struct {
	// Approve applies the entry under review.
	Approve key.Binding

	// Skip rejects the entry under review.
	Skip key.Binding

	// ApproveAll applies this and every remaining entry.
	ApproveAll key.Binding

	// Quit rejects this and every remaining entry.
	Quit key.Binding
}

// DefaultKeyMap returns the default review keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Approve: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "apply"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n", "s"),
			key.WithHelp("n", "skip"),
		),
		ApproveAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "skip rest"),
		),
	}
}
