package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the review flow.
type Styles struct {
	// Title style for the entry header.
	Title lipgloss.Style

	// Label style for field names.
	Label lipgloss.Style

	// Muted style for secondary text.
	Muted lipgloss.Style

	// Content style for the synthesized content preview box.
	Content lipgloss.Style

	// Help style for the keybinding line.
	Help lipgloss.Style
}

// DefaultStyles returns the default review styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Content: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
	}
}
