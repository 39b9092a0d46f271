package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the wizard view.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Option   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginBottom(1),
		Label:    lipgloss.NewStyle().Width(22),
		Focused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		Option:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A8A8")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
	}
}
