package tui

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Prompt    lipgloss.Style
	Hit       lipgloss.Style
	Target    lipgloss.Style
	Help      lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	tab := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))
	return Theme{
		Tab:       tab,
		ActiveTab: tab.Foreground(lipgloss.Color("212")).Bold(true).Reverse(true),
		Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Hit:       lipgloss.NewStyle().Bold(true),
		Target:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
