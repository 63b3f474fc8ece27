// Package styles holds the lipgloss styles shared by the CLI and TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	ColorError  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}
	ColorResult = lipgloss.AdaptiveColor{Light: "#1B8A3A", Dark: "#5AF78E"}

	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError)
	ResultStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorResult)
	OpStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)
)
