package cmd

import "github.com/charmbracelet/lipgloss"

// Styles for command output, borrowed from the OpenCode palette.
var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fab283"))
	styleEnabled  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd88f"))
	styleDisabled = lipgloss.NewStyle().Foreground(lipgloss.Color("#5c6370"))
	styleScope    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5c9cf5"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c75"))
)
