package cli

import "github.com/charmbracelet/lipgloss"

// Colour palette shared by command output.
var (
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
	colourError   = lipgloss.Color("#F38BA8")
	colourMuted   = lipgloss.Color("#6C7086")
	colourPrimary = lipgloss.Color("#7C3AED")
)

// Pre-configured styles. lipgloss drops colour when stdout is not a terminal.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colourError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
)
