package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorError  = lipgloss.Color("#E06C75")
	colorMuted  = lipgloss.Color("#5C6370")
	colorOK     = lipgloss.Color("#98C379")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	okStyle        = lipgloss.NewStyle().Foreground(colorOK)
	helpStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1, 2)
	buttonStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	focusedButton  = buttonStyle.BorderForeground(colorAccent).Bold(true)
	disabledButton = buttonStyle.Foreground(colorMuted).BorderForeground(colorMuted)
)
