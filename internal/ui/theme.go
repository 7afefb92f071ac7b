package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Heading   lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Chip      lipgloss.Style
	Card      lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
}

var DefaultTheme = Theme{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Subtitle:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#94E2D5")),
	Tab:       lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#A6E3A1")),
	ActiveTab: lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#A6E3A1")),
	Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Chip:      lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#1E1E2E")).Background(lipgloss.Color("#F5C2E7")),
	Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#A6E3A1")).Padding(0, 1),
	Hint:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
}
