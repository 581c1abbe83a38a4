package cli

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	titleStyle   = lipgloss.NewStyle().Bold(true)

	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5FAFFF")).Padding(0, 1)
)
