package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb7185"))
	helpStyle  = lipgloss.NewStyle().Faint(true)

	tokenStyle  = lipgloss.NewStyle().Padding(0, 1)
	cursorStyle = tokenStyle.Reverse(true)
	usedStyle   = tokenStyle.Foreground(lipgloss.Color("#818cf8"))
	eotStyle    = tokenStyle.Foreground(lipgloss.Color("240"))

	cellStyle = lipgloss.NewStyle().
			Width(16).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))
	focusCellStyle = cellStyle.BorderForeground(lipgloss.Color("#f472b6")).Bold(true)
	placeholder    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)
