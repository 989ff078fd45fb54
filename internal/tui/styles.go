package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/cctrack/cctrack/internal/session"
)

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorActive    = lipgloss.Color("10")  // bright green
	colorIdle      = lipgloss.Color("11")  // bright yellow
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	// Input area
	styleInput = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	// List items
	styleListSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleStatusActive = lipgloss.NewStyle().
				Foreground(colorActive)

	styleStatusIdle = lipgloss.NewStyle().
			Foreground(colorIdle)

	styleStatusDone = lipgloss.NewStyle().
			Foreground(colorDim)

	styleLive = lipgloss.NewStyle().
			Foreground(colorActive)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	// Panel titles
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)
)

func styleStatus(s session.Status) lipgloss.Style {
	switch s {
	case session.StatusActive:
		return styleStatusActive
	case session.StatusIdle:
		return styleStatusIdle
	default:
		return styleStatusDone
	}
}
