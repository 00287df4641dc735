package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	headerStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	normalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editStyle     = lipgloss.NewStyle().Foreground(colorYellow).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	statusStyle   = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

const (
	iconCursor   = "▸"
	iconSelected = "●"
	iconHandles  = "◆"
	iconArrow    = "→"
	iconCaret    = "▌"
)
