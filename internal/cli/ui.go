package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// out receives all status output. Machine-readable output (export, show
// --json, completion scripts) goes to os.Stdout directly.
var out io.Writer = os.Stdout

// Palette. The node colors of the editor are rendered with their own hex
// values; these are for chrome only.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleHighlight marks ids and keys.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	// StyleDim is for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue is for paths, addresses and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning colors warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

const iconArrow = "→"

// statusKind selects the icon and color of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorAmber)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

func printStatus(kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	s := statusIcons[kind]
	fmt.Fprintln(out, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N nodes · M edges".
func printStats(nodes, edges int) {
	fmt.Fprintln(out, "  "+StyleDim.Render(statsLine(nodes, edges)))
}

func statsLine(nodes, edges int) string {
	return fmt.Sprintf("%d %s · %d %s",
		nodes, plural(nodes, "node", "nodes"),
		edges, plural(edges, "edge", "edges"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
