package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colours for list output.
var (
	colourPrimary = lipgloss.Color("#7C3AED")
	colourMuted   = lipgloss.Color("#6C7086")
	colourSuccess = lipgloss.Color("#A6E3A1")
	colourWarning = lipgloss.Color("#F9E2AF")
)

var (
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colourMuted)
	successStyle = lipgloss.NewStyle().Foreground(colourSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colourWarning)
)

// renderPairs lays out key/value rows with the keys padded to one column.
func renderPairs(rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}

	var b strings.Builder
	column := keyStyle.Width(width + 2)
	for _, row := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, column.Render(row[0]), row[1]))
		b.WriteString("\n")
	}
	return b.String()
}
