package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/chart"
)

// Palette.
const (
	colorRed    chart.Color = "#f87171"
	colorOrange chart.Color = "#fb923c"
	colorGreen  chart.Color = "#22d3a6"
	colorPurple chart.Color = "#6c63ff"
	colorCyan   chart.Color = "#00d4ff"
	colorMuted  chart.Color = "#64748b"
	colorText   chart.Color = "#f1f5f9"
)

func fg(c chart.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(c)))
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(string(colorMuted))).
			Padding(0, 1)

	openCardStyle = cardStyle.
			BorderForeground(lipgloss.Color(string(colorPurple)))

	titleStyle       = fg(colorText).Bold(true)
	labelStyle       = fg(colorMuted)
	placeholderStyle = fg(colorMuted).Italic(true)
	sectionStyle     = fg(colorPurple).Bold(true)
	tipStyle         = fg(colorGreen)
	warnStyle        = fg(colorOrange)

	successBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(string(colorGreen))).
			Padding(0, 1)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(string(colorRed))).
			Foreground(lipgloss.Color(string(colorRed))).
			Padding(0, 1)
)

// Placeholder renders an explicit empty-state message.
func Placeholder(msg string) string {
	return placeholderStyle.Render(msg)
}

// cardWidth clamps the width available to a card's content.
func cardWidth(width int) int {
	if width < 30 {
		return 30
	}
	return width
}

// bulletList renders items as an unordered list; no items render nothing.
func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "  • " + it
	}
	return strings.Join(lines, "\n")
}
