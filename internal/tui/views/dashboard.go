package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/chart"
	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
)

// ============================================================================
// DashboardModel
// ============================================================================

// DashboardModel draws the live charts held by the chart manager.
type DashboardModel struct {
	charts *chart.Manager
	width  int
	height int
}

// NewDashboardModel creates a dashboard over charts.
func NewDashboardModel(charts *chart.Manager, width, height int) DashboardModel {
	return DashboardModel{charts: charts, width: width, height: height}
}

// SetSize resizes the dashboard.
func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

var chartCellStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#334155")).
	Padding(0, 1)

// View renders the four charts in a two by two grid.
func (m DashboardModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Progress dashboard"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r refresh"))
	b.WriteString("\n")

	if len(m.charts.Keys()) == 0 {
		b.WriteString(tui.DimStyle.Render("No progress loaded yet."))
		return b.String()
	}

	// Each cell loses four columns and two rows to its border and padding.
	cellW := max(24, m.width/2-1)
	chartH := max(3, (m.height-4)/2-6)

	cells := make([]string, 0, len(render.ChartKeys))
	for _, k := range render.ChartKeys {
		content := tui.DimStyle.Render(k + ": unavailable")
		if ch, ok := m.charts.Get(k); ok {
			if term, ok := ch.(*chart.Terminal); ok {
				content = term.Render(cellW-4, chartH)
			}
		}
		cells = append(cells, chartCellStyle.Width(cellW-2).Render(content))
	}

	for i := 0; i < len(cells); i += 2 {
		row := cells[i:min(i+2, len(cells))]
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
