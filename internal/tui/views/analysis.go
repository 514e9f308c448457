package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
)

// ============================================================================
// AnalysisModel
// ============================================================================

// AnalysisModel is the view model for the weak/strong topics panel.
type AnalysisModel struct {
	data     *render.AnalysisView
	viewport viewport.Model
	width    int
}

// NewAnalysisModel creates an empty analysis panel.
func NewAnalysisModel(width, height int) AnalysisModel {
	m := AnalysisModel{viewport: viewport.New(width, height)}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the panel.
func (m *AnalysisModel) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(3, height-3)
	m.refresh()
}

// SetAnalysis replaces the displayed analysis.
func (m *AnalysisModel) SetAnalysis(v render.AnalysisView) {
	m.data = &v
	m.refresh()
	m.viewport.GotoTop()
}

// Loaded reports whether an analysis has been shown.
func (m AnalysisModel) Loaded() bool { return m.data != nil }

func (m *AnalysisModel) refresh() {
	if m.data == nil {
		m.viewport.SetContent(tui.DimStyle.Render("Press r to load your topic analysis."))
		return
	}
	m.viewport.SetContent(m.data.Render(m.width))
}

// Update scrolls the panel.
func (m AnalysisModel) Update(msg tea.Msg) (AnalysisModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m AnalysisModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Weak & strong topics"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("r refresh · ↑/↓ scroll"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	return b.String()
}
