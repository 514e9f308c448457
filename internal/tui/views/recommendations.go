package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
)

// ============================================================================
// RecommendationsModel
// ============================================================================

// RecommendationsModel is the view model for the recommendations panel.
type RecommendationsModel struct {
	cards    []render.RecommendationCard
	loaded   bool
	viewport viewport.Model
	width    int
}

// NewRecommendationsModel creates an empty recommendations panel.
func NewRecommendationsModel(width, height int) RecommendationsModel {
	m := RecommendationsModel{viewport: viewport.New(width, height)}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the panel.
func (m *RecommendationsModel) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(3, height-3)
	m.refresh()
}

// SetRecommendations replaces the displayed cards.
func (m *RecommendationsModel) SetRecommendations(cards []render.RecommendationCard) {
	m.cards = cards
	m.loaded = true
	m.refresh()
	m.viewport.GotoTop()
}

// Loaded reports whether recommendations have been shown.
func (m RecommendationsModel) Loaded() bool { return m.loaded }

func (m *RecommendationsModel) refresh() {
	if !m.loaded {
		m.viewport.SetContent(tui.DimStyle.Render("Press g to generate recommendations or l to load the latest ones."))
		return
	}
	m.viewport.SetContent(render.RenderRecommendations(m.cards, m.width))
}

// Update scrolls the panel.
func (m RecommendationsModel) Update(msg tea.Msg) (RecommendationsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m RecommendationsModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Recommendations"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("g generate · l load latest · ↑/↓ scroll"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	return b.String()
}
