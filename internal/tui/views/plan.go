package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
)

// ============================================================================
// PlanModel
// ============================================================================

// PlanModel is the view model for the study plan panel.
type PlanModel struct {
	plan     *render.PlanView
	cursor   int
	viewport viewport.Model
	width    int
}

// NewPlanModel creates an empty plan panel.
func NewPlanModel(width, height int) PlanModel {
	m := PlanModel{viewport: viewport.New(width, height)}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the panel.
func (m *PlanModel) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(3, height-3)
	m.refresh()
}

// SetPlan replaces the displayed plan and resets the cursor.
func (m *PlanModel) SetPlan(p *render.PlanView) {
	m.plan = p
	m.cursor = 0
	m.refresh()
	m.viewport.GotoTop()
}

// Plan returns the displayed plan, or nil.
func (m PlanModel) Plan() *render.PlanView { return m.plan }

// Cursor returns the index of the selected day.
func (m PlanModel) Cursor() int { return m.cursor }

func (m *PlanModel) refresh() {
	if m.plan == nil {
		m.viewport.SetContent(tui.DimStyle.Render("Press g to generate a study plan or l to load the latest one."))
		return
	}
	m.viewport.SetContent(m.plan.Render(m.width, m.cursor))
	m.scrollToCursor()
}

// scrollToCursor keeps the selected day card on screen.
func (m *PlanModel) scrollToCursor() {
	if m.plan == nil || m.plan.Empty() {
		return
	}
	top := 0
	for i := 0; i < m.cursor; i++ {
		top += lipgloss.Height(m.plan.Days[i].Render(m.width, m.plan.IsOpen(i), false))
	}
	height := lipgloss.Height(m.plan.Days[m.cursor].Render(m.width, m.plan.IsOpen(m.cursor), true))
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case top+height > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(top + height - m.viewport.Height)
	}
}

// Update moves the cursor and toggles days.
func (m PlanModel) Update(msg tea.Msg) (PlanModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.plan != nil && !m.plan.Empty() {
		keys := tui.DefaultKeyMap
		switch {
		case key.Matches(keyMsg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, keys.Down):
			if m.cursor < len(m.plan.Days)-1 {
				m.cursor++
			}
			m.refresh()
			return m, nil
		case key.Matches(keyMsg, keys.Toggle):
			m.plan.Toggle(m.cursor)
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m PlanModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Study plan"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("g generate · l load latest · ↑/↓ select day · enter expand/collapse"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	return b.String()
}
