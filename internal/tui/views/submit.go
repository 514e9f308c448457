// Package views provides the panel view components of the examcoach TUI.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
)

// ============================================================================
// SubmitModel
// ============================================================================

// SubmitModel is the view model for the test submission panel: a JSON
// editor and the result box of the last submission.
type SubmitModel struct {
	input  textarea.Model
	box    *render.SubmitBox
	width  int
	height int
}

// NewSubmitModel creates the submit panel with a focused editor.
func NewSubmitModel(width, height int) SubmitModel {
	ta := textarea.New()
	ta.Placeholder = `Paste a mock test as JSON, e.g. {"student_id": 1, "questions": [...]}`
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.Focus()

	m := SubmitModel{input: ta}
	m.SetSize(width, height)
	return m
}

// SetSize resizes the editor.
func (m *SubmitModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(max(20, width-4))
	m.input.SetHeight(max(3, height-10))
}

// Value returns the editor content.
func (m SubmitModel) Value() string { return m.input.Value() }

// SetValue replaces the editor content.
func (m *SubmitModel) SetValue(s string) { m.input.SetValue(s) }

// Reset clears the editor and the result box.
func (m *SubmitModel) Reset() {
	m.input.Reset()
	m.box = nil
}

// SetResult shows the outcome of a submission.
func (m *SubmitModel) SetResult(box render.SubmitBox) { m.box = &box }

// Result returns the result box, if any.
func (m SubmitModel) Result() (render.SubmitBox, bool) {
	if m.box == nil {
		return render.SubmitBox{}, false
	}
	return *m.box, true
}

// Update forwards input to the editor.
func (m SubmitModel) Update(msg tea.Msg) (SubmitModel, tea.Cmd) {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the submit panel.
func (m SubmitModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Submit a mock test"))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("ctrl+s submit · ctrl+l load sample · ctrl+k clear"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.box != nil {
		b.WriteString("\n")
		b.WriteString(m.box.Render(m.width))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
