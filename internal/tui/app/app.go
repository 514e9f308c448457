// Package app provides the main TUI application that wires all views together.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/chart"
	"github.com/examcoach/examcoach/internal/config"
	"github.com/examcoach/examcoach/internal/render"
	"github.com/examcoach/examcoach/internal/tui"
	"github.com/examcoach/examcoach/internal/tui/commands"
	"github.com/examcoach/examcoach/internal/tui/state"
	"github.com/examcoach/examcoach/internal/tui/views"
	"github.com/examcoach/examcoach/samples"
)

const ctrlCTimeout = time.Second

// chromeHeight is the number of rows taken by the header, tab bar and
// status line around the active panel.
const chromeHeight = 6

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model

	// View models
	submitView          views.SubmitModel
	analysisView        views.AnalysisModel
	planView            views.PlanModel
	recommendationsView views.RecommendationsModel
	dashboardView       views.DashboardModel
}

// New creates a new App. studentName is shown in the header and may be empty.
func New(ctx context.Context, cfg *config.Config, client *api.Client, logger *zap.Logger, studentName string) *App {
	model := tui.NewModel(ctx, cfg, client, logger, studentName)
	w, h := model.Width, panelHeight(model.Height)

	return &App{
		model:               model,
		submitView:          views.NewSubmitModel(w, h),
		analysisView:        views.NewAnalysisModel(w, h),
		planView:            views.NewPlanModel(w, h),
		recommendationsView: views.NewRecommendationsModel(w, h),
		dashboardView:       views.NewDashboardModel(model.State.Charts, w, h),
	}
}

// Model exposes the shared model.
func (a *App) Model() *tui.Model { return a.model }

// Close cancels in-flight operations and disposes every chart.
func (a *App) Close() { a.model.State.Close() }

func panelHeight(h int) int { return max(5, h-chromeHeight) }

// Init returns the initial command for the TUI.
func (a *App) Init() tea.Cmd {
	return a.model.Spinner.Tick
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.StudentIDChangedMsg:
		a.model.StudentID = msg.StudentID
		a.model.Logger.Info("student id changed", zap.Int("student_id", msg.StudentID))
		return a, a.model.State.Notify(fmt.Sprintf("Student ID set to %d", msg.StudentID), state.SeveritySuccess)

	case state.NotificationExpiredMsg:
		a.model.State.Notifier.Expire(msg.Gen)
		return a, nil

	case state.OperationDoneMsg:
		return a, a.handleDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.model.Spinner, cmd = a.model.Spinner.Update(msg)
		return a, cmd
	}

	return a.forward(msg)
}

func (a *App) resize(width, height int) {
	a.model.Width = width
	a.model.Height = height
	a.model.Help.Width = width

	h := panelHeight(height)
	a.submitView.SetSize(width, h)
	a.analysisView.SetSize(width, h)
	a.planView.SetSize(width, h)
	a.recommendationsView.SetSize(width, h)
	a.dashboardView.SetSize(width, h)
}

// ============================================================================
// Key Handling
// ============================================================================

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.model.Keys

	if key.Matches(msg, keys.CtrlC) {
		if a.model.CtrlCPending {
			// Second press within timeout - exit
			a.Close()
			return a, tea.Quit
		}
		a.model.CtrlCPending = true
		return a, tea.Tick(ctrlCTimeout, func(time.Time) tea.Msg {
			return tui.CtrlCResetMsg{}
		})
	}

	// The busy overlay is modal.
	if a.model.State.Busy.Visible() {
		return a, nil
	}

	if a.model.EditingStudent {
		return a.updateStudentEditor(msg)
	}

	switch {
	case key.Matches(msg, keys.StudentID):
		a.model.EditingStudent = true
		a.model.StudentInput.SetValue(fmt.Sprint(a.model.StudentID))
		a.model.StudentInput.CursorEnd()
		return a, a.model.StudentInput.Focus()
	case key.Matches(msg, keys.NextTab):
		return a, a.runEffect(a.model.State.Registry.Next())
	case key.Matches(msg, keys.PrevTab):
		return a, a.runEffect(a.model.State.Registry.Prev())
	}

	if a.model.State.Registry.Active() == state.PanelSubmit {
		return a.updateSubmit(msg)
	}

	// Single-character shortcuts are only safe outside the editor.
	switch {
	case key.Matches(msg, keys.Quit):
		a.Close()
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.model.Help.ShowAll = !a.model.Help.ShowAll
		return a, nil
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		idx := int(s[0] - '1')
		if idx < len(state.Panels) {
			eff, err := a.model.State.Registry.Activate(state.Panels[idx])
			if err != nil {
				return a, nil
			}
			return a, a.runEffect(eff)
		}
	}

	switch a.model.State.Registry.Active() {
	case state.PanelAnalysis:
		if key.Matches(msg, keys.Refresh) {
			return a, a.start(commands.LoadAnalysis(a.model.Client, a.model.StudentID))
		}
	case state.PanelPlan:
		switch {
		case key.Matches(msg, keys.Generate):
			return a, a.start(commands.GeneratePlan(a.model.Client, a.model.StudentID))
		case key.Matches(msg, keys.LoadLatest):
			return a, a.start(commands.LoadLatestPlan(a.model.Client, a.model.StudentID))
		}
	case state.PanelRecommendations:
		switch {
		case key.Matches(msg, keys.Generate):
			return a, a.start(commands.GenerateRecommendations(a.model.Client, a.model.StudentID))
		case key.Matches(msg, keys.LoadLatest):
			return a, a.start(commands.LoadLatestRecommendations(a.model.Client, a.model.StudentID))
		}
	case state.PanelDashboard:
		if key.Matches(msg, keys.Refresh) {
			return a, a.start(commands.LoadProgress(a.model.Client, a.model.StudentID))
		}
	}

	return a.forward(msg)
}

func (a *App) updateSubmit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.model.Keys
	switch {
	case key.Matches(msg, keys.Submit):
		test, err := api.DecodeMockTest([]byte(a.submitView.Value()), a.model.StudentID)
		if err != nil {
			return a, a.model.State.NotifyError(err)
		}
		return a, a.start(commands.SubmitTest(a.model.Client, test))
	case key.Matches(msg, keys.LoadSample):
		a.submitView.SetValue(string(samples.MockTest))
		return a, a.model.State.Notify("Sample data loaded!", state.SeveritySuccess)
	case key.Matches(msg, keys.Clear):
		a.submitView.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.submitView, cmd = a.submitView.Update(msg)
	return a, cmd
}

func (a *App) updateStudentEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := a.model.Keys
	switch {
	case key.Matches(msg, keys.Confirm):
		a.model.EditingStudent = false
		a.model.StudentInput.Blur()
		id := tui.ParseStudentID(a.model.StudentInput.Value())
		return a, func() tea.Msg { return tui.StudentIDChangedMsg{StudentID: id} }
	case key.Matches(msg, keys.Cancel):
		a.model.EditingStudent = false
		a.model.StudentInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.model.StudentInput, cmd = a.model.StudentInput.Update(msg)
	return a, cmd
}

// forward routes a message to the active panel.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.model.State.Registry.Active() {
	case state.PanelSubmit:
		a.submitView, cmd = a.submitView.Update(msg)
	case state.PanelAnalysis:
		a.analysisView, cmd = a.analysisView.Update(msg)
	case state.PanelPlan:
		a.planView, cmd = a.planView.Update(msg)
	case state.PanelRecommendations:
		a.recommendationsView, cmd = a.recommendationsView.Update(msg)
	}
	return a, cmd
}

// ============================================================================
// Operations
// ============================================================================

func (a *App) start(action commands.Action) tea.Cmd {
	return a.model.State.Begin(action.Panel, action.Label, action.Op)
}

func (a *App) runEffect(eff state.Effect) tea.Cmd {
	if eff == state.EffectRefreshProgress {
		return a.start(commands.LoadProgress(a.model.Client, a.model.StudentID))
	}
	return nil
}

// handleDone finishes an operation, updates its panel and notifies the user.
// Results superseded by a newer operation on the same panel are not drawn.
func (a *App) handleDone(msg state.OperationDoneMsg) tea.Cmd {
	current := a.model.State.Finish(msg)

	if msg.Err != nil {
		if current && msg.Panel == state.PanelSubmit {
			a.submitView.SetResult(render.SubmitFailure(api.Message(msg.Err)))
		}
		return a.model.State.NotifyError(msg.Err)
	}

	if current {
		if err := a.apply(msg.Result); err != nil {
			return a.model.State.NotifyError(err)
		}
	}
	return a.model.State.Notify(tui.SuccessMessage(msg.Result), state.SeveritySuccess)
}

func (a *App) apply(result any) error {
	switch r := result.(type) {
	case tui.SubmitDoneResult:
		a.submitView.SetResult(render.SubmitSuccess(r.Result))
	case tui.AnalysisResult:
		a.analysisView.SetAnalysis(render.BuildAnalysis(r.Analysis))
	case tui.PlanResult:
		a.planView.SetPlan(render.BuildPlan(r.Envelope.Plan))
	case tui.RecommendationsResult:
		a.recommendationsView.SetRecommendations(render.BuildRecommendations(r.Envelope.Recommendations))
	case tui.ProgressResult:
		return render.BindDashboard(a.model.State.Charts, render.BuildDashboard(r.Progress), chart.TerminalBuilder)
	}
	return nil
}

// ============================================================================
// Rendering
// ============================================================================

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.model.State.Registry.Active() {
	case state.PanelSubmit:
		content = a.submitView.View()
	case state.PanelAnalysis:
		content = a.analysisView.View()
	case state.PanelPlan:
		content = a.planView.View()
	case state.PanelRecommendations:
		content = a.recommendationsView.View()
	case state.PanelDashboard:
		content = a.dashboardView.View()
	}

	if a.model.State.Busy.Visible() {
		content = a.renderBusy()
	}

	sections := []string{
		a.renderHeader(),
		a.renderTabBar(),
		lipgloss.NewStyle().Height(panelHeight(a.model.Height)).MaxHeight(panelHeight(a.model.Height)).Render(content),
		a.renderStatus(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderHeader() string {
	title := tui.TitleStyle.Render("ExamCoach")
	who := fmt.Sprintf("Student ID: %d", a.model.StudentID)
	if a.model.StudentName != "" {
		who = a.model.StudentName + " · " + who
	}
	if a.model.EditingStudent {
		who = "Student ID: " + a.model.StudentInput.View() + tui.DimStyle.Render("  enter apply · esc cancel")
	}
	return title + "  " + tui.DimStyle.Render("│") + "  " + who
}

func (a *App) renderTabBar() string {
	active := a.model.State.Registry.Active()
	tabs := make([]string, len(state.Panels))
	for i, p := range state.Panels {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == active {
			tabs[i] = tui.ActiveTabStyle.Render(label)
		} else {
			tabs[i] = tui.InactiveTabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderBusy() string {
	box := tui.OverlayStyle.Render(a.model.Spinner.View() + " " + a.model.State.Busy.Message())
	return lipgloss.Place(a.model.Width, panelHeight(a.model.Height), lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderStatus() string {
	var parts []string
	if n, ok := a.model.State.Notification(); ok {
		style := tui.ToastSuccessStyle
		if n.Severity == state.SeverityError {
			style = tui.ToastErrorStyle
		}
		parts = append(parts, style.Render(n.Message))
	}
	if a.model.CtrlCPending {
		parts = append(parts, tui.WarningStyle.Render("Press Ctrl+C again to exit"))
	}
	parts = append(parts, a.model.Help.View(a.model.Keys))
	return strings.Join(parts, "\n")
}
