// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/examcoach/examcoach/internal/api"
)

// ============================================================================
// Operation Results
// ============================================================================
//
// These are the Result values of state.OperationDoneMsg. Each names the
// panel data it carries and the notification shown on success.

// SubmitDoneResult is the outcome of a test submission.
type SubmitDoneResult struct {
	Result *api.SubmitResult
}

// AnalysisResult carries a freshly loaded analysis.
type AnalysisResult struct {
	Analysis *api.Analysis
}

// PlanResult carries a study plan.
type PlanResult struct {
	Envelope  *api.StudyPlanEnvelope
	Generated bool // false when the latest stored plan was loaded
}

// RecommendationsResult carries a recommendation set.
type RecommendationsResult struct {
	Envelope  *api.RecommendationEnvelope
	Generated bool
}

// ProgressResult carries the progress history for the dashboard.
type ProgressResult struct {
	Progress *api.Progress
}

// SuccessMessage returns the notification text for a successful result.
func SuccessMessage(result any) string {
	switch r := result.(type) {
	case SubmitDoneResult:
		return "Test analysed! Navigate to 'Weak Topics' tab."
	case AnalysisResult:
		return "Analysis loaded!"
	case PlanResult:
		if r.Generated {
			return "Study plan generated!"
		}
		return "Latest plan loaded!"
	case RecommendationsResult:
		if r.Generated {
			return "Recommendations generated!"
		}
		return "Recommendations loaded!"
	case ProgressResult:
		return "Dashboard refreshed!"
	default:
		return "Done."
	}
}

// ============================================================================
// UI Control Messages
// ============================================================================

// CtrlCResetMsg clears the pending quit confirmation.
type CtrlCResetMsg struct{}

// StudentIDChangedMsg is sent when the user edits the student id.
type StudentIDChangedMsg struct {
	StudentID int
}
