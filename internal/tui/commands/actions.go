// Package commands provides the panel operations started from the TUI.
// Each Action pairs a busy-overlay label with the request it runs.
package commands

import (
	"context"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/tui"
	"github.com/examcoach/examcoach/internal/tui/state"
)

// Action is an operation ready to be started with state.State.Begin.
type Action struct {
	Panel state.Panel
	Label string
	Op    state.Op
}

// SubmitTest posts a decoded mock test.
func SubmitTest(client *api.Client, test *api.MockTest) Action {
	return Action{
		Panel: state.PanelSubmit,
		Label: "Analysing your test…",
		Op: func(ctx context.Context) (any, error) {
			res, err := client.SubmitTest(ctx, test)
			if err != nil {
				return nil, err
			}
			return tui.SubmitDoneResult{Result: res}, nil
		},
	}
}

// LoadAnalysis fetches the topic analysis for a student.
func LoadAnalysis(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelAnalysis,
		Label: "Loading analysis…",
		Op: func(ctx context.Context) (any, error) {
			a, err := client.Analysis(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.AnalysisResult{Analysis: a}, nil
		},
	}
}

// GeneratePlan asks the service for a new study plan.
func GeneratePlan(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelPlan,
		Label: "Generating your 7-day study plan…",
		Op: func(ctx context.Context) (any, error) {
			p, err := client.GeneratePlan(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.PlanResult{Envelope: p, Generated: true}, nil
		},
	}
}

// LoadLatestPlan fetches the most recent study plan.
func LoadLatestPlan(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelPlan,
		Label: "Loading latest plan…",
		Op: func(ctx context.Context) (any, error) {
			p, err := client.LatestPlan(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.PlanResult{Envelope: p}, nil
		},
	}
}

// GenerateRecommendations asks the service for new recommendations.
func GenerateRecommendations(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelRecommendations,
		Label: "Generating recommendations…",
		Op: func(ctx context.Context) (any, error) {
			r, err := client.GenerateRecommendations(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.RecommendationsResult{Envelope: r, Generated: true}, nil
		},
	}
}

// LoadLatestRecommendations fetches the most recent recommendations.
func LoadLatestRecommendations(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelRecommendations,
		Label: "Loading latest recommendations…",
		Op: func(ctx context.Context) (any, error) {
			r, err := client.LatestRecommendations(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.RecommendationsResult{Envelope: r}, nil
		},
	}
}

// LoadProgress fetches the progress history for the dashboard.
func LoadProgress(client *api.Client, studentID int) Action {
	return Action{
		Panel: state.PanelDashboard,
		Label: "Loading dashboard…",
		Op: func(ctx context.Context) (any, error) {
			p, err := client.Progress(ctx, studentID)
			if err != nil {
				return nil, err
			}
			return tui.ProgressResult{Progress: p}, nil
		},
	}
}
