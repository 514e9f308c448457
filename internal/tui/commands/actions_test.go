package commands

import (
	"context"
	"net/http"
	"testing"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/api/apitest"
	"github.com/examcoach/examcoach/internal/tui"
	"github.com/examcoach/examcoach/internal/tui/state"
)

func TestActions(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Analyses[3] = &api.Analysis{StudentID: 3, TotalQuestions: 10}
	client := srv.Client()
	test := &api.MockTest{StudentID: 3, Questions: []api.Question{{StudentAnswer: "A", CorrectAnswer: "A"}}}

	tests := []struct {
		action    Action
		wantPanel state.Panel
		wantPath  string
		check     func(t *testing.T, res any)
	}{
		{SubmitTest(client, test), state.PanelSubmit, api.PathSubmitTest, func(t *testing.T, res any) {
			r := res.(tui.SubmitDoneResult)
			if r.Result.Correct != 1 {
				t.Errorf("Correct = %d, want 1", r.Result.Correct)
			}
		}},
		{LoadAnalysis(client, 3), state.PanelAnalysis, "/api/analysis/3", func(t *testing.T, res any) {
			if res.(tui.AnalysisResult).Analysis.TotalQuestions != 10 {
				t.Error("analysis not passed through")
			}
		}},
		{GeneratePlan(client, 3), state.PanelPlan, "/api/study-plan/3", func(t *testing.T, res any) {
			if !res.(tui.PlanResult).Generated {
				t.Error("Generated = false")
			}
		}},
		{LoadLatestPlan(client, 3), state.PanelPlan, "/api/study-plan/3/latest", func(t *testing.T, res any) {
			if res.(tui.PlanResult).Generated {
				t.Error("Generated = true")
			}
		}},
		{GenerateRecommendations(client, 3), state.PanelRecommendations, "/api/recommendations/3", nil},
		{LoadLatestRecommendations(client, 3), state.PanelRecommendations, "/api/recommendations/3/latest", nil},
		{LoadProgress(client, 3), state.PanelDashboard, "/api/progress/3", func(t *testing.T, res any) {
			if res.(tui.ProgressResult).Progress.StudentID != 3 {
				t.Error("progress not passed through")
			}
		}},
	}

	for i, tt := range tests {
		t.Run(tt.wantPath, func(t *testing.T) {
			if tt.action.Panel != tt.wantPanel {
				t.Errorf("Panel = %s, want %s", tt.action.Panel, tt.wantPanel)
			}
			if tt.action.Label == "" {
				t.Error("Label is empty")
			}
			res, err := tt.action.Op(context.Background())
			if err != nil {
				t.Fatalf("Op() error = %v", err)
			}
			if got := srv.Recorded()[i].Path; got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestActionError(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Fail(http.MethodGet, "/api/progress/1", http.StatusInternalServerError, `{"detail":"database unavailable"}`)

	res, err := LoadProgress(srv.Client(), 1).Op(context.Background())
	if res != nil {
		t.Errorf("result = %v, want nil", res)
	}
	if got := api.Message(err); got != "database unavailable" {
		t.Errorf("Message() = %q, want %q", got, "database unavailable")
	}
}
