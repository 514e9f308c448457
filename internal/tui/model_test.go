package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/examcoach/examcoach/internal/api"
)

func TestParseStudentID(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"7", 7},
		{" 12 ", 12},
		{"", DefaultStudentID},
		{"0", DefaultStudentID},
		{"abc", DefaultStudentID},
		{"-3", DefaultStudentID},
	}
	for _, tt := range tests {
		if got := ParseStudentID(tt.in); got != tt.want {
			t.Errorf("ParseStudentID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSuccessMessage(t *testing.T) {
	tests := []struct {
		result any
		want   string
	}{
		{SubmitDoneResult{Result: &api.SubmitResult{}}, "Test analysed! Navigate to 'Weak Topics' tab."},
		{AnalysisResult{}, "Analysis loaded!"},
		{PlanResult{Generated: true}, "Study plan generated!"},
		{PlanResult{}, "Latest plan loaded!"},
		{RecommendationsResult{Generated: true}, "Recommendations generated!"},
		{RecommendationsResult{}, "Recommendations loaded!"},
		{ProgressResult{}, "Dashboard refreshed!"},
	}
	for _, tt := range tests {
		if got := SuccessMessage(tt.result); got != tt.want {
			t.Errorf("SuccessMessage(%T) = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestFallbackRunner(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFallbackRunner(&buf).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "examcoach analysis") {
		t.Errorf("guidance missing subcommands:\n%s", buf.String())
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(DefaultKeyMap.ShortHelp()) == 0 || len(DefaultKeyMap.FullHelp()) == 0 {
		t.Error("help bindings empty")
	}
}
