package render

import (
	"fmt"

	"github.com/examcoach/examcoach/internal/api"
)

// SubmitBox is the inline result shown under the submit panel.
type SubmitBox struct {
	OK         bool
	Total      int
	Correct    int
	Accuracy   string // percent
	MockTestID int
	Error      string
}

// SubmitSuccess builds the box for a scored submission.
func SubmitSuccess(r *api.SubmitResult) SubmitBox {
	return SubmitBox{
		OK:         true,
		Total:      r.TotalQuestions,
		Correct:    r.Correct,
		Accuracy:   formatNumber(r.Accuracy) + "%",
		MockTestID: r.MockTestID,
	}
}

// SubmitFailure builds the error box for a failed submission.
func SubmitFailure(msg string) SubmitBox {
	return SubmitBox{Error: msg}
}

// Text returns the box content without styling.
func (b SubmitBox) Text() string {
	if !b.OK {
		return "Error: " + b.Error
	}
	return fmt.Sprintf("✅ Test submitted successfully!\n"+
		"Total Questions: %d  |  Correct: %d  |  Accuracy: %s\n"+
		"Mock Test ID: %d. Weakness scores updated automatically.",
		b.Total, b.Correct, b.Accuracy, b.MockTestID)
}

// Render draws the box.
func (b SubmitBox) Render(width int) string {
	style := successBoxStyle
	if !b.OK {
		style = errorBoxStyle
	}
	return style.Width(cardWidth(width) - 4).Render(b.Text())
}
