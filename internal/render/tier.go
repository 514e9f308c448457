// Package render maps service responses to display content: styled text
// blocks for the analysis, plan, recommendation and submit panels, and chart
// configurations for the dashboard.
package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/chart"
)

// Weakness thresholds. A score at a threshold belongs to the higher tier.
const (
	WeakThreshold  = 0.40
	AlertThreshold = 0.65
)

// Tier is the severity band of a weakness score.
type Tier int

const (
	TierHealthy Tier = iota
	TierCaution
	TierAlert
)

// TierOf returns the tier of a weakness score.
func TierOf(score float64) Tier {
	switch {
	case score >= AlertThreshold:
		return TierAlert
	case score >= WeakThreshold:
		return TierCaution
	default:
		return TierHealthy
	}
}

func (t Tier) String() string {
	switch t {
	case TierAlert:
		return "alert"
	case TierCaution:
		return "caution"
	default:
		return "healthy"
	}
}

// Color returns the tier's display colour.
func (t Tier) Color() chart.Color {
	switch t {
	case TierAlert:
		return colorRed
	case TierCaution:
		return colorOrange
	default:
		return colorGreen
	}
}

// Style returns a foreground style in the tier's colour.
func (t Tier) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(string(t.Color())))
}

// formatNumber prints v the way the service sends it: no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
