package render

import (
	"fmt"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/chart"
)

// Dashboard chart keys.
const (
	KeyAccuracy = "accuracy"
	KeyTopicPie = "topicPie"
	KeyWeakness = "weakness"
	KeyTime     = "time"
)

// ChartKeys lists the dashboard chart keys in display order.
var ChartKeys = []string{KeyAccuracy, KeyTopicPie, KeyWeakness, KeyTime}

// MaxWeaknessBars is how many topics the weakness chart shows.
const MaxWeaknessBars = 8

// Label truncation: labels longer than maxLabelRunes are cut to
// truncatedRunes followed by an ellipsis.
const (
	maxLabelRunes  = 15
	truncatedRunes = 14
)

// TruncateLabel shortens a topic name for a chart axis.
func TruncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:truncatedRunes]) + "…"
}

// DashboardCharts holds one chart configuration per dashboard key.
type DashboardCharts struct {
	Accuracy chart.Config
	TopicPie chart.Config
	Weakness chart.Config
	Time     chart.Config
}

// ByKey returns the configuration for a chart key.
func (d DashboardCharts) ByKey(key string) (chart.Config, bool) {
	switch key {
	case KeyAccuracy:
		return d.Accuracy, true
	case KeyTopicPie:
		return d.TopicPie, true
	case KeyWeakness:
		return d.Weakness, true
	case KeyTime:
		return d.Time, true
	}
	return chart.Config{}, false
}

// BuildDashboard derives the four dashboard charts from a progress response.
// Topic order is taken as given.
func BuildDashboard(p *api.Progress) DashboardCharts {
	history := p.History
	topics := p.TopicScores

	testLabels := make([]string, len(history))
	accuracy := make([]float64, len(history))
	avgTime := make([]float64, len(history))
	for i, h := range history {
		testLabels[i] = fmt.Sprintf("Test %d", h.TestNumber)
		accuracy[i] = h.Accuracy
		avgTime[i] = h.AvgTime
	}

	weak := 0
	for _, t := range topics {
		if t.WeaknessScore >= WeakThreshold {
			weak++
		}
	}

	top := topics
	if len(top) > MaxWeaknessBars {
		top = top[:MaxWeaknessBars]
	}
	barLabels := make([]string, len(top))
	scores := make([]float64, len(top))
	colors := make([]chart.Color, len(top))
	for i, t := range top {
		barLabels[i] = TruncateLabel(t.Topic)
		scores[i] = t.WeaknessScore
		colors[i] = TierOf(t.WeaknessScore).Color()
	}

	return DashboardCharts{
		Accuracy: chart.Config{
			Kind:     chart.KindLine,
			Title:    "Accuracy Over Time",
			Labels:   testLabels,
			Datasets: []chart.Dataset{{Label: "Accuracy (%)", Values: accuracy, Color: colorPurple}},
			YRange:   &chart.Range{Min: 0, Max: 100},
		},
		TopicPie: chart.Config{
			Kind:   chart.KindDoughnut,
			Title:  "Weak vs Strong Topics",
			Labels: []string{"Weak Topics", "Strong Topics"},
			Datasets: []chart.Dataset{{
				Values: []float64{float64(weak), float64(len(topics) - weak)},
				Colors: []chart.Color{colorRed, colorGreen},
			}},
		},
		Weakness: chart.Config{
			Kind:     chart.KindBar,
			Title:    "Weakness Score by Topic",
			Labels:   barLabels,
			Datasets: []chart.Dataset{{Label: "Weakness Score", Values: scores, Colors: colors}},
			YRange:   &chart.Range{Min: 0, Max: 1},
		},
		Time: chart.Config{
			Kind:     chart.KindLine,
			Title:    "Avg Time per Test (s)",
			Labels:   testLabels,
			Datasets: []chart.Dataset{{Label: "Avg Time (s)", Values: avgTime, Color: colorCyan}},
		},
	}
}

// Backend turns a chart configuration into a builder for one canvas.
type Backend func(chart.Config) chart.Builder

// BindDashboard rebuilds every dashboard chart through m, each under its own
// key. The first failure stops the rebuild and is returned.
func BindDashboard(m *chart.Manager, d DashboardCharts, backend Backend) error {
	for _, key := range ChartKeys {
		cfg, _ := d.ByKey(key)
		if err := m.Bind(key, backend(cfg)); err != nil {
			return err
		}
	}
	return nil
}
