package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/api"
)

// EmptyAnalysis is shown when neither topic list has entries.
const EmptyAnalysis = "No topic data yet. Submit a test first."

// TopicCard is the display model of one ranked topic.
type TopicCard struct {
	Rank          int
	Topic         string
	Subject       string
	Category      Category
	ErrorRate     string // whole percent, e.g. "67%"
	ErrorRateHigh bool   // error rate above one half
	AvgTime       string // one decimal and unit, e.g. "95.0s"
	Mistakes      int
	BarWidth      float64 // weakness score as a percentage, clamped to [0,100]
	Score         string  // three decimals
	Tier          Tier
}

// AnalysisView is the display model of the analysis panel.
type AnalysisView struct {
	TotalQuestions int
	TotalCorrect   int
	Accuracy       string // percent
	WeakCount      int
	Cards          []TopicCard
}

// Empty reports whether there are no topics to show.
func (v AnalysisView) Empty() bool { return len(v.Cards) == 0 }

// CombineTopics returns the weak topics followed by the strong topics, each
// in input order.
func CombineTopics(weak, strong []api.TopicScore) []api.TopicScore {
	all := make([]api.TopicScore, 0, len(weak)+len(strong))
	all = append(all, weak...)
	return append(all, strong...)
}

// NewTopicCard derives the display fields of a topic record.
func NewTopicCard(t api.TopicScore) TopicCard {
	return TopicCard{
		Rank:          t.Rank,
		Topic:         t.Topic,
		Subject:       t.Subject,
		Category:      CategoryOf(t.Subject),
		ErrorRate:     fmt.Sprintf("%d%%", int(math.Round(t.ErrorRate*100))),
		ErrorRateHigh: t.ErrorRate > 0.5,
		AvgTime:       fmt.Sprintf("%.1fs", t.AvgTime),
		Mistakes:      t.MistakeFreq,
		BarWidth:      BarWidth(t.WeaknessScore),
		Score:         fmt.Sprintf("%.3f", t.WeaknessScore),
		Tier:          TierOf(t.WeaknessScore),
	}
}

// BarWidth converts a weakness score to a fill percentage in [0,100],
// rounded to one decimal.
func BarWidth(score float64) float64 {
	pct := math.Max(0, math.Min(score*100, 100))
	return math.Round(pct*10) / 10
}

// BuildAnalysis maps an analysis response to its display model.
func BuildAnalysis(a *api.Analysis) AnalysisView {
	topics := CombineTopics(a.WeakTopics, a.StrongTopics)
	cards := make([]TopicCard, len(topics))
	for i, t := range topics {
		cards[i] = NewTopicCard(t)
	}
	return AnalysisView{
		TotalQuestions: a.TotalQuestions,
		TotalCorrect:   a.TotalCorrect,
		Accuracy:       formatNumber(a.Accuracy) + "%",
		WeakCount:      len(a.WeakTopics),
		Cards:          cards,
	}
}

// Render draws the summary row followed by one card per topic.
func (v AnalysisView) Render(width int) string {
	width = cardWidth(width)

	stats := []string{
		labelStyle.Render("Total ") + titleStyle.Render(fmt.Sprint(v.TotalQuestions)),
		labelStyle.Render("Correct ") + titleStyle.Render(fmt.Sprint(v.TotalCorrect)),
		labelStyle.Render("Accuracy ") + titleStyle.Render(v.Accuracy),
		labelStyle.Render("Weak topics ") + titleStyle.Render(fmt.Sprint(v.WeakCount)),
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(stats, "   "))
	sb.WriteString("\n\n")

	if v.Empty() {
		sb.WriteString(Placeholder(EmptyAnalysis))
		return sb.String()
	}

	for i, c := range v.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.Render(width))
	}
	return sb.String()
}

// Render draws a single topic card.
func (c TopicCard) Render(width int) string {
	inner := cardWidth(width) - 4

	errStyle := fg(colorGreen)
	if c.ErrorRateHigh {
		errStyle = fg(colorRed)
	}

	header := labelStyle.Render(fmt.Sprintf("Rank #%d  ", c.Rank)) +
		titleStyle.Render(c.Topic) + "  " + SubjectTag(c.Subject)

	scores := labelStyle.Render("Error Rate ") + errStyle.Render(c.ErrorRate) +
		labelStyle.Render("   Avg Time ") + c.AvgTime +
		labelStyle.Render("   Mistakes ") + fmt.Sprint(c.Mistakes)

	barW := inner - 8
	if barW < 10 {
		barW = 10
	}
	filled := int(math.Round(c.BarWidth / 100 * float64(barW)))
	bar := c.Tier.Style().Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", barW-filled)) +
		" " + c.Tier.Style().Bold(true).Render(c.Score)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		scores,
		labelStyle.Render("Weakness Score"),
		bar,
	)
	return cardStyle.Width(inner).Render(body)
}
