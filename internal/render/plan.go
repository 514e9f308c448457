package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/api"
)

// Plan placeholders and defaults.
const (
	EmptyPlan  = "No plan data returned."
	DefaultTip = "Stay consistent — every hour of focused study counts!"
)

// DayCard is the display model of one plan day.
type DayCard struct {
	Day       int
	Label     string
	Focus     string
	Hours     string
	Questions int
	Blocks    []string
	Tip       string
}

// NewDayCard fills in the defaults for a plan day.
func NewDayCard(d api.PlanDay) DayCard {
	label := d.DateLabel
	if label == "" {
		label = fmt.Sprintf("Day %d", d.Day.Int())
	}
	tip := d.Tip
	if tip == "" {
		tip = DefaultTip
	}
	blocks := d.RevisionBlocks
	if blocks == nil {
		blocks = []string{}
	}
	return DayCard{
		Day:       d.Day.Int(),
		Label:     label,
		Focus:     d.Focus,
		Hours:     formatNumber(d.DurationHours.Float()) + "h",
		Questions: d.PracticeQuestions.Int(),
		Blocks:    blocks,
		Tip:       tip,
	}
}

// PlanView is the display model of the plan panel. The first day starts
// expanded; each day's expansion is toggled on its own.
type PlanView struct {
	Days []DayCard
	open []bool
}

// BuildPlan maps a plan to its display model.
func BuildPlan(p api.StudyPlan) *PlanView {
	v := &PlanView{
		Days: make([]DayCard, len(p.Days)),
		open: make([]bool, len(p.Days)),
	}
	for i, d := range p.Days {
		v.Days[i] = NewDayCard(d)
	}
	if len(v.open) > 0 {
		v.open[0] = true
	}
	return v
}

// Empty reports whether the plan has no days.
func (v *PlanView) Empty() bool { return len(v.Days) == 0 }

// IsOpen reports whether the i-th day is expanded.
func (v *PlanView) IsOpen(i int) bool {
	return i >= 0 && i < len(v.open) && v.open[i]
}

// Toggle flips the expansion of the i-th day. Out-of-range indexes are ignored.
func (v *PlanView) Toggle(i int) {
	if i >= 0 && i < len(v.open) {
		v.open[i] = !v.open[i]
	}
}

// Render draws every day card. The card at cursor is highlighted; pass -1
// for none.
func (v *PlanView) Render(width, cursor int) string {
	if v.Empty() {
		return Placeholder(EmptyPlan)
	}
	width = cardWidth(width)

	cards := make([]string, len(v.Days))
	for i, d := range v.Days {
		cards[i] = d.Render(width, v.IsOpen(i), i == cursor)
	}
	return strings.Join(cards, "\n")
}

// Render draws a single day card.
func (d DayCard) Render(width int, open, selected bool) string {
	inner := cardWidth(width) - 4

	chevron := "▶"
	if open {
		chevron = "▼"
	}
	meta := labelStyle.Render(fmt.Sprintf("⏱ %s  📝 %d Qs", d.Hours, d.Questions))
	header := chevron + " " + titleStyle.Render(d.Label) + "  " + d.Focus + "  " + meta

	lines := []string{header}
	if open {
		if blocks := bulletList(d.Blocks); blocks != "" {
			lines = append(lines, blocks)
		}
		lines = append(lines, tipStyle.Render("💡 "+d.Tip))
	}

	style := cardStyle
	if selected {
		style = openCardStyle
	}
	return style.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
