package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/api"
)

// EmptyRecommendations is shown when the set has no entries.
const EmptyRecommendations = "No recommendations yet."

// ResourceTypeVideo is the resource type given its own marker.
const ResourceTypeVideo = "youtube"

// ResourceLink is the display model of an external resource.
type ResourceLink struct {
	Marker string
	Title  string
	URL    string
}

// ResourceMarker returns the marker shown before a resource of the given type.
func ResourceMarker(typ string) string {
	if typ == ResourceTypeVideo {
		return "▶ "
	}
	return "🔗 "
}

// RecommendationCard is the display model of one recommendation.
type RecommendationCard struct {
	Topic             string
	Subject           string
	WhyWeak           string
	ConceptRevision   []string
	PracticeExercises []string
	MockTests         []string
	Resources         []ResourceLink
	Tip               string
}

// NewRecommendationCard maps a recommendation, defaulting absent lists to empty.
func NewRecommendationCard(r api.Recommendation) RecommendationCard {
	links := make([]ResourceLink, len(r.Resources))
	for i, res := range r.Resources {
		links[i] = ResourceLink{Marker: ResourceMarker(res.Type), Title: res.Title, URL: res.URL}
	}
	return RecommendationCard{
		Topic:             r.Topic,
		Subject:           r.Subject,
		WhyWeak:           r.WhyWeak,
		ConceptRevision:   orEmpty(r.ConceptRevision),
		PracticeExercises: orEmpty(r.PracticeExercises),
		MockTests:         orEmpty(r.MockTests),
		Resources:         links,
		Tip:               r.ImprovementTip,
	}
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// BuildRecommendations maps a recommendation set to its cards.
func BuildRecommendations(set api.RecommendationSet) []RecommendationCard {
	cards := make([]RecommendationCard, len(set.Recommendations))
	for i, r := range set.Recommendations {
		cards[i] = NewRecommendationCard(r)
	}
	return cards
}

// RenderRecommendations draws every card, or the placeholder when there are none.
func RenderRecommendations(cards []RecommendationCard, width int) string {
	if len(cards) == 0 {
		return Placeholder(EmptyRecommendations)
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Render(width)
	}
	return strings.Join(out, "\n")
}

// Render draws a single recommendation card.
func (c RecommendationCard) Render(width int) string {
	inner := cardWidth(width) - 4

	lines := []string{
		titleStyle.Render(c.Topic) + "  " + SubjectTag(c.Subject),
		warnStyle.Render("⚠️ " + c.WhyWeak),
	}
	sections := []struct {
		title string
		items []string
	}{
		{"📖 Concept Revision", c.ConceptRevision},
		{"✏️ Practice Exercises", c.PracticeExercises},
		{"📄 Mock Tests", c.MockTests},
	}
	for _, s := range sections {
		lines = append(lines, sectionStyle.Render(s.title))
		if list := bulletList(s.items); list != "" {
			lines = append(lines, list)
		}
	}

	if len(c.Resources) > 0 {
		links := make([]string, len(c.Resources))
		for i, r := range c.Resources {
			links[i] = r.Marker + r.Title + labelStyle.Render(" <"+r.URL+">")
		}
		lines = append(lines, strings.Join(links, "\n"))
	}
	lines = append(lines, tipStyle.Render("🌟 "+c.Tip))

	return cardStyle.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
