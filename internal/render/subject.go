package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/examcoach/examcoach/internal/chart"
)

// Category is the display group of a subject.
type Category int

const (
	CategoryDefault Category = iota
	CategoryPhysics
	CategoryChemistry
	CategoryMathematics
)

var categoryBySubject = map[string]Category{
	"physics":     CategoryPhysics,
	"chemistry":   CategoryChemistry,
	"chem":        CategoryChemistry,
	"mathematics": CategoryMathematics,
	"maths":       CategoryMathematics,
	"math":        CategoryMathematics,
}

// CategoryOf looks up the category of a subject name, ignoring case and
// surrounding space. Unknown subjects fall back to CategoryDefault.
func CategoryOf(subject string) Category {
	return categoryBySubject[strings.ToLower(strings.TrimSpace(subject))]
}

func (c Category) String() string {
	switch c {
	case CategoryPhysics:
		return "physics"
	case CategoryChemistry:
		return "chemistry"
	case CategoryMathematics:
		return "mathematics"
	default:
		return "default"
	}
}

func (c Category) color() chart.Color {
	switch c {
	case CategoryPhysics:
		return "#60a5fa"
	case CategoryChemistry:
		return "#34d399"
	case CategoryMathematics:
		return "#f472b6"
	default:
		return colorMuted
	}
}

// SubjectTag renders a subject name in its category colour.
func SubjectTag(subject string) string {
	c := CategoryOf(subject)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(c.color()))).
		Bold(c != CategoryDefault).
		Render("[" + subject + "]")
}
