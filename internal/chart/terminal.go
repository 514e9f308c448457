package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#38bdf8"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// Sub-block characters for fractional fill within a cell.
var subBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Terminal is a chart drawn with block characters.
type Terminal struct {
	canvas   *Canvas
	cfg      Config
	disposed bool
}

// NewTerminal attaches a terminal chart to canvas.
func NewTerminal(canvas *Canvas, cfg Config) (*Terminal, error) {
	if err := canvas.Attach(); err != nil {
		return nil, err
	}
	return &Terminal{canvas: canvas, cfg: cfg}, nil
}

// TerminalBuilder returns a Builder producing a terminal chart for cfg.
func TerminalBuilder(cfg Config) Builder {
	return func(canvas *Canvas) (Chart, error) {
		return NewTerminal(canvas, cfg)
	}
}

// Config returns the chart's configuration.
func (t *Terminal) Config() Config { return t.cfg }

// Disposed reports whether Dispose has been called.
func (t *Terminal) Disposed() bool { return t.disposed }

// Dispose releases the canvas.
func (t *Terminal) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.canvas.Release()
}

// Render draws the chart into a width x height block of text.
func (t *Terminal) Render(width, height int) string {
	if t.cfg.Points() == 0 {
		return titleStyle.Render(t.cfg.Title) + "\n" + dimStyle.Render("  no data")
	}
	switch t.cfg.Kind {
	case KindBar:
		return renderBars(t.cfg, width)
	case KindDoughnut:
		return renderProportion(t.cfg, width)
	default:
		return renderArea(t.cfg, width, height)
	}
}

// renderArea draws the first dataset as an area chart with a y-axis and
// sub-cell resolution.
//
//	Accuracy %                    now: 66.7
//	100│
//	 50│      ████████
//	  0│████████████████
//	   └────────────────
//	   Test 1     Test 3
func renderArea(cfg Config, width, height int) string {
	if height < 2 {
		height = 2
	}
	axisW := 4
	chartW := width - axisW - 1
	if chartW < 10 {
		chartW = 10
	}

	ds := cfg.Datasets[0]
	cols := stretch(ds.Values, chartW)
	rng := cfg.valueRange()
	span := rng.Max - rng.Min
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ds.Color)))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(cfg.Title))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  now: %.1f", ds.Values[len(ds.Values)-1])))
	sb.WriteString("\n")

	for row := height - 1; row >= 0; row-- {
		yVal := rng.Min + (float64(row+1)/float64(height))*span
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%3.0f│", yVal)))

		for _, val := range cols {
			normalized := (val - rng.Min) / span * float64(height)
			cellBottom := float64(row)
			var ch rune
			switch {
			case normalized >= cellBottom+1:
				ch = '█'
			case normalized <= cellBottom:
				ch = ' '
			default:
				idx := int((normalized - cellBottom) * 8)
				if idx >= len(subBlocks) {
					idx = len(subBlocks) - 1
				}
				if idx < 0 {
					idx = 0
				}
				ch = subBlocks[idx]
			}
			if ch == ' ' {
				sb.WriteRune(' ')
			} else {
				sb.WriteString(style.Render(string(ch)))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(dimStyle.Render("   └" + strings.Repeat("─", len(cols))))
	sb.WriteString("\n")

	left := cfg.Label(0)
	right := cfg.Label(len(ds.Values) - 1)
	if len(ds.Values) == 1 {
		right = ""
	}
	gap := len(cols) - lipgloss.Width(left) - lipgloss.Width(right) + axisW
	if gap < 1 {
		gap = 1
	}
	sb.WriteString(dimStyle.Render("    " + left + strings.Repeat(" ", gap) + right))
	return sb.String()
}

// stretch maps data onto width columns, repeating each point across its
// share of the columns.
func stretch(data []float64, width int) []float64 {
	if len(data) >= width {
		return data[len(data)-width:]
	}
	out := make([]float64, width)
	for i := range out {
		out[i] = data[i*len(data)/width]
	}
	return out
}

// renderBars draws one horizontal bar per label.
//
//	Weakness score
//	Thermodynamics  ██████████████░░░░  0.720
//	Organic Chem…   ████░░░░░░░░░░░░░░  0.210
func renderBars(cfg Config, width int) string {
	ds := cfg.Datasets[0]
	rng := cfg.valueRange()
	span := rng.Max - rng.Min

	labelW := 0
	for i := range ds.Values {
		if w := lipgloss.Width(cfg.Label(i)); w > labelW {
			labelW = w
		}
	}
	barW := width - labelW - 10
	if barW < 10 {
		barW = 10
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(cfg.Title))
	for i, v := range ds.Values {
		ratio := (v - rng.Min) / span
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		filled := int(ratio*float64(barW) + 0.5)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ds.PointColor(i))))

		label := cfg.Label(i)
		sb.WriteString("\n")
		sb.WriteString(label + strings.Repeat(" ", labelW-lipgloss.Width(label)) + "  ")
		sb.WriteString(style.Render(strings.Repeat("█", filled)))
		sb.WriteString(dimStyle.Render(strings.Repeat("░", barW-filled)))
		sb.WriteString(fmt.Sprintf("  %.3f", v))
	}
	return sb.String()
}

// renderProportion draws a doughnut as a single segmented bar with a legend.
//
//	Topic breakdown
//	██████████████▒▒▒▒▒▒▒▒▒▒▒▒
//	■ Weak (≥0.40): 3   ■ Strong: 5
func renderProportion(cfg Config, width int) string {
	ds := cfg.Datasets[0]
	total := 0.0
	for _, v := range ds.Values {
		if v > 0 {
			total += v
		}
	}

	barW := width - 2
	if barW < 10 {
		barW = 10
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(cfg.Title))
	sb.WriteString("\n")

	if total == 0 {
		sb.WriteString(dimStyle.Render(strings.Repeat("░", barW)))
	} else {
		used := 0
		for i, v := range ds.Values {
			if v <= 0 {
				continue
			}
			n := int(v/total*float64(barW) + 0.5)
			if i == len(ds.Values)-1 || used+n > barW {
				n = barW - used
			}
			used += n
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ds.PointColor(i))))
			sb.WriteString(style.Render(strings.Repeat("█", n)))
		}
	}
	sb.WriteString("\n")

	legend := make([]string, 0, len(ds.Values))
	for i, v := range ds.Values {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ds.PointColor(i))))
		legend = append(legend, style.Render("■")+fmt.Sprintf(" %s: %g", cfg.Label(i), v))
	}
	sb.WriteString(strings.Join(legend, "   "))
	return sb.String()
}
