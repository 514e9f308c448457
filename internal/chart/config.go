// Package chart owns the lifecycle of the dashboard's chart instances.
//
// A chart is always bound to a named Canvas, and a Canvas holds at most one
// live chart. The Manager keeps one chart per key and rebuilds a slot by
// disposing the old chart before the builder for the new one runs. Chart
// configuration is opaque to the Manager; two backends render it, one with
// terminal block characters and one as PNG for export.
package chart

// Kind selects how a Config is drawn.
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindDoughnut
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	case KindDoughnut:
		return "doughnut"
	default:
		return "unknown"
	}
}

// Color is a hex RGB colour such as "#ef4444".
type Color string

// Dataset is one series of values, aligned with Config.Labels.
type Dataset struct {
	Label  string
	Values []float64
	Color  Color   // series colour
	Colors []Color // optional per-point colours, used by bar and doughnut charts
}

// PointColor returns the colour of the i-th value.
func (d Dataset) PointColor(i int) Color {
	if i < len(d.Colors) && d.Colors[i] != "" {
		return d.Colors[i]
	}
	return d.Color
}

// Range fixes the value axis.
type Range struct {
	Min, Max float64
}

// Config describes a chart independently of how it is drawn.
type Config struct {
	Kind     Kind
	Title    string
	Labels   []string
	Datasets []Dataset
	YRange   *Range // nil means scale to the data
}

// Points returns the number of values in the first dataset.
func (c Config) Points() int {
	if len(c.Datasets) == 0 {
		return 0
	}
	return len(c.Datasets[0].Values)
}

// Label returns the i-th label, or "" when there is none.
func (c Config) Label(i int) string {
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return ""
}

// valueRange returns the axis range for the first dataset.
func (c Config) valueRange() Range {
	if c.YRange != nil && c.YRange.Max > c.YRange.Min {
		return *c.YRange
	}
	maxVal := 0.0
	if len(c.Datasets) > 0 {
		for _, v := range c.Datasets[0].Values {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return Range{Min: 0, Max: autoScale(maxVal)}
}

// autoScale picks a rounded ceiling with some headroom above maxVal.
func autoScale(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	target := maxVal * 1.2
	for _, n := range []float64{0.5, 1, 2, 5, 10, 20, 25, 50, 75, 100, 150, 200, 300, 500, 1000} {
		if target <= n {
			return n
		}
	}
	return target
}
