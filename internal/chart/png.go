package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("chart has no data")

// Image is a chart rendered to PNG.
type Image struct {
	canvas   *Canvas
	cfg      Config
	disposed bool
}

// NewImage attaches a PNG chart to canvas.
func NewImage(canvas *Canvas, cfg Config) (*Image, error) {
	if err := canvas.Attach(); err != nil {
		return nil, err
	}
	return &Image{canvas: canvas, cfg: cfg}, nil
}

// ImageBuilder returns a Builder producing a PNG chart for cfg.
func ImageBuilder(cfg Config) Builder {
	return func(canvas *Canvas) (Chart, error) {
		return NewImage(canvas, cfg)
	}
}

// Config returns the chart's configuration.
func (img *Image) Config() Config { return img.cfg }

// Dispose releases the canvas.
func (img *Image) Dispose() {
	if img.disposed {
		return
	}
	img.disposed = true
	img.canvas.Release()
}

// WritePNG renders the chart to w.
func (img *Image) WritePNG(w io.Writer, width, height int) error {
	if img.disposed {
		return fmt.Errorf("%s: chart disposed", img.canvas.Key())
	}
	return WritePNG(img.cfg, w, width, height)
}

// WritePNG renders cfg as a PNG image.
func WritePNG(cfg Config, w io.Writer, width, height int) error {
	if cfg.Points() == 0 {
		return ErrNoData
	}
	var r interface {
		Render(gochart.RendererProvider, io.Writer) error
	}
	switch cfg.Kind {
	case KindBar:
		r = barChart(cfg, width, height)
	case KindDoughnut:
		pie, err := pieChart(cfg, width, height)
		if err != nil {
			return err
		}
		r = pie
	default:
		r = lineChart(cfg, width, height)
	}
	if err := r.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", cfg.Kind, err)
	}
	return nil
}

func lineChart(cfg Config, width, height int) *gochart.Chart {
	n := cfg.Points()
	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	for i := range xs {
		xs[i] = float64(i + 1)
		ticks[i] = gochart.Tick{Value: xs[i], Label: cfg.Label(i)}
	}

	series := make([]gochart.Series, 0, len(cfg.Datasets))
	for _, ds := range cfg.Datasets {
		col := toDrawing(ds.Color)
		series = append(series, gochart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Values,
			Style: gochart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    4,
			},
		})
	}

	rng := cfg.valueRange()
	ch := &gochart.Chart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0.5, Max: float64(n) + 0.5},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: rng.Min, Max: rng.Max},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(ch)}
	return ch
}

func barChart(cfg Config, width, height int) *gochart.BarChart {
	ds := cfg.Datasets[0]
	bars := make([]gochart.Value, len(ds.Values))
	for i, v := range ds.Values {
		col := toDrawing(ds.PointColor(i))
		bars[i] = gochart.Value{
			Label: cfg.Label(i),
			Value: v,
			Style: gochart.Style{FillColor: col, StrokeColor: col},
		}
	}
	rng := cfg.valueRange()
	return &gochart.BarChart{
		Title:      cfg.Title,
		Width:      width,
		Height:     height,
		BarWidth:   40,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: rng.Min, Max: rng.Max},
		},
		Bars: bars,
	}
}

func pieChart(cfg Config, width, height int) (*gochart.PieChart, error) {
	ds := cfg.Datasets[0]
	values := make([]gochart.Value, 0, len(ds.Values))
	total := 0.0
	for i, v := range ds.Values {
		if v <= 0 {
			continue
		}
		total += v
		col := toDrawing(ds.PointColor(i))
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%g)", cfg.Label(i), v),
			Value: v,
			Style: gochart.Style{FillColor: col, StrokeColor: drawing.ColorWhite},
		})
	}
	if total == 0 {
		return nil, ErrNoData
	}
	return &gochart.PieChart{
		Title:  cfg.Title,
		Width:  width,
		Height: height,
		Values: values,
	}, nil
}

func toDrawing(c Color) drawing.Color {
	if c == "" {
		return gochart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(string(c), "#"))
}
