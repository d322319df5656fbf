package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding of Render.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Options sizes the rendered image.
type Options struct {
	Width  int
	Height int
	Rings  int
}

func DefaultOptions() Options {
	return Options{Width: 640, Height: 560, Rings: 4}
}

var traceColors = []drawing.Color{
	drawing.ColorFromHex("636efa"),
	drawing.ColorFromHex("ef553b"),
	drawing.ColorFromHex("00cc96"),
}

var gridColor = drawing.ColorFromHex("d0d0d0")

// Render draws radar as a polar chart with one filled polygon per trace and a
// legend in the top-left corner.
func Render(w io.Writer, radar Radar, format Format, opts Options) error {
	if len(radar.Axes) < 3 {
		return errors.New("radar chart needs at least three axes")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	var provider gochart.RendererProvider
	switch format {
	case SVG:
		provider = gochart.SVG
	case PNG:
		provider = gochart.PNG
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}
	r, err := provider(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetFont(font)

	cx, cy := opts.Width/2, opts.Height/2+20
	radius := float64(min(opts.Width, opts.Height))/2 - 70

	drawGrid(r, radar, cx, cy, radius, opts.Rings)
	for i, trace := range radar.Traces {
		drawTrace(r, trace, radar.Range, cx, cy, radius, traceColors[i%len(traceColors)])
	}
	drawLegend(r, radar.Traces)

	return r.Save(w)
}

// point converts an axis index and a radial value in [lo, hi] to canvas
// coordinates. Axis 0 points straight up and the axes run clockwise.
func point(axis, axes int, value, lo, hi float64, cx, cy int, radius float64) (int, int) {
	frac := (clamp(value, lo, hi) - lo) / (hi - lo)
	angle := 2*math.Pi*float64(axis)/float64(axes) - math.Pi/2
	x := float64(cx) + frac*radius*math.Cos(angle)
	y := float64(cy) + frac*radius*math.Sin(angle)
	return int(math.Round(x)), int(math.Round(y))
}

func drawGrid(r gochart.Renderer, radar Radar, cx, cy int, radius float64, rings int) {
	n := len(radar.Axes)
	lo, hi := radar.Range[0], radar.Range[1]

	r.SetStrokeColor(gridColor)
	r.SetStrokeWidth(1)
	for ring := 1; ring <= rings; ring++ {
		v := lo + (hi-lo)*float64(ring)/float64(rings)
		x, y := point(0, n, v, lo, hi, cx, cy, radius)
		r.MoveTo(x, y)
		for axis := 1; axis <= n; axis++ {
			x, y = point(axis%n, n, v, lo, hi, cx, cy, radius)
			r.LineTo(x, y)
		}
		r.Stroke()
	}

	r.SetFontSize(10)
	r.SetFontColor(drawing.ColorBlack)
	for axis, name := range radar.Axes {
		r.SetStrokeColor(gridColor)
		r.MoveTo(cx, cy)
		x, y := point(axis, n, hi, lo, hi, cx, cy, radius)
		r.LineTo(x, y)
		r.Stroke()

		lx, ly := point(axis, n, hi, lo, hi, cx, cy, radius+18)
		box := r.MeasureText(name)
		r.Text(name, lx-box.Width()/2, ly+box.Height()/2)
	}
}

func drawTrace(r gochart.Renderer, trace Trace, rng [2]float64, cx, cy int, radius float64, color drawing.Color) {
	// the closing point duplicates the first one
	n := len(trace.R) - 1
	if n < 3 {
		return
	}
	r.SetStrokeColor(color)
	r.SetFillColor(color.WithAlpha(80))
	r.SetStrokeWidth(2)

	x, y := point(0, n, trace.R[0], rng[0], rng[1], cx, cy, radius)
	r.MoveTo(x, y)
	for i := 1; i < n; i++ {
		x, y = point(i, n, trace.R[i], rng[0], rng[1], cx, cy, radius)
		r.LineTo(x, y)
	}
	r.Close()
	r.FillStroke()
}

func drawLegend(r gochart.Renderer, traces []Trace) {
	r.SetFontSize(11)
	r.SetFontColor(drawing.ColorBlack)
	for i, trace := range traces {
		color := traceColors[i%len(traceColors)]
		top := 12 + i*18
		r.SetFillColor(color)
		r.SetStrokeColor(color)
		r.MoveTo(12, top)
		r.LineTo(24, top)
		r.LineTo(24, top+12)
		r.LineTo(12, top+12)
		r.Close()
		r.FillStroke()
		r.Text(trace.Name, 30, top+11)
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
