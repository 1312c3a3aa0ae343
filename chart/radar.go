package chart

import (
	"bytes"
	"html/template"
	"math"

	"hoopcompare/stats"
	"hoopcompare/utils"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	Width       = 370
	Height      = 370
	OuterRadius = 120
	labelOffset = 20
	fillAlpha   = 153 // 0.6
)

var gridRings = []float64{0.25, 0.5, 0.75, 1}

// Palette is the stroke/fill colour of the left and right player.
type Palette [2]string

var (
	SeasonPalette = Palette{"#007bff", "#ff4d4f"}
	CareerPalette = Palette{"#00cc00", "#a200ff"}
)

// Radar draws axes as an SVG radar chart: one spoke per axis, starting at
// twelve o'clock and going clockwise, and one filled polygon per player.
// Values are on a 0-100 scale and clamped to it.
func Radar(axes []stats.Axis, palette Palette) (template.HTML, error) {
	r, err := gochart.SVG(Width, Height)
	if err != nil {
		return "", utils.ErrorWithTrace(err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return "", utils.ErrorWithTrace(err)
	}
	r.SetFont(font)

	cx, cy := Width/2, Height/2
	n := len(axes)

	if n > 0 {
		drawGrid(r, cx, cy, n)
		for i, ax := range axes {
			drawLabel(r, cx, cy, n, i, ax.Label)
		}
		left := make([]float64, n)
		right := make([]float64, n)
		for i, ax := range axes {
			left[i], right[i] = ax.Left, ax.Right
		}
		drawSeries(r, cx, cy, left, palette[0])
		drawSeries(r, cx, cy, right, palette[1])
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return "", utils.ErrorWithTrace(err)
	}
	return template.HTML(buf.String()), nil
}

func point(cx, cy, n, i int, radius float64) (int, int) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	x := float64(cx) + radius*math.Cos(angle)
	y := float64(cy) + radius*math.Sin(angle)
	return int(math.Round(x)), int(math.Round(y))
}

func drawGrid(r gochart.Renderer, cx, cy, n int) {
	grid := drawing.ColorFromHex("cccccc")

	for _, ring := range gridRings {
		r.ResetStyle()
		r.SetStrokeColor(grid)
		r.SetStrokeWidth(1)
		for i := 0; i <= n; i++ {
			x, y := point(cx, cy, n, i%n, OuterRadius*ring)
			if i == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		r.Close()
		r.Stroke()
	}

	for i := 0; i < n; i++ {
		r.ResetStyle()
		r.SetStrokeColor(grid)
		r.SetStrokeWidth(1)
		x, y := point(cx, cy, n, i, OuterRadius)
		r.MoveTo(cx, cy)
		r.LineTo(x, y)
		r.Stroke()
	}
}

func drawLabel(r gochart.Renderer, cx, cy, n, i int, label string) {
	r.ResetStyle()
	r.SetFontColor(drawing.ColorFromHex("333333"))
	r.SetFontSize(10)
	box := r.MeasureText(label)
	x, y := point(cx, cy, n, i, OuterRadius+labelOffset)
	r.Text(label, x-box.Width()/2, y+box.Height()/2)
}

func drawSeries(r gochart.Renderer, cx, cy int, values []float64, hex string) {
	color := drawing.ColorFromHex(hex[1:])
	r.ResetStyle()
	r.SetStrokeColor(color)
	r.SetStrokeWidth(2)
	r.SetFillColor(color.WithAlpha(fillAlpha))

	n := len(values)
	for i, v := range values {
		x, y := point(cx, cy, n, i, OuterRadius*clamp(v)/100)
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.Close()
	r.FillStroke()
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
