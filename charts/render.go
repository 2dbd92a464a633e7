package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	pieSize         = 480
	barChartWidth   = 8 * vg.Inch
	barChartHeight  = 450
	pixelToPoint    = 0.75
	maxBarThickness = vg.Length(24)
	noDataColor     = "#CCCCCC"
	noDataLabel     = "Aucune donnée"
)

var ErrUnknownKind = errors.New("unknown chart kind")

// RenderSVG draws c to w. Pies go through go-chart, bar charts through
// gonum/plot.
func RenderSVG(c Chart, w io.Writer) error {
	switch c.Kind {
	case KindPie:
		return renderPie(c, w)
	case KindBar:
		return renderBars(c, w)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
}

func renderPie(c Chart, w io.Writer) error {
	var values []chart.Value
	for _, s := range c.Series {
		for i, label := range s.Labels {
			if i >= len(s.Values) || s.Values[i] <= 0 {
				continue
			}
			fill := s.Color
			if i < len(s.Colors) {
				fill = s.Colors[i]
			}
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s %.2f%%", label, s.Values[i]),
				Value: s.Values[i],
				Style: chart.Style{
					FillColor:   drawing.ColorFromHex(strings.TrimPrefix(fill, "#")),
					StrokeColor: drawing.ColorWhite,
					StrokeWidth: 1,
				},
			})
		}
	}
	if len(values) == 0 {
		values = []chart.Value{{
			Label: noDataLabel,
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex(strings.TrimPrefix(noDataColor, "#"))},
		}}
	}

	pie := chart.PieChart{
		Title:  c.Title,
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}
	return pie.Render(chart.SVG, w)
}

func renderBars(c Chart, w io.Writer) error {
	p := plot.New()
	p.Title.Text = c.Title
	if c.Empty() {
		p.Title.Text += " (" + noDataLabel + ")"
	}
	p.X.Label.Text = c.XAxis.Title
	p.Y.Label.Text = c.YAxis.Title
	p.Legend.Top = true

	horizontal := c.Orientation == Horizontal
	categoryAxis := c.XAxis
	if horizontal {
		categoryAxis = c.YAxis
	}
	reverse := horizontal && categoryAxis.Reversed

	height := vg.Length(barChartHeight * pixelToPoint)
	if c.Height > 0 {
		height = vg.Length(float64(c.Height) * pixelToPoint)
	}

	labels := categoryLabels(c)
	span := barChartWidth
	if horizontal {
		span = height
	}
	thickness := barThickness(span, len(labels), len(c.Series))

	n := len(c.Series)
	for i, s := range c.Series {
		if len(s.Values) == 0 {
			continue
		}
		values := make(plotter.Values, len(s.Values))
		copy(values, s.Values)
		if reverse {
			reverseFloats(values)
		}

		bars, err := plotter.NewBarChart(values, thickness)
		if err != nil {
			return fmt.Errorf("building %q series %q: %w", c.Title, s.Name, err)
		}
		bars.Horizontal = horizontal
		bars.Color = parseHex(s.Color)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * thickness

		p.Add(bars)
		if c.ShowLegend {
			p.Legend.Add(s.Name, bars)
		}
	}

	ticks := thinLabels(labels, categoryAxis.Dtick)
	if reverse {
		ticks = reverseStrings(ticks)
	}
	if horizontal {
		p.NominalY(ticks...)
	} else {
		p.NominalX(ticks...)
	}

	wt, err := p.WriterTo(barChartWidth, height, "svg")
	if err != nil {
		return fmt.Errorf("rendering %q: %w", c.Title, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func categoryLabels(c Chart) []string {
	for _, s := range c.Series {
		if len(s.Labels) > 0 {
			return s.Labels
		}
	}
	return nil
}

func barThickness(span vg.Length, categories, series int) vg.Length {
	if categories == 0 || series == 0 {
		return maxBarThickness
	}
	t := span * 0.8 / vg.Length(categories*(series+1))
	if t < 1 {
		t = 1
	}
	if t > maxBarThickness {
		t = maxBarThickness
	}
	return t
}

// thinLabels blanks every label whose index is not a multiple of dtick.
func thinLabels(labels []string, dtick float64) []string {
	out := make([]string, len(labels))
	step := int(dtick)
	for i, l := range labels {
		if step <= 1 || i%step == 0 {
			out[i] = l
		}
	}
	return out
}

func reverseFloats(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

func reverseStrings(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// parseHex reads "#RRGGBB", falling back to grey.
func parseHex(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}
