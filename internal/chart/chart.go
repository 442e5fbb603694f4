// Package chart renders sentiment bar charts as SVG.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/spacesedan/sentilex/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

var barWidth = vg.Points(40)

var (
	green = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	red   = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
	gray  = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	blue  = color.RGBA{R: 0x15, G: 0x65, B: 0xc0, A: 0xff}
)

// ColorFor returns the bar color of a label.
func ColorFor(label models.Label) color.Color {
	switch label {
	case models.LabelPositive:
		return green
	case models.LabelNegative:
		return red
	case models.LabelNeutral:
		return gray
	default:
		return blue
	}
}

type bar struct {
	label models.Label
	value float64
}

// Result draws a single bar for one analysed text.
func Result(label models.Label, score int) ([]byte, error) {
	return render("Sentiment Result", "", "Score", []bar{{label: label, value: float64(score)}})
}

// Distribution draws one bar per label in the order given.
func Distribution(counts []models.LabelCount) ([]byte, error) {
	bars := make([]bar, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, bar{label: c.Label, value: float64(c.Count)})
	}
	return render("Sentiment Distribution", "Sentiment", "Count", bars)
}

func render(title, xLabel, yLabel string, bars []bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("chart: nothing to draw")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	names := make([]string, 0, len(bars))
	maxValue := 0.0
	for i, b := range bars {
		chart, err := plotter.NewBarChart(plotter.Values{b.value}, barWidth)
		if err != nil {
			return nil, fmt.Errorf("chart: bar %s: %w", b.label, err)
		}
		chart.XMin = float64(i)
		chart.Color = ColorFor(b.label)
		chart.LineStyle.Width = 0
		p.Add(chart)

		names = append(names, b.label.String())
		if b.value > maxValue {
			maxValue = b.value
		}
	}
	p.NominalX(names...)
	// Keep an all-zero chart from collapsing the axis.
	p.Y.Max = maxValue + 1

	w, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart: write svg: %w", err)
	}
	return buf.Bytes(), nil
}
