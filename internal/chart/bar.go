package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// BarSeries is one group member of a grouped bar chart.
type BarSeries struct {
	Name   string
	Values []float64
}

// Bar draws one bar per label.
func Bar(title, xLabel, yLabel string, labels []string, values []float64) (*plot.Plot, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("bar chart: %d labels for %d values", len(labels), len(values))
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	p := newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(horizontalGrid())

	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth(len(values), 1))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = Magma(0.35)
	p.Add(bars)
	p.NominalX(labels...)
	rotateTicks(p, len(labels))
	return p, nil
}

// GroupedBar draws len(series) bars side by side for every category.
func GroupedBar(title, xLabel, yLabel string, categories []string, series []BarSeries) (*plot.Plot, error) {
	if len(categories) == 0 || len(series) == 0 {
		return nil, ErrNoData
	}
	p := newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(horizontalGrid())

	colors := Palette(len(series))
	w := barWidth(len(categories), len(series))
	center := float64(len(series)-1) / 2
	for i, s := range series {
		if len(s.Values) != len(categories) {
			return nil, fmt.Errorf("bar chart: series %q has %d values for %d categories", s.Name, len(s.Values), len(categories))
		}
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), w)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bars.LineStyle.Width = 0
		bars.Color = colors[i]
		bars.Offset = vg.Length(float64(i)-center) * w
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.Legend.Top = true
	p.NominalX(categories...)
	rotateTicks(p, len(categories))
	return p, nil
}

// barWidth shrinks bars as the category count grows.
func barWidth(categories, perCategory int) vg.Length {
	w := vg.Points(480) / vg.Length(categories*perCategory+categories)
	if w > vg.Points(40) {
		w = vg.Points(40)
	}
	if w < vg.Points(2) {
		w = vg.Points(2)
	}
	return w
}

func horizontalGrid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = nil
	return g
}
