package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// LineSeries is one named polyline.
type LineSeries struct {
	Name string
	X, Y []float64
}

// Lines draws each series as a line with point markers.
func Lines(title, xLabel, yLabel string, series []LineSeries) (*plot.Plot, error) {
	p := newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	colors := Palette(len(series))
	drawn := 0
	for i, s := range series {
		if len(s.X) != len(s.Y) {
			return nil, fmt.Errorf("line chart: series %q has %d x and %d y values", s.Name, len(s.X), len(s.Y))
		}
		if len(s.X) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.X))
		for j := range s.X {
			xys[j].X = s.X[j]
			xys[j].Y = s.Y[j]
		}
		line, pts, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("line chart: %w", err)
		}
		line.LineStyle.Color = colors[i]
		line.LineStyle.Width = vg.Points(1.5)
		pts.GlyphStyle.Color = colors[i]
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		pts.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(line, pts)
		if s.Name != "" {
			p.Legend.Add(s.Name, line, pts)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNoData
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}
