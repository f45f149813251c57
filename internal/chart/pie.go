package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Pie is a plot.Plotter drawing a pie or, with Hole > 0, a donut.
// Slices start at twelve o'clock and run clockwise.
type Pie struct {
	unitRange

	Values []float64
	Colors []color.Color
	// Hole is the inner radius as a fraction of the outer radius.
	Hole float64
	// Explode pulls slice i out by Explode[i] times the radius.
	Explode []float64
	// ShowPercent labels slices of at least MinLabel share.
	ShowPercent bool
	MinLabel    float64
	// Left places the pie in the left part of the canvas, leaving room
	// for a legend.
	Left bool
}

// Slice is one pie slice in canvas-independent form.
type Slice struct {
	Start, End float64 // radians, clockwise from twelve o'clock
	Fraction   float64
}

// Slices converts values into angular slices. Non-positive values get empty slices.
func Slices(values []float64) []Slice {
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	out := make([]Slice, len(values))
	if total == 0 {
		return out
	}
	at := 0.0
	for i, v := range values {
		frac := 0.0
		if v > 0 {
			frac = v / total
		}
		out[i] = Slice{Start: at, End: at + frac*2*math.Pi, Fraction: frac}
		at = out[i].End
	}
	return out
}

// Plot implements plot.Plotter.
func (pc *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	w, h := c.Max.X-c.Min.X, c.Max.Y-c.Min.Y
	cx, cy := c.Min.X+w/2, c.Min.Y+h/2
	avail := w
	if pc.Left {
		avail = w * 0.65
		cx = c.Min.X + avail/2
	}
	r := avail
	if h < r {
		r = h
	}
	r = r / 2 * 0.85

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(10)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(1)}

	for i, s := range Slices(pc.Values) {
		if s.Fraction == 0 {
			continue
		}
		mid := (s.Start + s.End) / 2
		off := 0.0
		if i < len(pc.Explode) {
			off = pc.Explode[i]
		}
		ox := cx + vg.Length(off*math.Sin(mid))*r
		oy := cy + vg.Length(off*math.Cos(mid))*r
		poly := slicePolygon(ox, oy, r, vg.Length(pc.Hole)*r, s)
		fill := pc.color(i)
		c.FillPolygon(fill, poly)
		c.StrokeLines(edge, append(poly, poly[0]))

		if pc.ShowPercent && s.Fraction >= pc.MinLabel {
			lr := r * vg.Length(0.5+pc.Hole/2)
			if pc.Hole == 0 {
				lr = r * 0.65
			}
			pt := vg.Point{X: ox + lr*vg.Length(math.Sin(mid)), Y: oy + lr*vg.Length(math.Cos(mid))}
			sty.Color = contrast(fill)
			c.FillText(sty, pt, fmt.Sprintf("%.1f%%", s.Fraction*100))
		}
	}
}

func (pc *Pie) color(i int) color.Color {
	if i < len(pc.Colors) && pc.Colors[i] != nil {
		return pc.Colors[i]
	}
	return Magma(0.5)
}

func slicePolygon(cx, cy, r, inner vg.Length, s Slice) []vg.Point {
	n := int(math.Ceil((s.End-s.Start)/(2*math.Pi)*120)) + 2
	at := func(rad vg.Length, a float64) vg.Point {
		return vg.Point{X: cx + rad*vg.Length(math.Sin(a)), Y: cy + rad*vg.Length(math.Cos(a))}
	}
	pts := make([]vg.Point, 0, 2*n+1)
	for k := 0; k <= n; k++ {
		pts = append(pts, at(r, s.Start+(s.End-s.Start)*float64(k)/float64(n)))
	}
	if inner <= 0 {
		return append(pts, vg.Point{X: cx, Y: cy})
	}
	for k := n; k >= 0; k-- {
		pts = append(pts, at(inner, s.Start+(s.End-s.Start)*float64(k)/float64(n)))
	}
	return pts
}

// PieOptions tunes PieChart.
type PieOptions struct {
	Hole    float64
	Explode []float64
}

// PieChart builds a titled pie with a legend naming each slice.
func PieChart(title string, labels []string, values []float64, opt PieOptions) (*plot.Plot, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("pie chart: %d labels for %d values", len(labels), len(values))
	}
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return nil, ErrNoData
	}
	p := newPlot(title)
	p.HideAxes()
	colors := Palette(len(values))
	p.Add(&Pie{
		Values:      values,
		Colors:      colors,
		Hole:        opt.Hole,
		Explode:     opt.Explode,
		ShowPercent: true,
		MinLabel:    0.03,
		Left:        true,
	})
	for i, l := range labels {
		p.Legend.Add(l, swatch{color: colors[i]})
	}
	p.Legend.Top = true
	return p, nil
}
