package chart

import (
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
)

// Rect is an axis-aligned rectangle with its origin at the bottom-left.
type Rect struct {
	X, Y, W, H float64
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Squarify tiles r with one rectangle per weight, in input order, each with
// area proportional to its weight. Weights should be sorted descending for
// the best aspect ratios. Non-positive weights get empty rectangles.
func Squarify(weights []float64, r Rect) []Rect {
	out := make([]Rect, len(weights))
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 || r.W <= 0 || r.H <= 0 {
		return out
	}
	scale := r.Area() / total
	var idx []int
	var areas []float64
	for i, w := range weights {
		if w > 0 {
			idx = append(idx, i)
			areas = append(areas, w*scale)
		}
	}

	for i := 0; i < len(areas); {
		short := r.W
		if r.H < short {
			short = r.H
		}
		j := i + 1
		for j < len(areas) && worst(areas[i:j+1], short) <= worst(areas[i:j], short) {
			j++
		}
		row := areas[i:j]
		sum := 0.0
		for _, a := range row {
			sum += a
		}
		if r.W >= r.H {
			cw := sum / r.H
			y := r.Y
			for k, a := range row {
				h := a / cw
				out[idx[i+k]] = Rect{X: r.X, Y: y, W: cw, H: h}
				y += h
			}
			r.X += cw
			r.W -= cw
		} else {
			rh := sum / r.W
			x := r.X
			for k, a := range row {
				w := a / rh
				out[idx[i+k]] = Rect{X: x, Y: r.Y, W: w, H: rh}
				x += w
			}
			r.Y += rh
			r.H -= rh
		}
		i = j
	}
	return out
}

// worst is the largest aspect ratio in a row laid along a side of length side.
func worst(row []float64, side float64) float64 {
	sum, hi, lo := 0.0, row[0], row[0]
	for _, a := range row {
		sum += a
		if a > hi {
			hi = a
		}
		if a < lo {
			lo = a
		}
	}
	s2, w2 := sum*sum, side*side
	a, b := w2*hi/s2, s2/(w2*lo)
	if a > b {
		return a
	}
	return b
}

// Treemap is a plot.Plotter drawing a nested squarified treemap. Inner nodes
// get a labelled header strip; leaves are coloured by weight.
type Treemap struct {
	unitRange

	Root    *aggregate.Node
	Padding vg.Length
	Header  vg.Length
	// RootColor fills the outermost rectangle.
	RootColor color.Color
}

// Plot implements plot.Plotter.
func (tm *Treemap) Plot(c draw.Canvas, plt *plot.Plot) {
	if tm.Root == nil || tm.Root.Weight <= 0 {
		return
	}
	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(9)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	hi := 0.0
	for _, l := range tm.Root.Leaves() {
		if l.Weight > hi {
			hi = l.Weight
		}
	}
	r := Rect{X: float64(c.Min.X), Y: float64(c.Min.Y), W: float64(c.Max.X - c.Min.X), H: float64(c.Max.Y - c.Min.Y)}
	tm.draw(&c, sty, tm.Root, r, hi)
}

func (tm *Treemap) draw(c *draw.Canvas, sty text.Style, n *aggregate.Node, r Rect, hi float64) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x0, y0 := vg.Length(r.X), vg.Length(r.Y)
	x1, y1 := vg.Length(r.X+r.W), vg.Length(r.Y+r.H)
	var fill color.Color
	switch {
	case len(n.Children) == 0:
		fill = Magma(0.2 + 0.75*n.Weight/hi)
	case n == tm.Root && tm.RootColor != nil:
		fill = tm.RootColor
	default:
		fill = color.Gray{Y: 0xd0}
	}
	box := rectPoints(x0, y0, x1, y1)
	c.FillPolygon(fill, box)
	c.StrokeLines(draw.LineStyle{Color: color.White, Width: vg.Points(0.75)}, append(box, box[0]))

	sty.Color = contrast(fill)
	if len(n.Children) == 0 {
		name := n.Name
		count := strconv.FormatFloat(n.Weight, 'f', -1, 64)
		if sty.Width(name) < x1-x0 && 2*sty.Height(name) < y1-y0 {
			mid := vg.Point{X: (x0 + x1) / 2, Y: (y0 + y1) / 2}
			c.FillText(sty, vg.Point{X: mid.X, Y: mid.Y + sty.Height(name)/2}, name)
			c.FillText(sty, vg.Point{X: mid.X, Y: mid.Y - sty.Height(name)/2}, count)
		}
		return
	}

	header := float64(tm.Header)
	label := n.Name + " (" + strconv.FormatFloat(n.Weight, 'f', -1, 64) + ")"
	if header > 0 && header < r.H/2 && sty.Width(label) < x1-x0 {
		c.FillText(sty, vg.Point{X: (x0 + x1) / 2, Y: y1 - vg.Length(header/2)}, label)
	} else {
		header = 0
	}
	pad := float64(tm.Padding)
	inner := Rect{X: r.X + pad, Y: r.Y + pad, W: r.W - 2*pad, H: r.H - 2*pad - header}
	weights := make([]float64, len(n.Children))
	for i, ch := range n.Children {
		weights[i] = ch.Weight
	}
	for i, cr := range Squarify(weights, inner) {
		tm.draw(c, sty, n.Children[i], cr, hi)
	}
}

// TreemapChart builds a titled treemap of root with hidden axes.
func TreemapChart(title string, root *aggregate.Node) (*plot.Plot, error) {
	if root == nil || root.Weight <= 0 {
		return nil, ErrNoData
	}
	p := newPlot(title)
	p.HideAxes()
	p.Add(&Treemap{
		Root:      root,
		Padding:   vg.Points(2),
		Header:    vg.Points(14),
		RootColor: color.Gray{Y: 0x80},
	})
	return p, nil
}
