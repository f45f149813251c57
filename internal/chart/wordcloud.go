package chart

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Word is a weighted term for a word cloud.
type Word struct {
	Text   string
	Weight float64
}

// Placed is a word positioned by LayoutWords. X and Y are the centre of its
// box, relative to the bottom-left corner of the layout area.
type Placed struct {
	Word
	Size vg.Length
	X, Y vg.Length
	W, H vg.Length
}

// MeasureFunc returns the extent of txt rendered at size.
type MeasureFunc func(txt string, size vg.Length) (w, h vg.Length)

// LayoutWords places words heaviest-first along an outward spiral from the
// centre of a width x height area. Font size scales with the square root of
// relative weight. A word that fits nowhere is retried smaller and dropped
// once it would go below minSize. Placed boxes never overlap.
func LayoutWords(words []Word, width, height, minSize, maxSize vg.Length, measure MeasureFunc) []Placed {
	ws := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Weight > 0 && w.Text != "" {
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	if minSize < 1 {
		minSize = 1
	}
	if maxSize < minSize {
		maxSize = minSize
	}
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].Weight > ws[j].Weight })
	top := ws[0].Weight

	const step = 0.25
	aspect := float64(height / width)
	maxTheta := math.Hypot(float64(width), float64(height)) / 2 / 1.5

	var out []Placed
	for _, w := range ws {
		size := minSize + (maxSize-minSize)*vg.Length(math.Sqrt(w.Weight/top))
		for size >= minSize {
			bw, bh := measure(w.Text, size)
			if p, ok := spiralFit(out, w, size, bw, bh, width, height, aspect, step, maxTheta); ok {
				out = append(out, p)
				break
			}
			size *= 0.8
		}
	}
	return out
}

func spiralFit(placed []Placed, w Word, size, bw, bh, width, height vg.Length, aspect, step, maxTheta float64) (Placed, bool) {
	if bw > width || bh > height {
		return Placed{}, false
	}
	for theta := 0.0; theta <= maxTheta; theta += step {
		r := 1.5 * theta
		x := width/2 + vg.Length(r*math.Cos(theta))
		y := height/2 + vg.Length(r*math.Sin(theta)*aspect)
		cand := Placed{Word: w, Size: size, X: x, Y: y, W: bw, H: bh}
		if x-bw/2 < 0 || x+bw/2 > width || y-bh/2 < 0 || y+bh/2 > height {
			continue
		}
		if !collides(cand, placed) {
			return cand, true
		}
	}
	return Placed{}, false
}

func collides(c Placed, placed []Placed) bool {
	for _, p := range placed {
		if Overlaps(c, p) {
			return true
		}
	}
	return false
}

// Overlaps reports whether two placed boxes intersect.
func Overlaps(a, b Placed) bool {
	return a.X-a.W/2 < b.X+b.W/2 && b.X-b.W/2 < a.X+a.W/2 &&
		a.Y-a.H/2 < b.Y+b.H/2 && b.Y-b.H/2 < a.Y+a.H/2
}

// WordCloud is a plot.Plotter drawing a spiral word cloud on a dark background.
type WordCloud struct {
	unitRange

	Words      []Word
	MinSize    vg.Length
	MaxSize    vg.Length
	Background color.Color
}

// Plot implements plot.Plotter.
func (wc *WordCloud) Plot(c draw.Canvas, plt *plot.Plot) {
	if wc.Background != nil {
		c.FillPolygon(wc.Background, rectPoints(c.Min.X, c.Min.Y, c.Max.X, c.Max.Y))
	}
	sty := plt.Title.TextStyle
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter
	measure := func(txt string, size vg.Length) (vg.Length, vg.Length) {
		s := sty
		s.Font.Size = size
		return s.Width(txt), s.Height(txt)
	}
	placed := LayoutWords(wc.Words, c.Max.X-c.Min.X, c.Max.Y-c.Min.Y, wc.MinSize, wc.MaxSize, measure)
	top := 0.0
	if len(placed) > 0 {
		top = placed[0].Weight
	}
	for _, p := range placed {
		s := sty
		s.Font.Size = p.Size
		s.Color = Magma(0.35 + 0.6*p.Weight/top)
		c.FillText(s, vg.Point{X: c.Min.X + p.X, Y: c.Min.Y + p.Y}, p.Text)
	}
}

// WordCloudChart builds a titled word cloud with hidden axes.
func WordCloudChart(title string, words []Word) (*plot.Plot, error) {
	if len(words) == 0 {
		return nil, ErrNoData
	}
	p := newPlot(title)
	p.HideAxes()
	p.Add(&WordCloud{
		Words:      words,
		MinSize:    vg.Points(6),
		MaxSize:    vg.Points(64),
		Background: color.Black,
	})
	return p, nil
}
