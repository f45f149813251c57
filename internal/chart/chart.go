// Package chart renders aggregate tables as static images with gonum/plot.
// Pie, word cloud and treemap are custom plot.Plotter implementations; bar,
// line and scatter charts use the stock plotters.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("chart: no data")

// Options controls where and how charts are written.
type Options struct {
	Dir string
	// Format is the image format: png, svg, pdf, jpg.
	Format string
	// Width and Height are in inches.
	Width  float64
	Height float64
}

// DefaultOptions writes 12x6 inch PNG files.
func DefaultOptions() Options {
	return Options{Dir: ".", Format: "png", Width: 12, Height: 6}
}

// Save writes p to Dir/name.Format and returns the path.
func Save(p *plot.Plot, opt Options, name string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(opt.Format), ".")
	if format == "" {
		format = "png"
	}
	w, h := opt.Width, opt.Height
	if w <= 0 {
		w = 12
	}
	if h <= 0 {
		h = 6
	}
	dir := opt.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, name+"."+format)
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

// FileName turns a title fragment into a safe file stem.
func FileName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '/':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	return p
}

// rotateTicks tilts nominal x labels when there are many of them.
func rotateTicks(p *plot.Plot, n int) {
	if n <= 6 {
		return
	}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// swatch is a legend thumbnail: a filled box or a dot.
type swatch struct {
	color color.Color
	dot   bool
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	if s.dot {
		center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
		c.DrawGlyph(draw.GlyphStyle{Color: s.color, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}, center)
		return
	}
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, pts)
}

// unitRange is embedded by plotters that draw in canvas space.
type unitRange struct{}

func (unitRange) DataRange() (xmin, xmax, ymin, ymax float64) { return 0, 1, 0, 1 }

func rectPoints(x0, y0, x1, y1 vg.Length) []vg.Point {
	return []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
}
