package chart

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// BubblePoint is one scatter mark; Size scales the radius and Group picks
// the colour.
type BubblePoint struct {
	X, Y  float64
	Size  float64
	Group string
}

// BubbleOptions tunes Bubble.
type BubbleOptions struct {
	// MaxPoints caps drawn marks by taking every k-th point; 0 draws all.
	MaxPoints int
	// LegendGroups is how many of the largest groups get a legend entry.
	LegendGroups int
	MinRadius    vg.Length
	MaxRadius    vg.Length
}

// Bubble draws a scatter where radius encodes Size and colour encodes Group.
func Bubble(title, xLabel, yLabel string, pts []BubblePoint, opt BubbleOptions) (*plot.Plot, error) {
	pts = Sample(pts, opt.MaxPoints)
	if len(pts) == 0 {
		return nil, ErrNoData
	}
	if opt.MinRadius <= 0 {
		opt.MinRadius = vg.Points(1)
	}
	if opt.MaxRadius <= opt.MinRadius {
		opt.MaxRadius = opt.MinRadius + vg.Points(5)
	}

	groups := rankGroups(pts)
	colors := Palette(len(groups))
	groupIndex := make(map[string]int, len(groups))
	for i, g := range groups {
		groupIndex[g] = i
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X, xys[i].Y = pt.X, pt.Y
		lo = math.Min(lo, pt.Size)
		hi = math.Max(hi, pt.Size)
	}
	radius := func(s float64) vg.Length {
		if hi <= lo {
			return (opt.MinRadius + opt.MaxRadius) / 2
		}
		return opt.MinRadius + vg.Length((s-lo)/(hi-lo))*(opt.MaxRadius-opt.MinRadius)
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter chart: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  withAlpha(colors[groupIndex[pts[i].Group]], 170),
			Radius: radius(pts[i].Size),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := newPlot(title)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid(), sc)
	for i, g := range groups {
		if i >= opt.LegendGroups {
			break
		}
		p.Legend.Add(g, swatch{color: colors[i], dot: true})
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// Sample keeps every k-th point so that at most limit remain, preserving order.
func Sample(pts []BubblePoint, limit int) []BubblePoint {
	if limit <= 0 || len(pts) <= limit {
		return pts
	}
	stride := (len(pts) + limit - 1) / limit
	out := make([]BubblePoint, 0, limit)
	for i := 0; i < len(pts); i += stride {
		out = append(out, pts[i])
	}
	return out
}

// rankGroups orders groups by size, largest first, then by name.
func rankGroups(pts []BubblePoint) []string {
	counts := map[string]int{}
	for _, p := range pts {
		counts[p.Group]++
	}
	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if counts[groups[i]] != counts[groups[j]] {
			return counts[groups[i]] > counts[groups[j]]
		}
		return groups[i] < groups[j]
	})
	return groups
}
