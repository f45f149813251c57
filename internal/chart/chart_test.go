package chart

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/olympeda/internal/aggregate"
)

func TestMagma(t *testing.T) {
	assert.Equal(t, magmaStops[0], Magma(0))
	assert.Equal(t, magmaStops[len(magmaStops)-1], Magma(1))
	assert.Equal(t, Magma(0), Magma(-3))
	assert.Equal(t, Magma(1), Magma(7))
	assert.Equal(t, Magma(0), Magma(math.NaN()))
	assert.Len(t, Palette(5), 5)
	assert.Equal(t, color.Color(color.White), contrast(Magma(0)))
	assert.Equal(t, color.Color(color.Black), contrast(Magma(1)))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "india_medals", FileName("India medals"))
	assert.Equal(t, "united_states_2", FileName(" United-States #2 "))
	assert.Equal(t, "cote_divoire", FileName("Cote d'Ivoire"))
}

func TestSquarifyTilesProportionally(t *testing.T) {
	weights := []float64{6, 6, 4, 3, 2, 2, 1}
	area := Rect{X: 0, Y: 0, W: 6, H: 4}
	rects := Squarify(weights, area)
	require.Len(t, rects, len(weights))

	const eps = 1e-9
	sum := 0.0
	for i, r := range rects {
		assert.InDelta(t, weights[i], r.Area(), eps, "rect %d", i)
		assert.GreaterOrEqual(t, r.X, area.X-eps)
		assert.GreaterOrEqual(t, r.Y, area.Y-eps)
		assert.LessOrEqual(t, r.X+r.W, area.X+area.W+eps)
		assert.LessOrEqual(t, r.Y+r.H, area.Y+area.H+eps)
		sum += r.Area()
	}
	assert.InDelta(t, area.Area(), sum, eps)

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			ox := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
			oy := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
			assert.False(t, ox > eps && oy > eps, "rects %d and %d overlap", i, j)
		}
	}
}

func TestSquarifySkipsEmptyWeights(t *testing.T) {
	rects := Squarify([]float64{0, 3, -1, 1}, Rect{W: 2, H: 2})
	assert.Equal(t, Rect{}, rects[0])
	assert.Equal(t, Rect{}, rects[2])
	assert.InDelta(t, 3.0, rects[1].Area(), 1e-9)
	assert.InDelta(t, 1.0, rects[3].Area(), 1e-9)

	assert.Equal(t, make([]Rect, 2), Squarify([]float64{0, 0}, Rect{W: 1, H: 1}))
}

func TestSlices(t *testing.T) {
	s := Slices([]float64{1, 0, 3})
	assert.InDelta(t, 0.25, s[0].Fraction, 1e-12)
	assert.Zero(t, s[1].Fraction)
	assert.InDelta(t, 0.75, s[2].Fraction, 1e-12)
	assert.InDelta(t, 2*math.Pi, s[2].End, 1e-12)
	assert.Equal(t, s[0].End, s[2].Start)
	assert.Equal(t, make([]Slice, 2), Slices([]float64{0, 0}))
}

func fixedMeasure(txt string, size vg.Length) (vg.Length, vg.Length) {
	return vg.Length(len(txt)) * size * 0.6, size
}

func TestLayoutWordsDoesNotOverlap(t *testing.T) {
	var words []Word
	for i, s := range []string{
		"United", "States", "Germany", "France", "Great", "Britain", "Italy",
		"Canada", "Japan", "Sweden", "Australia", "Hungary", "Poland", "Switzerland",
		"Netherlands", "Finland", "Norway", "Romania", "China", "Spain", "Korea",
	} {
		words = append(words, Word{Text: s, Weight: float64(100 - 4*i)})
	}
	width, height := vg.Points(600), vg.Points(300)
	placed := LayoutWords(words, width, height, vg.Points(6), vg.Points(48), fixedMeasure)
	require.NotEmpty(t, placed)
	assert.Equal(t, "United", placed[0].Text)
	assert.Equal(t, width/2, placed[0].X)
	assert.Equal(t, height/2, placed[0].Y)

	for i, p := range placed {
		assert.GreaterOrEqual(t, p.X-p.W/2, vg.Length(0))
		assert.LessOrEqual(t, p.X+p.W/2, width)
		assert.GreaterOrEqual(t, p.Y-p.H/2, vg.Length(0))
		assert.LessOrEqual(t, p.Y+p.H/2, height)
		if i > 0 {
			assert.LessOrEqual(t, p.Weight, placed[i-1].Weight)
		}
		for j := i + 1; j < len(placed); j++ {
			assert.False(t, Overlaps(p, placed[j]), "%s overlaps %s", p.Text, placed[j].Text)
		}
	}
}

func TestLayoutWordsDropsWhatCannotFit(t *testing.T) {
	words := []Word{{Text: "Supercalifragilistic", Weight: 1}, {Text: "", Weight: 5}, {Text: "zero", Weight: 0}}
	assert.Empty(t, LayoutWords(words, vg.Points(20), vg.Points(20), vg.Points(10), vg.Points(20), fixedMeasure))
}

func TestSample(t *testing.T) {
	pts := make([]BubblePoint, 10)
	for i := range pts {
		pts[i].X = float64(i)
	}
	got := Sample(pts, 4)
	require.Len(t, got, 4)
	assert.Equal(t, []float64{0, 3, 6, 9}, []float64{got[0].X, got[1].X, got[2].X, got[3].X})
	assert.Len(t, Sample(pts, 0), 10)
	assert.Len(t, Sample(pts, 20), 10)
}

func TestRankGroups(t *testing.T) {
	pts := []BubblePoint{{Group: "Rowing"}, {Group: "Athletics"}, {Group: "Rowing"}, {Group: "Boxing"}}
	assert.Equal(t, []string{"Rowing", "Athletics", "Boxing"}, rankGroups(pts))
}

func TestChartsRender(t *testing.T) {
	opt := Options{Dir: filepath.Join(t.TempDir(), "charts"), Format: "png", Width: 6, Height: 4}

	bar, err := Bar("Medals", "Medal", "Count", []string{"Gold", "Silver", "Bronze"}, []float64{3, 1, 2})
	require.NoError(t, err)
	grouped, err := GroupedBar("By year", "Year", "Count", []string{"1996", "2000"},
		[]BarSeries{{Name: "Gold", Values: []float64{1, 0}}, {Name: "Bronze", Values: []float64{2, 1}}})
	require.NoError(t, err)
	pie, err := PieChart("Sports", []string{"Hockey", "Shooting"}, []float64{8, 2}, PieOptions{Explode: []float64{0.1, 0}})
	require.NoError(t, err)
	donut, err := PieChart("Gold", []string{"A", "B", "C"}, []float64{5, 3, 1}, PieOptions{Hole: 0.4})
	require.NoError(t, err)
	lines, err := Lines("Participation", "Year", "Athletes", []LineSeries{
		{Name: "Summer", X: []float64{1896, 1900}, Y: []float64{380, 1936}},
		{Name: "Winter", X: []float64{1924}, Y: []float64{460}},
	})
	require.NoError(t, err)
	bubble, err := Bubble("Height vs weight", "Height", "Weight", []BubblePoint{
		{X: 180, Y: 80, Size: 24, Group: "Rowing"},
		{X: 165, Y: 55, Size: 19, Group: "Gymnastics"},
		{X: 190, Y: 95, Size: 30, Group: "Rowing"},
	}, BubbleOptions{LegendGroups: 2})
	require.NoError(t, err)
	cloud, err := WordCloudChart("Teams", []Word{{Text: "United", Weight: 5}, {Text: "States", Weight: 4}, {Text: "India", Weight: 1}})
	require.NoError(t, err)
	tree, err := TreemapChart("Top athletes", &aggregate.Node{Name: "all", Weight: 5, Children: []*aggregate.Node{
		{Name: "India", Weight: 5, Children: []*aggregate.Node{
			{Name: "Hockey", Weight: 5, Children: []*aggregate.Node{{Name: "Dhyan Chand", Weight: 3}, {Name: "Leslie Claudius", Weight: 2}}},
		}},
	}})
	require.NoError(t, err)

	plots := map[string]*plot.Plot{
		"bar": bar, "grouped": grouped, "pie": pie, "donut": donut,
		"lines": lines, "bubble": bubble, "cloud": cloud, "tree": tree}
	for name, p := range plots {
		path, err := Save(p, opt, name)
		require.NoError(t, err, name)
		assert.Equal(t, filepath.Join(opt.Dir, name+".png"), path)
		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}

	opt.Format = "svg"
	path, err := Save(bar, opt, "bar")
	require.NoError(t, err)
	assert.Equal(t, ".svg", filepath.Ext(path))
}

func TestEmptyChartsReturnErrNoData(t *testing.T) {
	_, err := Bar("x", "", "", nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = PieChart("x", []string{"a"}, []float64{0}, PieOptions{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Lines("x", "", "", []LineSeries{{Name: "empty"}})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Bubble("x", "", "", nil, BubbleOptions{})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = WordCloudChart("x", nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = TreemapChart("x", &aggregate.Node{Name: "all"})
	assert.ErrorIs(t, err, ErrNoData)
	_, err = GroupedBar("x", "", "", []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Bar("x", "", "", []string{"a"}, []float64{1, 2})
	assert.Error(t, err)
}
