package dataset

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame converts the table into a gota DataFrame. Missing numbers become NaN
// and missing strings are marked NaN, so series.IsNaN reports them.
func Frame(t *Table) dataframe.DataFrame {
	n := t.Len()
	cols := make([]series.Series, 0, len(Columns))
	for _, c := range Columns {
		switch {
		case c == ColID || c == ColYear:
			vals := make([]int, n)
			for i := range t.Records {
				v, _ := t.Records[i].Number(c)
				vals[i] = int(v)
			}
			cols = append(cols, series.New(vals, series.Int, string(c)))
		case c.IsNumeric():
			vals := make([]float64, n)
			for i := range t.Records {
				if v, ok := t.Records[i].Number(c); ok {
					vals[i] = v
				} else {
					vals[i] = math.NaN()
				}
			}
			cols = append(cols, series.New(vals, series.Float, string(c)))
		default:
			vals := make([]string, n)
			for i := range t.Records {
				if t.Records[i].IsNull(c) {
					vals[i] = "NaN"
				} else {
					vals[i] = t.Records[i].Value(c)
				}
			}
			cols = append(cols, series.New(vals, series.String, string(c)))
		}
	}
	return dataframe.New(cols...)
}

// NullCounts counts missing values per column of df.
func NullCounts(df dataframe.DataFrame) map[string]int {
	out := make(map[string]int, df.Ncol())
	for _, name := range df.Names() {
		n := 0
		for _, na := range df.Col(name).IsNaN() {
			if na {
				n++
			}
		}
		out[name] = n
	}
	return out
}

// Description holds summary statistics for one numeric column.
type Description struct {
	Column Column
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// Describe summarises the present values of each numeric column, skipping
// missing ones the way a dataframe describe does.
func Describe(t *Table, cols ...Column) []Description {
	if len(cols) == 0 {
		cols = NumericColumns
	}
	out := make([]Description, 0, len(cols))
	for _, c := range cols {
		vals := make([]float64, 0, t.Len())
		for i := range t.Records {
			if v, ok := t.Records[i].Number(c); ok {
				vals = append(vals, v)
			}
		}
		d := Description{Column: c, Count: len(vals)}
		if len(vals) == 0 {
			nan := math.NaN()
			d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, d)
			continue
		}
		s := series.New(vals, series.Float, string(c))
		d.Mean = s.Mean()
		d.Std = s.StdDev()
		d.Min = s.Min()
		d.Max = s.Max()
		d.Q25 = s.Quantile(0.25)
		d.Q50 = s.Quantile(0.50)
		d.Q75 = s.Quantile(0.75)
		out = append(out, d)
	}
	return out
}
