package analysis

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/KaramelBytes/olympeda/internal/clean"
	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// DefaultOutlierThreshold is the robust |z| above which a value is flagged.
const DefaultOutlierThreshold = 3.5

// minOutlierSample is the fewest present values worth scoring.
const minOutlierSample = 8

// NullShare is the missing count and percentage of one column.
type NullShare struct {
	Column  dataset.Column
	Count   int
	Percent float64
}

// Outliers summarises robust z-scores (median/MAD) for one numeric column.
// Values are only flagged, never removed.
type Outliers struct {
	Column    dataset.Column
	Count     int
	MaxAbsZ   float64
	Threshold float64
}

// Inspection describes a table before it is cleaned.
type Inspection struct {
	Rows       int
	Cols       int
	Describe   []dataset.Description
	Nulls      []NullShare
	AnyNulls   bool
	Duplicates int
	Outliers   []Outliers
}

// Inspect reports shape, numeric summaries, missing values and duplicates
// of t without modifying it. Nulls are sorted by percentage descending, then
// by column order.
func Inspect(t *dataset.Table) Inspection {
	df := dataset.Frame(t)
	rows, cols := df.Dims()
	in := Inspection{
		Rows:       rows,
		Cols:       cols,
		Describe:   dataset.Describe(t),
		Duplicates: clean.CountDuplicates(t),
	}

	in.Nulls = nullShares(dataset.NullCounts(df), rows)
	in.AnyNulls = len(onlyMissing(in.Nulls)) > 0

	for _, c := range dataset.NumericColumns {
		if c == dataset.ColID {
			continue
		}
		in.Outliers = append(in.Outliers, robustOutliers(t, c, DefaultOutlierThreshold))
	}
	return in
}

// Missing returns the columns that have at least one missing value.
func (in Inspection) Missing() []NullShare {
	return onlyMissing(in.Nulls)
}

// MissingShares returns the columns of t with missing values, sorted by
// percentage descending.
func MissingShares(t *dataset.Table) []NullShare {
	df := dataset.Frame(t)
	rows, _ := df.Dims()
	return onlyMissing(nullShares(dataset.NullCounts(df), rows))
}

func nullShares(counts map[string]int, rows int) []NullShare {
	out := make([]NullShare, 0, len(dataset.Columns))
	for _, c := range dataset.Columns {
		n := counts[string(c)]
		pct := 0.0
		if rows > 0 {
			pct = float64(n) * 100 / float64(rows)
		}
		out = append(out, NullShare{Column: c, Count: n, Percent: pct})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out
}

func onlyMissing(shares []NullShare) []NullShare {
	var out []NullShare
	for _, n := range shares {
		if n.Count > 0 {
			out = append(out, n)
		}
	}
	return out
}

func robustOutliers(t *dataset.Table, col dataset.Column, thr float64) Outliers {
	o := Outliers{Column: col, Threshold: thr}
	vals := make([]float64, 0, t.Len())
	for i := range t.Records {
		if v, ok := t.Records[i].Number(col); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) < minOutlierSample {
		return o
	}
	median := stats.Sample{Xs: vals}.Quantile(0.5)
	dev := make([]float64, len(vals))
	for i, v := range vals {
		dev[i] = math.Abs(v - median)
	}
	mad := stats.Sample{Xs: dev}.Quantile(0.5)
	if mad == 0 {
		return o
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			o.Count++
		}
		if az > o.MaxAbsZ {
			o.MaxAbsZ = az
		}
	}
	return o
}
