// Package clean implements the fixed cleaning sequence applied to the
// athlete-events table: outlier removal, mean imputation, medal fill and
// de-duplication. Every step mutates the table in place and reports what it
// changed.
package clean

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// ErrNoObservations is returned when a column to impute has missing values
// but no present value to average.
var ErrNoObservations = errors.New("no observations to impute from")

// DefaultRejectedHeights are height literals (cm) known to be data-entry errors.
var DefaultRejectedHeights = []float64{2, 12, 30, 54}

// DefaultMedalSentinel replaces a missing medal.
const DefaultMedalSentinel = "No Medal"

// Options controls the cleaning sequence.
type Options struct {
	OutlierColumn  dataset.Column
	RejectedValues []float64
	ImputeColumns  []dataset.Column
	MedalSentinel  string
	KeepDuplicates bool
}

// DefaultOptions mirrors the standard cleaning pass.
func DefaultOptions() Options {
	return Options{
		OutlierColumn:  dataset.ColHeight,
		RejectedValues: append([]float64(nil), DefaultRejectedHeights...),
		ImputeColumns:  []dataset.Column{dataset.ColAge, dataset.ColHeight, dataset.ColWeight},
		MedalSentinel:  DefaultMedalSentinel,
	}
}

// Column returns the column checked for rejected values, Height by default.
func (o Options) Column() dataset.Column {
	if o.OutlierColumn == "" {
		return dataset.ColHeight
	}
	return o.OutlierColumn
}

// Operation records one change made by the cleaning pass.
type Operation struct {
	Step     string
	Column   dataset.Column
	Affected int
	Detail   string
}

// Report summarises a cleaning pass.
type Report struct {
	RowsBefore        int
	RowsAfter         int
	OutliersRemoved   int
	Imputed           map[dataset.Column]int
	Means             map[dataset.Column]float64
	MedalsFilled      int
	DuplicatesRemoved int
	Operations        []Operation
}

// Changed reports whether the pass removed or rewrote anything.
func (r *Report) Changed() bool {
	if r.OutliersRemoved > 0 || r.MedalsFilled > 0 || r.DuplicatesRemoved > 0 {
		return true
	}
	for _, n := range r.Imputed {
		if n > 0 {
			return true
		}
	}
	return false
}

// Run applies the cleaning sequence to t in place. A second Run on its
// output changes nothing, except when an imputed mean of the outlier column
// equals a rejected value: the filled rows are then removed by the next pass.
func Run(t *dataset.Table, opt Options) (*Report, error) {
	rep := &Report{
		RowsBefore: t.Len(),
		Imputed:    map[dataset.Column]int{},
		Means:      map[dataset.Column]float64{},
	}
	col := opt.Column()
	if len(opt.RejectedValues) > 0 {
		n, err := RemoveOutliers(t, col, opt.RejectedValues)
		if err != nil {
			return nil, err
		}
		rep.OutliersRemoved = n
		rep.Operations = append(rep.Operations, Operation{
			Step: "remove_outliers", Column: col, Affected: n,
			Detail: "rejected values " + formatValues(opt.RejectedValues),
		})
	}
	for _, c := range opt.ImputeColumns {
		mean, n, err := ImputeMean(t, c)
		if err != nil {
			return nil, err
		}
		rep.Imputed[c] = n
		rep.Means[c] = mean
		rep.Operations = append(rep.Operations, Operation{
			Step: "impute_mean", Column: c, Affected: n,
			Detail: "mean " + strconv.FormatFloat(mean, 'f', 4, 64),
		})
	}
	if opt.MedalSentinel != "" {
		n := FillMedal(t, opt.MedalSentinel)
		rep.MedalsFilled = n
		rep.Operations = append(rep.Operations, Operation{
			Step: "fill_missing", Column: dataset.ColMedal, Affected: n,
			Detail: fmt.Sprintf("sentinel %q", opt.MedalSentinel),
		})
	}
	if !opt.KeepDuplicates {
		n := DropDuplicates(t)
		rep.DuplicatesRemoved = n
		rep.Operations = append(rep.Operations, Operation{
			Step: "drop_duplicates", Affected: n, Detail: "keep first",
		})
	}
	rep.RowsAfter = t.Len()
	return rep, nil
}

// RemoveOutliers drops rows whose present value in col equals any rejected
// literal. Rows with the value missing are kept.
func RemoveOutliers(t *dataset.Table, col dataset.Column, rejected []float64) (int, error) {
	if !col.IsNumeric() {
		return 0, fmt.Errorf("remove outliers: column %s is not numeric", col)
	}
	reject := make(map[float64]struct{}, len(rejected))
	for _, v := range rejected {
		reject[v] = struct{}{}
	}
	kept := t.Records[:0]
	for _, r := range t.Records {
		if v, ok := r.Number(col); ok {
			if _, bad := reject[v]; bad {
				continue
			}
		}
		kept = append(kept, r)
	}
	removed := len(t.Records) - len(kept)
	clear(t.Records[len(kept):])
	t.Records = kept
	return removed, nil
}

// ImputeMean replaces missing values in col with the mean of its present
// values, computed once before any replacement.
func ImputeMean(t *dataset.Table, col dataset.Column) (mean float64, filled int, err error) {
	if (&dataset.Record{}).NullableFloat(col) == nil {
		return 0, 0, fmt.Errorf("impute %s: column is not a nullable number", col)
	}
	present := make([]float64, 0, t.Len())
	missing := 0
	for i := range t.Records {
		if v, ok := t.Records[i].Number(col); ok {
			present = append(present, v)
		} else {
			missing++
		}
	}
	if missing == 0 {
		if len(present) > 0 {
			mean = stats.Mean(present)
		}
		return mean, 0, nil
	}
	if len(present) == 0 {
		return 0, 0, fmt.Errorf("impute %s: %w", col, ErrNoObservations)
	}
	mean = stats.Mean(present)
	for i := range t.Records {
		f := t.Records[i].NullableFloat(col)
		if !f.Valid {
			*f = dataset.Float(mean)
			filled++
		}
	}
	return mean, filled, nil
}

// FillMedal replaces missing medals with sentinel.
func FillMedal(t *dataset.Table, sentinel string) int {
	n := 0
	for i := range t.Records {
		if !t.Records[i].Medal.Valid {
			t.Records[i].Medal = dataset.Str(sentinel)
			n++
		}
	}
	return n
}

// DropDuplicates removes rows equal across every column to an earlier row.
// The first occurrence survives and survivor order is preserved.
func DropDuplicates(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.Len())
	kept := t.Records[:0]
	for _, r := range t.Records {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, r)
	}
	removed := len(t.Records) - len(kept)
	clear(t.Records[len(kept):])
	t.Records = kept
	return removed
}

// CountDuplicates counts rows that DropDuplicates would remove.
func CountDuplicates(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.Len())
	n := 0
	for i := range t.Records {
		k := t.Records[i].Key()
		if _, dup := seen[k]; dup {
			n++
			continue
		}
		seen[k] = struct{}{}
	}
	return n
}

func formatValues(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
