package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// ErrUnknownColumn is returned when a column name does not exist.
var ErrUnknownColumn = errors.New("unknown column")

// Predicate selects rows.
type Predicate func(*dataset.Record) bool

// Eq matches rows whose col equals v.
func Eq(col dataset.Column, v string) Predicate {
	return func(r *dataset.Record) bool { return !r.IsNull(col) && r.Value(col) == v }
}

// Ne matches rows whose col is missing or differs from v.
func Ne(col dataset.Column, v string) Predicate {
	return func(r *dataset.Record) bool { return r.IsNull(col) || r.Value(col) != v }
}

// In matches rows whose col equals any of vs.
func In(col dataset.Column, vs ...string) Predicate {
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return func(r *dataset.Record) bool {
		if r.IsNull(col) {
			return false
		}
		_, ok := set[r.Value(col)]
		return ok
	}
}

// NumEq matches rows whose numeric col is present and equal to x.
func NumEq(col dataset.Column, x float64) Predicate {
	return func(r *dataset.Record) bool {
		v, ok := r.Number(col)
		return ok && v == x
	}
}

// Medalled matches rows holding a medal, treating sentinel as no medal.
func Medalled(sentinel string) Predicate {
	return func(r *dataset.Record) bool { return r.Medal.Valid && r.Medal.String != sentinel }
}

// Where returns the rows matching every predicate.
func Where(t *dataset.Table, preds ...Predicate) *dataset.Table {
	return t.Filter(func(r *dataset.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	})
}

// CountWhere counts rows whose col equals v.
func CountWhere(t *dataset.Table, col dataset.Column, v string) int {
	p := Eq(col, v)
	n := 0
	for i := range t.Records {
		if p(&t.Records[i]) {
			n++
		}
	}
	return n
}

// Max returns the largest present value of a numeric column.
func Max(t *dataset.Table, col dataset.Column) (float64, bool) {
	var best float64
	found := false
	for i := range t.Records {
		if v, ok := t.Records[i].Number(col); ok && (!found || v > best) {
			best, found = v, true
		}
	}
	return best, found
}

// ParseColumns resolves column names, failing on the first unknown one.
func ParseColumns(names []string) ([]dataset.Column, error) {
	out := make([]dataset.Column, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, ok := dataset.ParseColumn(part)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, strings.TrimSpace(part))
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// ParsePredicate parses "Col=Value" or "Col!=Value". Numeric columns compare
// numerically; for text columns "A|B" matches either value.
func ParsePredicate(expr string) (Predicate, error) {
	neg := false
	name, val, ok := strings.Cut(expr, "!=")
	if ok {
		neg = true
	} else if name, val, ok = strings.Cut(expr, "="); !ok {
		return nil, fmt.Errorf("invalid filter %q (use Col=Value or Col!=Value)", expr)
	}
	col, found := dataset.ParseColumn(name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, strings.TrimSpace(name))
	}
	val = strings.TrimSpace(val)
	if col.IsNumeric() {
		x, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number in filter %q: %w", expr, err)
		}
		if neg {
			return not(NumEq(col, x)), nil
		}
		return NumEq(col, x), nil
	}
	alts := strings.Split(val, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}
	switch {
	case len(alts) > 1 && neg:
		return not(In(col, alts...)), nil
	case len(alts) > 1:
		return In(col, alts...), nil
	case neg:
		return Ne(col, val), nil
	}
	return Eq(col, val), nil
}

func not(p Predicate) Predicate {
	return func(r *dataset.Record) bool { return !p(r) }
}
