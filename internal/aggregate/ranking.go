package aggregate

import (
	"errors"
	"sort"
	"strings"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// Count is one group of a ranking.
type Count struct {
	Keys  []string
	Count int
}

// Label joins the group keys for display.
func (c Count) Label() string { return strings.Join(c.Keys, " / ") }

// Ranking is a grouped count sorted by count descending, then by key
// ascending, so equal counts always come out in the same order.
type Ranking struct {
	Columns []dataset.Column
	Rows    []Count
	// Total is the number of rows counted, before any top-N cut.
	Total int
}

// Top returns the first n groups; n <= 0 keeps all.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 || n >= len(r.Rows) {
		return r
	}
	r.Rows = r.Rows[:n]
	return r
}

// Labels returns the display label of every group.
func (r Ranking) Labels() []string {
	out := make([]string, len(r.Rows))
	for i, c := range r.Rows {
		out[i] = c.Label()
	}
	return out
}

// Values returns the counts as floats, aligned with Labels.
func (r Ranking) Values() []float64 {
	out := make([]float64, len(r.Rows))
	for i, c := range r.Rows {
		out[i] = float64(c.Count)
	}
	return out
}

// Get returns the count of the group with the given keys.
func (r Ranking) Get(keys ...string) int {
	want := strings.Join(keys, "\x1f")
	for _, c := range r.Rows {
		if strings.Join(c.Keys, "\x1f") == want {
			return c.Count
		}
	}
	return 0
}

// ValueCounts counts the rows per value of col. Missing values are skipped.
func ValueCounts(t *dataset.Table, col dataset.Column) Ranking {
	r, _ := GroupCount(t, []dataset.Column{col}, 0)
	return r
}

// GroupCount groups rows by cols, counts each group and keeps the topN
// largest (topN <= 0 keeps all). Rows missing any key are skipped.
func GroupCount(t *dataset.Table, cols []dataset.Column, topN int) (Ranking, error) {
	if len(cols) == 0 {
		return Ranking{}, errors.New("group count: no columns")
	}
	type group struct {
		keys []string
		n    int
	}
	groups := map[string]*group{}
	total := 0
	keys := make([]string, len(cols))
	for i := range t.Records {
		r := &t.Records[i]
		skip := false
		for j, c := range cols {
			if r.IsNull(c) {
				skip = true
				break
			}
			keys[j] = r.Value(c)
		}
		if skip {
			continue
		}
		total++
		k := strings.Join(keys, "\x1f")
		g := groups[k]
		if g == nil {
			g = &group{keys: append([]string(nil), keys...)}
			groups[k] = g
		}
		g.n++
	}
	rows := make([]Count, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, Count{Keys: g.keys, Count: g.n})
	}
	sortCounts(rows)
	rk := Ranking{Columns: append([]dataset.Column(nil), cols...), Rows: rows, Total: total}
	return rk.Top(topN), nil
}

func sortCounts(rows []Count) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return lessKeys(rows[i].Keys, rows[j].Keys)
	})
}

func lessKeys(a, b []string) bool {
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return len(a) < len(b)
}

// TopAthletes ranks medal-winning athletes of one sex by the number of medal
// rows, grouped by name, team and sport.
func TopAthletes(t *dataset.Table, sex, sentinel string, topN int) (Ranking, error) {
	winners := Where(t, Eq(dataset.ColSex, sex), Medalled(sentinel))
	return GroupCount(winners, []dataset.Column{dataset.ColName, dataset.ColTeam, dataset.ColSport}, topN)
}
