package aggregate

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// CrossTable counts rows per (row key, column key) pair.
type CrossTable struct {
	RowColumn dataset.Column
	ColColumn dataset.Column
	// Rows and Cols are the distinct keys in axis order.
	Rows   []string
	Cols   []string
	counts map[string]map[string]int
}

// Get returns the count for one cell; absent cells are zero.
func (x CrossTable) Get(row, col string) int {
	return x.counts[row][col]
}

// Series returns the present cells of a row as (column key, count) pairs in
// axis order.
func (x CrossTable) Series(row string) (keys []string, counts []int) {
	cells := x.counts[row]
	for _, c := range x.Cols {
		if n, ok := cells[c]; ok {
			keys = append(keys, c)
			counts = append(counts, n)
		}
	}
	return keys, counts
}

// RowTotal sums a row across all columns.
func (x CrossTable) RowTotal(row string) int {
	n := 0
	for _, v := range x.counts[row] {
		n += v
	}
	return n
}

// CrossTab counts rows by rowCol x colCol. Each axis is ordered numerically
// when every key is an integer, lexicographically otherwise.
func CrossTab(t *dataset.Table, rowCol, colCol dataset.Column) CrossTable {
	x := CrossTable{RowColumn: rowCol, ColColumn: colCol, counts: map[string]map[string]int{}}
	colSeen := map[string]struct{}{}
	for i := range t.Records {
		r := &t.Records[i]
		if r.IsNull(rowCol) || r.IsNull(colCol) {
			continue
		}
		rk, ck := r.Value(rowCol), r.Value(colCol)
		cells := x.counts[rk]
		if cells == nil {
			cells = map[string]int{}
			x.counts[rk] = cells
			x.Rows = append(x.Rows, rk)
		}
		cells[ck]++
		if _, ok := colSeen[ck]; !ok {
			colSeen[ck] = struct{}{}
			x.Cols = append(x.Cols, ck)
		}
	}
	sortAxis(x.Rows)
	sortAxis(x.Cols)
	return x
}

func sortAxis(keys []string) {
	nums := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = n
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}
