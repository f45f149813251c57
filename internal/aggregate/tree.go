package aggregate

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/olympeda/internal/dataset"
)

// Node is one level of a weighted hierarchy.
type Node struct {
	Name     string
	Weight   float64
	Children []*Node
}

// Leaves returns the leaf nodes in depth-first order.
func (n *Node) Leaves() []*Node {
	if len(n.Children) == 0 {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// BuildTree nests the groups of r along levels, which must be columns of r,
// outermost first. Each node weighs the sum of its groups' counts; siblings
// are ordered by weight descending, then name.
func BuildTree(root string, r Ranking, levels ...dataset.Column) (*Node, error) {
	idx := make([]int, len(levels))
	for i, l := range levels {
		idx[i] = -1
		for j, c := range r.Columns {
			if c == l {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("build tree: %w: %s not in ranking", ErrUnknownColumn, l)
		}
	}
	top := &Node{Name: root}
	for _, c := range r.Rows {
		w := float64(c.Count)
		top.Weight += w
		cur := top
		for _, k := range idx {
			cur = child(cur, c.Keys[k])
			cur.Weight += w
		}
	}
	sortTree(top)
	return top, nil
}

func child(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c
}

func sortTree(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool {
		if n.Children[i].Weight != n.Children[j].Weight {
			return n.Children[i].Weight > n.Children[j].Weight
		}
		return n.Children[i].Name < n.Children[j].Name
	})
	for _, c := range n.Children {
		sortTree(c)
	}
}
