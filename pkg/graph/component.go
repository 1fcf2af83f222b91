package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in the set containing x.
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

// LargestComponent returns the subset of in belonging to its largest weakly
// connected component. Edges referencing unknown nodes are dropped. Node and
// edge order is preserved.
func LargestComponent(in Input) Input {
	if len(in.Nodes) == 0 {
		return Input{}
	}

	index := make(map[string]int, len(in.Nodes))
	for i, n := range in.Nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
	}

	uf := NewUnionFind(len(in.Nodes))
	for _, e := range in.Edges {
		from, fromOk := index[e.From]
		to, toOk := index[e.To]
		if fromOk && toOk {
			uf.Union(from, to)
		}
	}

	// Find the representative with the largest size. Ties keep the component
	// seen first in node order.
	bestRoot, bestSize := -1, 0
	for i := range in.Nodes {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	out := Input{Nodes: make([]Node, 0, bestSize)}
	for i, n := range in.Nodes {
		if index[n.ID] == i && uf.Find(i) == bestRoot {
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range in.Edges {
		from, fromOk := index[e.From]
		if !fromOk || uf.Find(from) != bestRoot {
			continue
		}
		if _, toOk := index[e.To]; !toOk {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	return out
}
