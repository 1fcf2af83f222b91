package routing

import (
	"math"

	"github.com/navurbana/navrouter/pkg/graph"
)

// Tree is the result of a single-source search: the best known distance to
// every node and the predecessor of every reached node except the source.
// Unreached nodes have distance +Inf and no predecessor.
type Tree struct {
	Source       string
	Distances    map[string]float64
	Predecessors map[string]string
}

// Distance returns the shortest distance from the source to id, or +Inf.
func (t Tree) Distance(id string) float64 {
	d, ok := t.Distances[id]
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Reachable reports whether id was reached from the source.
func (t Tree) Reachable(id string) bool {
	return !math.IsInf(t.Distance(id), 1)
}

// PathTo returns the node sequence from the source to goal, or nil when goal
// was not reached.
func (t Tree) PathTo(goal string) []string {
	if !t.Reachable(goal) {
		return nil
	}
	path := ReconstructPath(t.Predecessors, goal)
	if len(path) == 0 || path[0] != t.Source {
		return nil
	}
	return path
}

// ShortestPathTree runs Dijkstra from start over edge distances and returns
// the full shortest-path tree. An unknown start yields a tree where every
// distance is +Inf and no node has a predecessor.
func ShortestPathTree(s *graph.Store, start string) Tree {
	nodes := s.Nodes()
	t := Tree{
		Source:       start,
		Distances:    make(map[string]float64, len(nodes)),
		Predecessors: make(map[string]string),
	}
	for _, n := range nodes {
		t.Distances[n.ID] = math.Inf(1)
	}
	if !s.HasNode(start) {
		return t
	}

	t.Distances[start] = 0
	visited := make(map[string]bool, len(nodes))
	pq := NewMinHeap[string](len(nodes))
	pq.Insert(0, start)

	for pq.Len() > 0 {
		u, _ := pq.ExtractMin()
		if visited[u] {
			continue
		}
		visited[u] = true

		du := t.Distances[u]
		for _, e := range s.Neighbors(u) {
			nd := du + e.Distance
			if nd < t.Distances[e.To] {
				t.Distances[e.To] = nd
				t.Predecessors[e.To] = u
				pq.Insert(nd, e.To)
			}
		}
	}

	log.WithField("source", start).
		WithField("settled", len(visited)).
		Trace("dijkstra done")
	return t
}
