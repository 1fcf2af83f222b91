package routing

import (
	"math"

	"github.com/navurbana/navrouter/pkg/geo"
	"github.com/navurbana/navrouter/pkg/graph"
)

// ShortestPath runs A* from start to goal over edge distances and returns
// the node sequence, or nil when either node is unknown or goal cannot be
// reached.
//
// The heuristic is geo.DegreeDistance, which can overestimate at higher
// latitudes, so the result is not guaranteed to be optimal there.
func ShortestPath(s *graph.Store, start, goal string) []string {
	startNode, ok := s.Node(start)
	if !ok {
		return nil
	}
	goalNode, ok := s.Node(goal)
	if !ok {
		return nil
	}

	h := func(n graph.Node) float64 {
		return geo.DegreeDistance(n.Lat, n.Lng, goalNode.Lat, goalNode.Lng)
	}

	gScore := map[string]float64{start: 0}
	prev := make(map[string]string)
	closed := make(map[string]bool)

	pq := NewMinHeap[string](64)
	pq.Insert(h(startNode), start)

	for pq.Len() > 0 {
		u, _ := pq.ExtractMin()
		if u == goal {
			log.WithField("start", start).
				WithField("goal", goal).
				WithField("closed", len(closed)).
				Trace("astar reached goal")
			return ReconstructPath(prev, goal)
		}
		if closed[u] {
			continue
		}
		closed[u] = true

		gu := gScore[u]
		// Closed neighbours are relaxed too; their re-queued entries are
		// skipped when popped.
		for _, e := range s.Neighbors(u) {
			tentative := gu + e.Distance
			if g, seen := gScore[e.To]; seen && tentative >= g {
				continue
			}
			gScore[e.To] = tentative
			prev[e.To] = u
			n, _ := s.Node(e.To)
			pq.Insert(tentative+h(n), e.To)
		}
	}
	return nil
}

// PathDistance sums the distance of the edges linking consecutive nodes of
// path. It returns +Inf if a pair is not connected.
func PathDistance(s *graph.Store, path []string) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		e, _, ok := s.Connecting(path[i-1], path[i])
		if !ok {
			return math.Inf(1)
		}
		total += e.Distance
	}
	return total
}
