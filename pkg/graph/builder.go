package graph

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "graph")

// ErrLoad is returned (wrapped) when the input cannot form a valid Store.
var ErrLoad = errors.New("graph load error")

// Options configures Build.
type Options struct {
	// TolerateDanglingEdges drops edges that reference unknown nodes instead
	// of failing the whole load.
	TolerateDanglingEdges bool
}

// Option mutates Options.
type Option func(*Options)

// WithTolerateDanglingEdges makes Build skip edges whose endpoints are not in
// the node list. Skipped edges are counted in Stats.DroppedEdges.
func WithTolerateDanglingEdges() Option {
	return func(o *Options) { o.TolerateDanglingEdges = true }
}

// Stats summarizes a built Store.
type Stats struct {
	NumNodes        int `json:"num_nodes"`
	NumEdges        int `json:"num_edges"`
	NumAdjacency    int `json:"num_adjacency"`
	BackfilledEdges int `json:"backfilled_edges"`
	DroppedEdges    int `json:"dropped_edges"`
	IsolatedNodes   int `json:"isolated_nodes"`
}

type endpoints struct {
	from, to string
}

// Store owns the nodes, the normalized edges and the bidirectional adjacency
// built from them. It is read-only once Build returns and may be shared by
// concurrent queries.
type Store struct {
	nodes []Node
	index map[string]int // node id -> position in nodes

	edges []Edge   // stored edges, durations backfilled
	adj   [][]Edge // aligned with nodes; both directions of every edge
	pairs map[endpoints]int

	stats Stats
}

// Build validates the input and constructs a Store.
//
// Every edge whose duration is zero gets distance / mode speed. Every edge is
// inserted into the adjacency twice, once as stored and once with its
// endpoints swapped.
func Build(in Input, opts ...Option) (*Store, error) {
	var opt Options
	for _, o := range opts {
		o(&opt)
	}

	s := &Store{
		nodes: make([]Node, 0, len(in.Nodes)),
		index: make(map[string]int, len(in.Nodes)),
		pairs: make(map[endpoints]int, len(in.Edges)),
	}

	// Step 1: Index nodes.
	for i, n := range in.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node #%d has an empty id", ErrLoad, i)
		}
		if _, dup := s.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrLoad, n.ID)
		}
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}
	s.adj = make([][]Edge, len(s.nodes))

	// Step 2: Normalize edges.
	s.edges = make([]Edge, 0, len(in.Edges))
	for i, e := range in.Edges {
		if math.IsNaN(e.Distance) || e.Distance < 0 {
			return nil, fmt.Errorf("%w: edge #%d (%s -> %s) has invalid distance %v", ErrLoad, i, e.From, e.To, e.Distance)
		}
		if math.IsNaN(e.Duration) || e.Duration < 0 {
			return nil, fmt.Errorf("%w: edge #%d (%s -> %s) has invalid duration %v", ErrLoad, i, e.From, e.To, e.Duration)
		}

		_, fromOk := s.index[e.From]
		_, toOk := s.index[e.To]
		if !fromOk || !toOk {
			if !opt.TolerateDanglingEdges {
				return nil, fmt.Errorf("%w: edge #%d (%s -> %s) references an unknown node", ErrLoad, i, e.From, e.To)
			}
			s.stats.DroppedEdges++
			continue
		}

		if e.Duration == 0 {
			e.Duration = e.Distance / e.Mode.Speed()
			s.stats.BackfilledEdges++
		}

		e.Geometry = slices.Clone(e.Geometry)

		if _, seen := s.pairs[endpoints{e.From, e.To}]; !seen {
			s.pairs[endpoints{e.From, e.To}] = len(s.edges)
		}
		s.edges = append(s.edges, e)
	}

	// Step 3: Bidirectional adjacency.
	for _, e := range s.edges {
		from := s.index[e.From]
		to := s.index[e.To]
		s.adj[from] = append(s.adj[from], e)
		s.adj[to] = append(s.adj[to], e.Reversed())
	}

	s.stats.NumNodes = len(s.nodes)
	s.stats.NumEdges = len(s.edges)
	s.stats.NumAdjacency = 2 * len(s.edges)
	for _, out := range s.adj {
		if len(out) == 0 {
			s.stats.IsolatedNodes++
		}
	}

	if s.stats.DroppedEdges > 0 {
		log.Warnf("dropped %d edges referencing unknown nodes", s.stats.DroppedEdges)
	}
	log.WithFields(logrus.Fields{
		"nodes":      s.stats.NumNodes,
		"edges":      s.stats.NumEdges,
		"backfilled": s.stats.BackfilledEdges,
		"isolated":   s.stats.IsolatedNodes,
	}).Debug("graph built")

	return s, nil
}

// Stats returns counters collected during Build.
func (s *Store) Stats() Stats {
	return s.stats
}

// NumNodes returns the number of nodes.
func (s *Store) NumNodes() int {
	return len(s.nodes)
}

// Nodes returns all nodes in load order. The slice must not be modified.
func (s *Store) Nodes() []Node {
	return s.nodes
}

// Edges returns the stored (not mirrored) edges in load order, with
// durations backfilled. The slice must not be modified.
func (s *Store) Edges() []Edge {
	return s.edges
}

// Node looks up a node by id.
func (s *Store) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// HasNode reports whether id is a known node.
func (s *Store) HasNode(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Neighbors returns the edges usable from id, in both stored and mirrored
// direction. Every returned edge has From == id.
func (s *Store) Neighbors(id string) []Edge {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.adj[i]
}

// Connecting returns the stored edge linking a and b. The edge stored as
// a -> b is preferred; b -> a is the fallback, reported with reversed = true.
func (s *Store) Connecting(a, b string) (e Edge, reversed bool, ok bool) {
	if i, found := s.pairs[endpoints{a, b}]; found {
		return s.edges[i], false, true
	}
	if i, found := s.pairs[endpoints{b, a}]; found {
		return s.edges[i], true, true
	}
	return Edge{}, false, false
}
