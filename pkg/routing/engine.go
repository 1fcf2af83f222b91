package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/graph"
)

var log = logrus.WithField("module", "routing")

var (
	// ErrNoPath is returned when the goal cannot be reached from the start.
	ErrNoPath = errors.New("no path found")
	// ErrUnknownAlgorithm is returned by ParseAlgorithm for unsupported names.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Algorithm selects the search used by Engine.FindPath.
type Algorithm string

const (
	AlgorithmDijkstra Algorithm = "dijkstra"
	AlgorithmAStar    Algorithm = "astar"
)

// ParseAlgorithm maps a user-supplied name to an Algorithm. The empty string
// selects Dijkstra.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(AlgorithmDijkstra):
		return AlgorithmDijkstra, nil
	case string(AlgorithmAStar), "a*", "a-star":
		return AlgorithmAStar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Router finds node paths between two node ids.
type Router interface {
	FindPath(ctx context.Context, start, goal string, algo Algorithm) ([]string, error)
}

// Engine answers path queries against one Store. It holds no per-query state
// and is safe for concurrent use.
type Engine struct {
	store *graph.Store
}

// NewEngine creates an engine over a built store.
func NewEngine(s *graph.Store) *Engine {
	return &Engine{store: s}
}

// Store returns the underlying graph store.
func (e *Engine) Store() *graph.Store {
	return e.store
}

// ShortestPathTree runs Dijkstra from start.
func (e *Engine) ShortestPathTree(start string) Tree {
	return ShortestPathTree(e.store, start)
}

// ShortestPath runs A* from start to goal.
func (e *Engine) ShortestPath(start, goal string) []string {
	return ShortestPath(e.store, start, goal)
}

// FindPath computes the node path from start to goal with the chosen
// algorithm. It returns ErrNoPath when no valid path exists.
func (e *Engine) FindPath(ctx context.Context, start, goal string, algo Algorithm) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var path []string
	switch algo {
	case AlgorithmDijkstra, "":
		path = e.ShortestPathTree(start).PathTo(goal)
	case AlgorithmAStar:
		path = e.ShortestPath(start, goal)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}

	if len(path) == 0 || path[0] != start {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, start, goal)
	}

	log.WithFields(logrus.Fields{
		"algorithm": algo,
		"start":     start,
		"goal":      goal,
		"hops":      len(path) - 1,
	}).Debug("path found")
	return path, nil
}
