// Package route turns a node path into a drivable route: totals, the edges
// traversed and a street-labeled polyline.
package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-polyline"

	"github.com/navurbana/navrouter/pkg/graph"
)

var log = logrus.WithField("module", "route")

// UnnamedStreet labels points on edges whose street name is empty or blank.
const UnnamedStreet = "Via sem nome"

var (
	// ErrNoRoute is returned when assembling an empty path.
	ErrNoRoute = errors.New("no route")
	// ErrDataInconsistency is returned when two consecutive path nodes are
	// not linked by any edge of the store.
	ErrDataInconsistency = errors.New("path and graph disagree")
)

// Point is a polyline vertex tagged with the street it lies on.
type Point struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Street string  `json:"street"`
}

// Pair is a pair of consecutive path nodes.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Route is an assembled path.
type Route struct {
	Path     []string     `json:"path"`
	Nodes    []graph.Node `json:"nodes"`
	Edges    []graph.Edge `json:"edges"`
	Polyline []Point      `json:"polyline"`
	Distance float64      `json:"distance"` // meters
	Duration float64      `json:"duration"` // seconds

	// Skipped lists pairs with no connecting edge. Only set by Relaxed.
	Skipped []Pair `json:"skipped,omitempty"`
}

// Options configures Assemble.
type Options struct {
	// Relaxed skips unresolved pairs instead of failing.
	Relaxed bool
}

// Option mutates Options.
type Option func(*Options)

// Relaxed makes Assemble skip node pairs that no edge connects. Every
// skipped pair is recorded in Route.Skipped and logged.
func Relaxed() Option {
	return func(o *Options) { o.Relaxed = true }
}

// Assemble resolves the edges along path and builds the route.
//
// Each consecutive pair is matched to the edge stored in travel direction,
// or failing that to the edge stored in the opposite direction. Edges with
// detailed geometry contribute their shape points as stored; others
// contribute their two endpoints in travel order. A point equal to the one
// emitted just before it is dropped.
func Assemble(s *graph.Store, path []string, opts ...Option) (*Route, error) {
	var opt Options
	for _, o := range opts {
		o(&opt)
	}

	if len(path) == 0 {
		return nil, ErrNoRoute
	}

	r := &Route{
		Path:  path,
		Nodes: make([]graph.Node, 0, len(path)),
		Edges: make([]graph.Edge, 0, len(path)-1),
	}
	for _, id := range path {
		n, ok := s.Node(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown node %q", ErrDataInconsistency, id)
		}
		r.Nodes = append(r.Nodes, n)
	}

	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		e, reversed, ok := s.Connecting(from, to)
		if !ok {
			if !opt.Relaxed {
				return nil, fmt.Errorf("%w: no edge between %s and %s", ErrDataInconsistency, from, to)
			}
			log.WithField("from", from).WithField("to", to).Warn("skipping unconnected pair")
			r.Skipped = append(r.Skipped, Pair{From: from, To: to})
			continue
		}

		r.Edges = append(r.Edges, e)
		r.Distance += e.Distance
		r.Duration += e.Duration
		r.appendEdge(s, e, reversed)
	}

	backfillStreets(r.Polyline)

	if len(r.Polyline) == 0 {
		r.Polyline = lo.Map(r.Nodes, func(n graph.Node, _ int) Point {
			return Point{Lat: n.Lat, Lng: n.Lng, Street: UnnamedStreet}
		})
	}

	log.WithFields(logrus.Fields{
		"hops":     len(path) - 1,
		"points":   len(r.Polyline),
		"distance": r.Distance,
		"duration": r.Duration,
		"skipped":  len(r.Skipped),
	}).Debug("route assembled")
	return r, nil
}

func (r *Route) appendEdge(s *graph.Store, e graph.Edge, reversed bool) {
	name := e.StreetName
	if strings.TrimSpace(name) == "" {
		name = UnnamedStreet
	}

	if e.HasGeometry() {
		for _, p := range e.Geometry {
			r.appendPoint(Point{Lat: p.Lat, Lng: p.Lng, Street: name})
		}
		return
	}

	first, second := e.From, e.To
	if reversed {
		first, second = second, first
	}
	for _, id := range []string{first, second} {
		n, _ := s.Node(id)
		r.appendPoint(Point{Lat: n.Lat, Lng: n.Lng, Street: name})
	}
}

func (r *Route) appendPoint(p Point) {
	if k := len(r.Polyline); k > 0 {
		last := r.Polyline[k-1]
		if last.Lat == p.Lat && last.Lng == p.Lng {
			return
		}
	}
	r.Polyline = append(r.Polyline, p)
}

// backfillStreets copies the previous point's street onto points left
// without one.
func backfillStreets(pts []Point) {
	for i := 1; i < len(pts); i++ {
		if pts[i].Street == "" {
			pts[i].Street = pts[i-1].Street
		}
	}
}

// Streets returns the street names along the polyline, with consecutive
// repeats collapsed.
func (r *Route) Streets() []string {
	var out []string
	for _, p := range r.Polyline {
		if len(out) > 0 && out[len(out)-1] == p.Street {
			continue
		}
		out = append(out, p.Street)
	}
	return out
}

// NamedStreets returns the distinct named streets in order of first use.
func (r *Route) NamedStreets() []string {
	names := lo.Uniq(lo.Map(r.Polyline, func(p Point, _ int) string { return p.Street }))
	return lo.Without(names, UnnamedStreet, "")
}

// EncodedPolyline returns the polyline in Google's encoded polyline format
// with five decimal digits of precision.
func (r *Route) EncodedPolyline() string {
	coords := lo.Map(r.Polyline, func(p Point, _ int) []float64 {
		return []float64{p.Lat, p.Lng}
	})
	return string(polyline.EncodeCoords(coords))
}
