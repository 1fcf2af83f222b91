// Package osm turns an OpenStreetMap PBF extract into graph input: one node
// per intersection or way end, one edge per way section between them.
package osm

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/sirupsen/logrus"

	"github.com/navurbana/navrouter/pkg/geo"
	"github.com/navurbana/navrouter/pkg/graph"
)

var log = logrus.WithField("module", "osm")

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	if !carHighways[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return tags.Find("motor_vehicle") != "no"
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	// Implied oneway for motorways and roundabouts.
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Time-dependent; skipped entirely.
		forward, backward = false, false
	}

	return forward, backward
}

// way is a drivable way collected during the first pass. NodeIDs are in the
// legal travel direction when the way is one-way against its drawing order.
type way struct {
	ID      osm.WayID
	Name    string
	NodeIDs []osm.NodeID
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, drop sections leaving this box
}

// Stats counts what Parse kept and dropped.
type Stats struct {
	Ways            int
	Sections        int
	MissingCoords   int
	OutsideBBox     int
	DegenerateLoops int
}

// Parse reads an OSM PBF file and returns graph input for car routing.
// The reader is consumed twice (seeks back to start for the second pass),
// so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (graph.Input, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: Scan ways to collect referenced node IDs and way info.
	referenced := make(map[osm.NodeID]struct{})
	var ways []way

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		cw, ok := collectWay(w)
		if !ok {
			continue
		}
		for _, id := range cw.NodeIDs {
			referenced[id] = struct{}{}
		}
		ways = append(ways, cw)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return graph.Input{}, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.WithFields(logrus.Fields{
		"ways":  len(ways),
		"nodes": len(referenced),
	}).Info("pass 1 complete")

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return graph.Input{}, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]orb.Point, len(referenced))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		coords[n.ID] = n.Point()
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return graph.Input{}, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.WithField("coords", len(coords)).Info("pass 2 complete")

	in, stats := buildInput(ways, coords, opt)

	if stats.MissingCoords > 0 {
		log.Warnf("skipped %d sections with missing node coordinates", stats.MissingCoords)
	}
	if stats.OutsideBBox > 0 {
		log.Infof("filtered %d sections outside bounding box", stats.OutsideBBox)
	}
	if stats.DegenerateLoops > 0 {
		log.Debugf("dropped %d degenerate loop sections", stats.DegenerateLoops)
	}
	log.WithFields(logrus.Fields{
		"ways":     stats.Ways,
		"sections": stats.Sections,
		"nodes":    len(in.Nodes),
		"edges":    len(in.Edges),
	}).Info("built graph input")

	return in, nil
}

// collectWay filters a way and orients its node list. ok is false for ways
// that cannot be driven at all.
func collectWay(w *osm.Way) (way, bool) {
	if !isCarAccessible(w.Tags) || len(w.Nodes) < 2 {
		return way{}, false
	}
	fwd, bwd := directionFlags(w.Tags)
	if !fwd && !bwd {
		return way{}, false
	}

	ids := w.Nodes.NodeIDs()
	if !fwd {
		for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
			ids[i], ids[j] = ids[j], ids[i]
		}
	}
	return way{ID: w.ID, Name: w.Tags.Find("name"), NodeIDs: ids}, true
}

// buildInput splits every way at its ends and at nodes shared with other
// ways (or visited twice by the same way) and emits one edge per section.
func buildInput(ways []way, coords map[osm.NodeID]orb.Point, opt ParseOptions) (graph.Input, Stats) {
	stats := Stats{Ways: len(ways)}
	useBBox := !opt.BBox.IsZero()
	bound := opt.BBox.Bound()

	uses := make(map[osm.NodeID]int)
	for _, w := range ways {
		for _, id := range w.NodeIDs {
			uses[id]++
		}
	}

	var in graph.Input
	emitted := make(map[osm.NodeID]bool)
	addNode := func(id osm.NodeID, p orb.Point) {
		if emitted[id] {
			return
		}
		emitted[id] = true
		in.Nodes = append(in.Nodes, graph.Node{ID: nodeKey(id), Lat: p.Lat(), Lng: p.Lon()})
	}

	for _, w := range ways {
		start := 0
		for i := 1; i < len(w.NodeIDs); i++ {
			last := i == len(w.NodeIDs)-1
			if !last && uses[w.NodeIDs[i]] < 2 {
				continue
			}
			section := w.NodeIDs[start : i+1]
			start = i
			stats.Sections++

			ls, ok := sectionLine(section, coords)
			if !ok {
				stats.MissingCoords++
				continue
			}
			if section[0] == section[len(section)-1] && len(section) <= 2 {
				stats.DegenerateLoops++
				continue
			}
			if useBBox && !lineInside(ls, bound) {
				stats.OutsideBBox++
				continue
			}

			e := graph.Edge{
				From:       nodeKey(section[0]),
				To:         nodeKey(section[len(section)-1]),
				Distance:   geo.LineLength(ls),
				Mode:       graph.ModeCar,
				StreetName: w.Name,
			}
			if len(ls) > 2 {
				e.Geometry = make([]graph.LatLng, len(ls))
				for k, p := range ls {
					e.Geometry[k] = graph.LatLng{Lat: p.Lat(), Lng: p.Lon()}
				}
			}

			addNode(section[0], ls[0])
			addNode(section[len(section)-1], ls[len(ls)-1])
			in.Edges = append(in.Edges, e)
		}
	}
	return in, stats
}

func sectionLine(ids []osm.NodeID, coords map[osm.NodeID]orb.Point) (orb.LineString, bool) {
	ls := make(orb.LineString, 0, len(ids))
	for _, id := range ids {
		p, ok := coords[id]
		if !ok {
			return nil, false
		}
		ls = append(ls, p)
	}
	return ls, true
}

func lineInside(ls orb.LineString, b orb.Bound) bool {
	for _, p := range ls {
		if !b.Contains(p) {
			return false
		}
	}
	return true
}

func nodeKey(id osm.NodeID) string {
	return strconv.FormatInt(int64(id), 10)
}
