package route

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineString returns the polyline in orb's lon/lat order.
func (r *Route) LineString() orb.LineString {
	ls := make(orb.LineString, len(r.Polyline))
	for i, p := range r.Polyline {
		ls[i] = orb.Point{p.Lng, p.Lat}
	}
	return ls
}

// GeoJSON returns the route as a feature collection: the whole line first,
// tagged with its totals, then one line per run of points on the same
// street. Consecutive street lines share their boundary point.
func (r *Route) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	whole := geojson.NewFeature(r.LineString())
	whole.Properties["kind"] = "route"
	whole.Properties["distance"] = r.Distance
	whole.Properties["duration"] = r.Duration
	whole.Properties["path"] = r.Path
	fc.Append(whole)

	for _, s := range r.sections() {
		f := geojson.NewFeature(s.line)
		f.Properties["kind"] = "street"
		f.Properties["street"] = s.street
		fc.Append(f)
	}
	return fc
}

type section struct {
	street string
	line   orb.LineString
}

func (r *Route) sections() []section {
	var out []section
	for i, p := range r.Polyline {
		pt := orb.Point{p.Lng, p.Lat}
		if len(out) == 0 || out[len(out)-1].street != p.Street {
			line := orb.LineString{pt}
			if i > 0 {
				prev := r.Polyline[i-1]
				line = orb.LineString{{prev.Lng, prev.Lat}, pt}
			}
			out = append(out, section{street: p.Street, line: line})
			continue
		}
		out[len(out)-1].line = append(out[len(out)-1].line, pt)
	}
	return out
}
