package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// MetersPerDegree approximates the length of one degree of latitude.
const MetersPerDegree = 111_000.0

// DegreeDistance treats lat/lng as a flat plane and scales the Euclidean
// distance in degrees by MetersPerDegree. It ignores the shrinking of
// longitude degrees away from the equator, so it can overestimate real
// distances; it is the A* heuristic.
func DegreeDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := lat1 - lat2
	dLng := lng1 - lng2
	return math.Sqrt(dLat*dLat+dLng*dLng) * MetersPerDegree
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.DistanceHaversine(orb.Point{lng1, lat1}, orb.Point{lng2, lat2})
}

// LineLength returns the haversine length in meters of a line given in
// orb's lon/lat order.
func LineLength(ls orb.LineString) float64 {
	return orbgeo.LengthHaversine(ls)
}
