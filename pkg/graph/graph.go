package graph

// Mode is the travel modality of an edge. It determines the default speed
// used to derive a missing duration.
type Mode string

const (
	ModeCar     Mode = "car"
	ModeWalking Mode = "walking"
	ModeBicycle Mode = "bicycle"
	ModeBus     Mode = "bus"
)

// Default speeds in meters per second.
const (
	CarSpeed     = 13.89 // 50 km/h
	WalkingSpeed = 1.4   // 5 km/h
	BicycleSpeed = 4.17  // 15 km/h
	BusSpeed     = 11.11 // 40 km/h
)

// Speed returns the default speed for the mode in m/s.
// Unrecognized modes fall back to the car speed.
func (m Mode) Speed() float64 {
	switch m {
	case ModeWalking:
		return WalkingSpeed
	case ModeBicycle:
		return BicycleSpeed
	case ModeBus:
		return BusSpeed
	default:
		return CarSpeed
	}
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Node is a geo-located graph vertex (an intersection).
type Node struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Position returns the node coordinates.
func (n Node) Position() LatLng {
	return LatLng{Lat: n.Lat, Lng: n.Lng}
}

// Edge is a travel segment between two nodes.
//
// Geometry optionally describes the real-world shape of the segment in its
// stored direction. Duration is in seconds, Distance in meters.
type Edge struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Distance   float64  `json:"distance"`
	Duration   float64  `json:"tempo"`
	Mode       Mode     `json:"modo"`
	StreetName string   `json:"nomeRua,omitempty"`
	Geometry   []LatLng `json:"path,omitempty"`
}

// HasGeometry reports whether the edge carries detailed shape points.
func (e Edge) HasGeometry() bool {
	return len(e.Geometry) > 0
}

// Reversed returns a copy of e with its endpoints swapped. Distance, duration,
// mode, name and geometry are preserved; the geometry is not reversed.
func (e Edge) Reversed() Edge {
	r := e
	r.From, r.To = e.To, e.From
	return r
}

// Input is the raw load input of a Store.
type Input struct {
	Nodes []Node
	Edges []Edge
}
