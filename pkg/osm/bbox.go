package osm

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// BBox defines a geographic bounding box for filtering.
// If non-zero, only way sections lying entirely inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Regions are named boxes accepted by ParseBBox.
var Regions = map[string]BBox{
	// São Caetano do Sul and surroundings.
	"scs":       {MinLat: -23.66, MaxLat: -23.57, MinLng: -46.62, MaxLng: -46.52},
	"singapore": {MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1},
}

// ParseBBox parses "minLat,minLng,maxLat,maxLng" or a name from Regions.
func ParseBBox(s string) (BBox, error) {
	if b, ok := Regions[strings.ToLower(strings.TrimSpace(s))]; ok {
		return b, nil
	}
	var b BBox
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &b.MinLat, &b.MinLng, &b.MaxLat, &b.MaxLng); err != nil {
		return BBox{}, fmt.Errorf("invalid bbox %q (expected minLat,minLng,maxLat,maxLng): %w", s, err)
	}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return BBox{}, fmt.Errorf("invalid bbox %q: min exceeds max", s)
	}
	return b, nil
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Bound returns the box as an orb.Bound.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinLng, b.MinLat}, Max: orb.Point{b.MaxLng, b.MaxLat}}
}
