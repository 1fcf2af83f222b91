package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Sao Caetano do Sul to Se",
			lat1: -23.6229, lon1: -46.5548,
			lat2: -23.5505, lon2: -46.6333,
			wantMeters:       11_480,
			tolerancePercent: 2,
		},
		{
			name: "Same point",
			lat1: -23.6229, lon1: -46.5548,
			lat2: -23.6229, lon2: -46.5548,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name: "Short distance (~100m)",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3530, lon2: 103.8198,
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestDegreeDistance(t *testing.T) {
	if got := DegreeDistance(0, 0, 0, 1); got != MetersPerDegree {
		t.Errorf("DegreeDistance one degree = %f, want %f", got, MetersPerDegree)
	}
	if got := DegreeDistance(0, 0, 3, 4); math.Abs(got-5*MetersPerDegree) > 1e-6 {
		t.Errorf("DegreeDistance 3-4-5 = %f, want %f", got, 5*MetersPerDegree)
	}
	if got := DegreeDistance(-23.6, -46.5, -23.6, -46.5); got != 0 {
		t.Errorf("DegreeDistance same point = %f, want 0", got)
	}
}

func TestDegreeDistanceOverestimatesAwayFromEquator(t *testing.T) {
	// One degree of longitude at 60N is about half a degree of latitude, but
	// the flat-plane heuristic counts it as a full degree.
	flat := DegreeDistance(60, 10, 60, 11)
	hav := Haversine(60, 10, 60, 11)
	if flat <= hav {
		t.Errorf("flat = %f, haversine = %f; expected flat > haversine at 60N", flat, hav)
	}
}

func TestLineLength(t *testing.T) {
	ls := orb.LineString{{103.8198, 1.3521}, {103.8198, 1.3530}, {103.8198, 1.3539}}
	got := LineLength(ls)
	want := Haversine(1.3521, 103.8198, 1.3530, 103.8198) + Haversine(1.3530, 103.8198, 1.3539, 103.8198)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("LineLength = %f, want %f", got, want)
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(1.3521, 103.8198, 1.2905, 103.8520)
	}
}

func BenchmarkDegreeDistance(b *testing.B) {
	for b.Loop() {
		DegreeDistance(1.3521, 103.8198, 1.2905, 103.8520)
	}
}
