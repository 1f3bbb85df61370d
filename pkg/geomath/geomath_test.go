package geomath

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	origin := Point{Lat: 1.30, Lng: 103.80}
	candidate := Point{Lat: 1.31, Lng: 103.81}

	got := DistanceKm(origin, candidate)

	// Roughly 1.46 km between those two points in Singapore.
	if math.Abs(got-1.46) > 0.05 {
		t.Errorf("expected distance near 1.46 km, got %v", got)
	}
	if got < 0 {
		t.Errorf("distance must never be negative, got %v", got)
	}
}

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Point{Lat: 52.16, Lng: 10.54}
	if got := DistanceKm(p, p); got != 0 {
		t.Errorf("expected zero distance for identical points, got %v", got)
	}
}

func TestDistanceKm_Rounding(t *testing.T) {
	got := DistanceKm(Point{Lat: 1.3, Lng: 103.8}, Point{Lat: 1.31, Lng: 103.81})
	scaled := got * 10000
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Errorf("expected distance rounded to 4 decimal places, got %v", got)
	}
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 1.0, Lng: 103.0},
		{Lat: 2.0, Lng: 104.0},
		{Lat: 3.0, Lng: 105.0},
	}

	c := Centroid(points)

	if math.Abs(c.Lat-2.0) > 1e-9 || math.Abs(c.Lng-104.0) > 1e-9 {
		t.Errorf("expected centroid (2, 104), got (%v, %v)", c.Lat, c.Lng)
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point{
		{Lat: 1.30, Lng: 103.80},
		{Lat: 1.35, Lng: 103.90},
		{Lat: 1.28, Lng: 103.85},
	}

	b := BoundingBox(points, 1.0)

	if b.SouthWest.Lat >= 1.28 {
		t.Errorf("expected padded southwest lat below 1.28, got %v", b.SouthWest.Lat)
	}
	if b.NorthEast.Lat <= 1.35 {
		t.Errorf("expected padded northeast lat above 1.35, got %v", b.NorthEast.Lat)
	}
	if b.SouthWest.Lng >= 103.80 || b.NorthEast.Lng <= 103.90 {
		t.Errorf("expected padded box to enclose all longitudes, got %+v", b)
	}

	// Every input point must be inside the padded box.
	for _, p := range points {
		if p.Lat < b.SouthWest.Lat || p.Lat > b.NorthEast.Lat ||
			p.Lng < b.SouthWest.Lng || p.Lng > b.NorthEast.Lng {
			t.Errorf("point %+v falls outside bounding box %+v", p, b)
		}
	}
}

func TestBoundingBox_SinglePoint(t *testing.T) {
	b := BoundingBox([]Point{{Lat: 1.3, Lng: 103.8}}, 0.5)
	if b.SouthWest.Lat >= b.NorthEast.Lat || b.SouthWest.Lng >= b.NorthEast.Lng {
		t.Errorf("expected non-degenerate padded box for a single point, got %+v", b)
	}
}
