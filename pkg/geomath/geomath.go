package geomath

import (
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusKm matches the mean radius used by the map widget's distance readouts.
const earthRadiusKm = 6371.0088

// kmPerDegreeLat is the great-circle length of one degree of latitude.
const kmPerDegreeLat = earthRadiusKm * math.Pi / 180

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Bounds is a minimal enclosing box, southwest and northeast corners.
type Bounds struct {
	SouthWest Point
	NorthEast Point
}

// DistanceKm returns the great-circle distance between two points in
// kilometres, rounded to 4 decimal places for display. The result is
// never negative.
func DistanceKm(a, b Point) float64 {
	from := s2.LatLngFromDegrees(a.Lat, a.Lng)
	to := s2.LatLngFromDegrees(b.Lat, b.Lng)
	km := from.Distance(to).Radians() * earthRadiusKm
	return math.Round(km*10000) / 10000
}

// Centroid returns the geometric center of a non-empty point set.
func Centroid(points []Point) Point {
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(points))
	return Point{Lat: sumLat / n, Lng: sumLng / n}
}

// BoundingBox returns the minimal box enclosing a non-empty point set,
// expanded on every side by padKm so markers at the edge stay visible
// after a viewport fit.
func BoundingBox(points []Point, padKm float64) Bounds {
	minLat, minLng := points[0].Lat, points[0].Lng
	maxLat, maxLng := points[0].Lat, points[0].Lng
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLat = math.Max(maxLat, p.Lat)
		maxLng = math.Max(maxLng, p.Lng)
	}

	latPad := padKm / kmPerDegreeLat
	// Longitude degrees shrink with latitude; pad against the box middle.
	midLat := (minLat + maxLat) / 2
	lngScale := math.Cos(midLat * math.Pi / 180)
	if lngScale < 0.01 {
		lngScale = 0.01
	}
	lngPad := padKm / (kmPerDegreeLat * lngScale)

	return Bounds{
		SouthWest: Point{Lat: minLat - latPad, Lng: minLng - lngPad},
		NorthEast: Point{Lat: maxLat + latPad, Lng: maxLng + lngPad},
	}
}
