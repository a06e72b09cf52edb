// Package geo provides geographic coordinates and distance functions.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// LatLng is a geographic coordinate in decimal degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Valid reports whether the coordinate is finite and within
// [-90,90] latitude and [-180,180] longitude.
func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Dist returns the great-circle distance in meters between a and b.
func Dist(a, b LatLng) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// EquirectangularDist returns an approximate distance in meters.
// ~3x faster than Haversine; accurate to <0.1% at tropical latitudes.
// Use for candidate filtering and comparisons, not for final edge weights.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// degToMeters converts degree-scaled planar distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// Project maps a coordinate to planar degree-scaled x/y using an
// equirectangular projection with the given reference-latitude cosine.
// Euclidean distances in the projected plane approximate true distances
// for points near the reference latitude.
func Project(p LatLng, cosRefLat float64) (x, y float64) {
	return p.Lng * cosRefLat, p.Lat
}

// PlanarMeters converts a Euclidean distance in projected degree space
// to meters.
func PlanarMeters(d float64) float64 {
	return d * degToMeters
}
