// Package render turns route results into artifacts an external map layer can
// display: GeoJSON for programmatic consumers, a Leaflet page for browsers.
package render

import (
	geojson "github.com/paulmach/go.geojson"

	"route_finder/pkg/geo"
)

// Endpoint is a labeled route endpoint.
type Endpoint struct {
	Label      string
	Coordinate geo.LatLng
}

// RouteFeatureCollection builds a GeoJSON FeatureCollection for a route:
// one LineString for the geometry plus two labeled Points for the endpoints.
func RouteFeatureCollection(geometry []geo.LatLng, distanceMeters float64, start, end Endpoint) *geojson.FeatureCollection {
	coords := make([][]float64, len(geometry))
	for i, p := range geometry {
		coords[i] = []float64{p.Lng, p.Lat} // GeoJSON is lon-first
	}

	line := geojson.NewLineStringFeature(coords)
	line.SetProperty("distance_meters", distanceMeters)

	startPt := geojson.NewPointFeature([]float64{start.Coordinate.Lng, start.Coordinate.Lat})
	startPt.SetProperty("name", start.Label)
	startPt.SetProperty("kind", "start")

	endPt := geojson.NewPointFeature([]float64{end.Coordinate.Lng, end.Coordinate.Lat})
	endPt.SetProperty("name", end.Label)
	endPt.SetProperty("kind", "end")

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(line)
	fc.AddFeature(startPt)
	fc.AddFeature(endPt)
	return fc
}
