package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"route_finder/pkg/geo"
)

// leafletPage draws the route polyline with start/end markers and fits the
// viewport to the route bounds.
var leafletPage = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Route Map</title>
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
  var route = {{.RouteJSON}};
  var map = L.map('map');
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);
  var line = L.polyline(route, {color: 'red', weight: 5, opacity: 0.8}).addTo(map);
  L.marker(route[0]).addTo(map).bindPopup({{.StartLabel}});
  L.marker(route[route.length - 1]).addTo(map).bindPopup({{.EndLabel}});
  map.fitBounds(line.getBounds(), {padding: [30, 30]});
</script>
</body>
</html>
`))

type leafletData struct {
	RouteJSON  template.JS
	StartLabel string
	EndLabel   string
}

// WriteLeafletHTML writes a self-contained HTML map page showing the route.
// The route must contain at least one coordinate.
func WriteLeafletHTML(w io.Writer, geometry []geo.LatLng, start, end Endpoint) error {
	if len(geometry) == 0 {
		return fmt.Errorf("render: empty route geometry")
	}

	coords := make([][2]float64, len(geometry))
	for i, p := range geometry {
		coords[i] = [2]float64{p.Lat, p.Lng} // Leaflet is lat-first
	}
	routeJSON, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("render: marshal route: %w", err)
	}

	return leafletPage.Execute(w, leafletData{
		RouteJSON:  template.JS(routeJSON),
		StartLabel: "Start: " + start.Label,
		EndLabel:   "End: " + end.Label,
	})
}
