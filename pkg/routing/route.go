package routing

import (
	"errors"
	"fmt"
	"iter"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// ErrDisconnectedPath is returned when a supplied path references an edge the
// graph does not contain. Paths produced by ShortestPath never trigger it;
// seeing it for an externally supplied path indicates a loader or caller bug.
var ErrDisconnectedPath = errors.New("path references missing edge")

// TotalDistance sums the cost of every edge traversed by path, using the same
// weight function the search used (nil means EdgeLengthMeters). A
// single-element path has distance 0.
func TotalDistance(g *graph.Graph, path []uint32, weight WeightFunc) (float64, error) {
	if weight == nil {
		weight = EdgeLengthMeters
	}

	var total float64
	for i := 0; i < len(path)-1; i++ {
		e := g.FindEdge(path[i], path[i+1])
		if e == graph.NoEdge {
			return 0, fmt.Errorf("%w: %d to %d", ErrDisconnectedPath, path[i], path[i+1])
		}
		total += weight(g, e)
	}
	return total, nil
}

// Polyline returns the route geometry for path as a lazy sequence of
// coordinates: one per node in path order, with each traversed edge's
// intermediate shape points interleaved in traversal order. The sequence is
// finite, restartable, and yields identical output on every iteration.
//
// An edge missing from the graph contributes only its endpoint coordinates;
// consistency of the path itself is TotalDistance's concern.
func Polyline(g *graph.Graph, path []uint32) iter.Seq[geo.LatLng] {
	return func(yield func(geo.LatLng) bool) {
		if len(path) == 0 {
			return
		}
		if !yield(geo.LatLng{Lat: g.NodeLat[path[0]], Lng: g.NodeLon[path[0]]}) {
			return
		}
		for i := 0; i < len(path)-1; i++ {
			e := g.FindEdge(path[i], path[i+1])
			if e != graph.NoEdge && g.GeoFirstOut != nil {
				for k := g.GeoFirstOut[e]; k < g.GeoFirstOut[e+1]; k++ {
					if !yield(geo.LatLng{Lat: g.GeoShapeLat[k], Lng: g.GeoShapeLon[k]}) {
						return
					}
				}
			}
			if !yield(geo.LatLng{Lat: g.NodeLat[path[i+1]], Lng: g.NodeLon[path[i+1]]}) {
				return
			}
		}
	}
}

// PolylinePoints collects Polyline into a slice for callers that need
// random access or JSON encoding.
func PolylinePoints(g *graph.Graph, path []uint32) []geo.LatLng {
	pts := make([]geo.LatLng, 0, len(path))
	for p := range Polyline(g, path) {
		pts = append(pts, p)
	}
	return pts
}
