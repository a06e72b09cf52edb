// Package spatial maps arbitrary coordinates to the nearest road network node.
package spatial

import (
	"math"

	"github.com/tidwall/rtree"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// Index answers nearest-node queries over a graph's node set.
//
// Nodes are stored in an R-tree as points in an equirectangular projection
// anchored at the graph's mean latitude, so Euclidean distance in tree space
// tracks true ground distance across the graph's extent. The index is built
// once from the immutable node set and is safe for concurrent queries.
type Index struct {
	tr     rtree.RTreeG[uint32]
	g      *graph.Graph
	cosLat float64
}

// NewIndex builds a spatial index over the graph's nodes.
func NewIndex(g *graph.Graph) *Index {
	idx := &Index{g: g, cosLat: 1}

	if g.NumNodes > 0 {
		var sum float64
		for _, lat := range g.NodeLat {
			sum += lat
		}
		idx.cosLat = math.Cos(sum / float64(g.NumNodes) * math.Pi / 180)

		for i := uint32(0); i < g.NumNodes; i++ {
			x, y := geo.Project(geo.LatLng{Lat: g.NodeLat[i], Lng: g.NodeLon[i]}, idx.cosLat)
			pt := [2]float64{x, y}
			idx.tr.Insert(pt, pt, i)
		}
	}

	return idx
}

// Nearest returns the node whose coordinate is closest to p, along with the
// great-circle distance to it in meters. Returns graph.ErrEmptyGraph when
// the underlying graph has no nodes.
func (idx *Index) Nearest(p geo.LatLng) (uint32, float64, error) {
	if idx.tr.Len() == 0 {
		return 0, 0, graph.ErrEmptyGraph
	}

	x, y := geo.Project(p, idx.cosLat)
	pt := [2]float64{x, y}

	var node uint32
	found := false
	idx.tr.Nearby(
		rtree.BoxDist[float64, uint32](pt, pt, nil),
		func(min, max [2]float64, data uint32, dist float64) bool {
			node = data
			found = true
			return false // first hit is the nearest point
		},
	)
	if !found {
		return 0, 0, graph.ErrEmptyGraph
	}

	meters := geo.Haversine(p.Lat, p.Lng, idx.g.NodeLat[node], idx.g.NodeLon[node])
	return node, meters, nil
}
