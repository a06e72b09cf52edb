// Package graph holds the read-only road network graph used for routing.
package graph

import (
	"errors"
	"fmt"
)

// ErrEmptyGraph is returned when a graph has no nodes or fails validation.
var ErrEmptyGraph = errors.New("empty or invalid graph")

// NoEdge is the sentinel returned by FindEdge when no edge connects two nodes.
const NoEdge = ^uint32(0)

// Graph represents a directed road network in CSR (Compressed Sparse Row)
// format. It is built once by the loader and never mutated afterwards, so a
// single instance may be shared by any number of concurrent queries.
type Graph struct {
	NumNodes uint32
	NumEdges uint32
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32  // len: NumEdges; target node for each edge
	Weight   []uint32  // len: NumEdges; edge length in millimeters
	NodeLat  []float64 // len: NumNodes
	NodeLon  []float64 // len: NumNodes

	// Edge geometry: intermediate shape nodes for rendering.
	// GeoFirstOut[i]..GeoFirstOut[i+1] indexes into GeoShapeLat/Lon for edge i.
	GeoFirstOut []uint32  // len: NumEdges + 1
	GeoShapeLat []float64 // flattened intermediate lat coords
	GeoShapeLon []float64 // flattened intermediate lon coords
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// FindEdge returns the index of an edge from u to v, or NoEdge if none exists.
// Parallel edges are possible after OSM import; the lowest-weight one wins
// so distances derived from a path are never overstated.
func (g *Graph) FindEdge(u, v uint32) uint32 {
	best := NoEdge
	start, end := g.EdgesFrom(u)
	for e := start; e < end; e++ {
		if g.Head[e] == v && (best == NoEdge || g.Weight[e] < g.Weight[best]) {
			best = e
		}
	}
	return best
}

// EdgeLengthMeters returns the length of edge e in meters.
func (g *Graph) EdgeLengthMeters(e uint32) float64 {
	return float64(g.Weight[e]) / 1000.0
}

// Validate checks the structural invariants the routing core relies on:
// non-empty node set, monotonic CSR offsets, edge heads in range, and
// geometry offsets aligned with the edge count. A graph that fails any of
// these is rejected with ErrEmptyGraph so a query never runs on bad data.
func (g *Graph) Validate() error {
	if g.NumNodes == 0 {
		return ErrEmptyGraph
	}
	if uint32(len(g.FirstOut)) != g.NumNodes+1 {
		return fmt.Errorf("%w: FirstOut length %d != NumNodes+1 %d", ErrEmptyGraph, len(g.FirstOut), g.NumNodes+1)
	}
	if g.FirstOut[g.NumNodes] != g.NumEdges || uint32(len(g.Head)) != g.NumEdges || uint32(len(g.Weight)) != g.NumEdges {
		return fmt.Errorf("%w: edge arrays inconsistent with NumEdges %d", ErrEmptyGraph, g.NumEdges)
	}
	if uint32(len(g.NodeLat)) != g.NumNodes || uint32(len(g.NodeLon)) != g.NumNodes {
		return fmt.Errorf("%w: coordinate arrays inconsistent with NumNodes %d", ErrEmptyGraph, g.NumNodes)
	}
	for i := uint32(1); i <= g.NumNodes; i++ {
		if g.FirstOut[i] < g.FirstOut[i-1] {
			return fmt.Errorf("%w: FirstOut not monotonic at %d", ErrEmptyGraph, i)
		}
	}
	for i, h := range g.Head {
		if h >= g.NumNodes {
			return fmt.Errorf("%w: Head[%d]=%d >= NumNodes=%d", ErrEmptyGraph, i, h, g.NumNodes)
		}
	}
	if g.GeoFirstOut != nil {
		if uint32(len(g.GeoFirstOut)) != g.NumEdges+1 {
			return fmt.Errorf("%w: GeoFirstOut length %d != NumEdges+1 %d", ErrEmptyGraph, len(g.GeoFirstOut), g.NumEdges+1)
		}
		n := g.GeoFirstOut[g.NumEdges]
		if uint32(len(g.GeoShapeLat)) != n || uint32(len(g.GeoShapeLon)) != n {
			return fmt.Errorf("%w: geometry arrays inconsistent", ErrEmptyGraph)
		}
	}
	return nil
}
