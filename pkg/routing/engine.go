package routing

import (
	"context"
	"errors"
	"fmt"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
	"route_finder/pkg/spatial"
)

// ErrPointTooFar is returned when a query point is farther from the nearest
// network node than the engine's configured snap limit.
var ErrPointTooFar = errors.New("point too far from road network")

// RouteResult is the output of a route query.
type RouteResult struct {
	TotalDistanceMeters float64
	// Nodes is the traversed node sequence, origin first.
	Nodes []uint32
	// Geometry is the route polyline, ready for rendering.
	Geometry []geo.LatLng
	// StartSnapMeters / EndSnapMeters report how far each query point was
	// from the node it resolved to.
	StartSnapMeters float64
	EndSnapMeters   float64
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, start, end geo.LatLng) (*RouteResult, error)
}

// EngineConfig tunes an Engine. The zero value is usable.
type EngineConfig struct {
	// MaxSnapDistanceMeters rejects query points farther than this from the
	// nearest node with ErrPointTooFar. 0 disables the check.
	MaxSnapDistanceMeters float64
	// Search options applied to every query.
	Search Options
}

// Engine answers point-to-point queries over a single immutable graph.
// It holds no mutable state after construction, so one Engine serves any
// number of concurrent queries; per-query timeouts are the caller's ctx.
type Engine struct {
	g   *graph.Graph
	idx *spatial.Index
	cfg EngineConfig
}

// NewEngine validates the graph, builds the spatial index, and returns an
// engine ready for queries. A graph that fails validation is rejected here
// so no query ever observes it.
func NewEngine(g *graph.Graph, cfg EngineConfig) (*Engine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		g:   g,
		idx: spatial.NewIndex(g),
		cfg: cfg,
	}, nil
}

// Graph returns the engine's graph for read-only use.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Route resolves both coordinates to their nearest nodes, runs the
// shortest-path search between them, and assembles distance and geometry.
func (e *Engine) Route(ctx context.Context, start, end geo.LatLng) (*RouteResult, error) {
	origin, startSnap, err := e.idx.Nearest(start)
	if err != nil {
		return nil, err
	}
	destination, endSnap, err := e.idx.Nearest(end)
	if err != nil {
		return nil, err
	}

	if e.cfg.MaxSnapDistanceMeters > 0 {
		if startSnap > e.cfg.MaxSnapDistanceMeters {
			return nil, fmt.Errorf("%w: start is %.0fm away", ErrPointTooFar, startSnap)
		}
		if endSnap > e.cfg.MaxSnapDistanceMeters {
			return nil, fmt.Errorf("%w: end is %.0fm away", ErrPointTooFar, endSnap)
		}
	}

	path, err := ShortestPath(ctx, e.g, origin, destination, e.cfg.Search)
	if err != nil {
		return nil, err
	}

	total, err := TotalDistance(e.g, path, e.cfg.Search.Weight)
	if err != nil {
		return nil, err
	}

	return &RouteResult{
		TotalDistanceMeters: total,
		Nodes:               path,
		Geometry:            PolylinePoints(e.g, path),
		StartSnapMeters:     startSnap,
		EndSnapMeters:       endSnap,
	}, nil
}
