// Package routing computes shortest paths over a road network graph and
// assembles them into reportable routes.
package routing

import (
	"context"
	"errors"
	"math"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// ErrNoRoute is returned when no directed route exists between the endpoints.
// It is an expected outcome on real road networks, not a failure of the search.
var ErrNoRoute = errors.New("no route found")

// ErrInvalidNode is returned when an endpoint is not a node of the graph.
// Seeing it means the caller wired the query incorrectly.
var ErrInvalidNode = errors.New("node not in graph")

const noNode = ^uint32(0) // sentinel for "no node"

// ctxCheckInterval controls how often the search polls ctx for cancellation.
const ctxCheckInterval = 128

// WeightFunc maps an edge to a non-negative cost. The default is the edge
// length in meters.
type WeightFunc func(g *graph.Graph, edge uint32) float64

// HeuristicFunc estimates the remaining cost from node to the destination.
// For the search to stay optimal the estimate must never exceed the true
// remaining cost.
type HeuristicFunc func(g *graph.Graph, node, destination uint32) float64

// EdgeLengthMeters is the default WeightFunc.
func EdgeLengthMeters(g *graph.Graph, edge uint32) float64 {
	return g.EdgeLengthMeters(edge)
}

// GreatCircleMeters is the default HeuristicFunc: straight-line distance to
// the destination. Edge lengths are ground distances, so a path can never be
// shorter than the straight line and the estimate is admissible.
func GreatCircleMeters(g *graph.Graph, node, destination uint32) float64 {
	return geo.Haversine(g.NodeLat[node], g.NodeLon[node],
		g.NodeLat[destination], g.NodeLon[destination])
}

// Options configures a shortest-path search.
type Options struct {
	// Weight maps an edge to its cost. Nil means EdgeLengthMeters.
	Weight WeightFunc
	// Heuristic guides the search toward the destination. Nil means
	// GreatCircleMeters when Weight is also nil; with a custom Weight and no
	// matching Heuristic the search runs with a zero heuristic (plain
	// Dijkstra), since the straight-line estimate is only admissible against
	// distance costs.
	Heuristic HeuristicFunc
	// MaxExpansions bounds the number of settled nodes; 0 means unlimited.
	// When exceeded the search aborts with ErrNoRoute. Callers use this
	// together with ctx deadlines to bound worst-case query cost.
	MaxExpansions int
}

// ShortestPath computes the minimum-cost node sequence from origin to
// destination using A* search.
//
// The returned path starts at origin and ends at destination; consecutive
// entries are always connected by an edge of g. If origin == destination the
// path has exactly one element. Cancellation of ctx is observed cooperatively
// and returns ctx.Err().
func ShortestPath(ctx context.Context, g *graph.Graph, origin, destination uint32, opts ...Options) ([]uint32, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	weight := opt.Weight
	heuristic := opt.Heuristic
	if weight == nil {
		weight = EdgeLengthMeters
		if heuristic == nil {
			heuristic = GreatCircleMeters
		}
	}
	if heuristic == nil {
		heuristic = func(*graph.Graph, uint32, uint32) float64 { return 0 }
	}

	if origin >= g.NumNodes {
		return nil, ErrInvalidNode
	}
	if destination >= g.NumNodes {
		return nil, ErrInvalidNode
	}

	if origin == destination {
		return []uint32{origin}, nil
	}

	// gScore holds the best known cost from origin; settled nodes are final
	// and never re-expanded. Stale heap entries (superseded by a cheaper
	// discovery) are skipped on pop.
	gScore := make([]float64, g.NumNodes)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	settled := make([]bool, g.NumNodes)
	pred := make([]uint32, g.NumNodes)
	for i := range pred {
		pred[i] = noNode
	}

	var frontier minHeap
	gScore[origin] = 0
	frontier.Push(origin, heuristic(g, origin, destination))

	expansions := 0
	for frontier.Len() > 0 {
		item := frontier.Pop()
		u := item.node
		if settled[u] {
			continue // stale entry
		}
		settled[u] = true

		if u == destination {
			return reconstruct(pred, origin, destination), nil
		}

		expansions++
		if expansions%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if opt.MaxExpansions > 0 && expansions > opt.MaxExpansions {
			return nil, ErrNoRoute
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if settled[v] {
				continue
			}
			newCost := gScore[u] + weight(g, e)
			if newCost < gScore[v] {
				gScore[v] = newCost
				pred[v] = u
				frontier.Push(v, newCost+heuristic(g, v, destination))
			}
		}
	}

	return nil, ErrNoRoute
}

// reconstruct walks predecessor pointers from destination back to origin and
// reverses the result.
func reconstruct(pred []uint32, origin, destination uint32) []uint32 {
	var path []uint32
	for node := destination; ; node = pred[node] {
		path = append(path, node)
		if node == origin {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
