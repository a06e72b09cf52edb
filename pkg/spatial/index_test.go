package spatial

import (
	"errors"
	"math/rand"
	"testing"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// gridGraph builds a graph whose nodes form a rough grid around Kuala Lumpur.
// Edges are irrelevant for the index; only node coordinates matter.
func gridGraph(rows, cols int) *graph.Graph {
	in := &graph.Input{
		NodeLat: map[int64]float64{},
		NodeLon: map[int64]float64{},
	}
	id := func(r, c int) int64 { return int64(r*cols + c + 1) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			in.NodeLat[id(r, c)] = 3.0 + float64(r)*0.01
			in.NodeLon[id(r, c)] = 101.5 + float64(c)*0.01
			if c+1 < cols {
				in.Edges = append(in.Edges,
					graph.InputEdge{From: id(r, c), To: id(r, c+1), WeightMM: 1_113_000},
					graph.InputEdge{From: id(r, c+1), To: id(r, c), WeightMM: 1_113_000},
				)
			}
			if r+1 < rows {
				in.Edges = append(in.Edges,
					graph.InputEdge{From: id(r, c), To: id(r+1, c), WeightMM: 1_112_000},
					graph.InputEdge{From: id(r+1, c), To: id(r, c), WeightMM: 1_112_000},
				)
			}
		}
	}
	return graph.Build(in)
}

func TestNearestSelfMatch(t *testing.T) {
	g := gridGraph(5, 5)
	idx := NewIndex(g)

	// Querying with a node's own coordinate must return that node.
	for i := uint32(0); i < g.NumNodes; i++ {
		node, meters, err := idx.Nearest(geo.LatLng{Lat: g.NodeLat[i], Lng: g.NodeLon[i]})
		if err != nil {
			t.Fatalf("node %d: %v", i, err)
		}
		if node != i {
			t.Errorf("node %d: self-query returned %d", i, node)
		}
		if meters != 0 {
			t.Errorf("node %d: self-query distance %f, want 0", i, meters)
		}
	}
}

func TestNearestMatchesLinearScan(t *testing.T) {
	g := gridGraph(8, 8)
	idx := NewIndex(g)

	rng := rand.New(rand.NewSource(42))
	for range 200 {
		q := geo.LatLng{
			Lat: 2.98 + rng.Float64()*0.12,
			Lng: 101.48 + rng.Float64()*0.12,
		}

		got, _, err := idx.Nearest(q)
		if err != nil {
			t.Fatal(err)
		}

		// Brute-force oracle.
		want := uint32(0)
		best := geo.Haversine(q.Lat, q.Lng, g.NodeLat[0], g.NodeLon[0])
		for i := uint32(1); i < g.NumNodes; i++ {
			d := geo.Haversine(q.Lat, q.Lng, g.NodeLat[i], g.NodeLon[i])
			if d < best {
				best = d
				want = i
			}
		}

		if got != want {
			gotD := geo.Haversine(q.Lat, q.Lng, g.NodeLat[got], g.NodeLon[got])
			t.Errorf("query %v: got node %d (%.2fm), want %d (%.2fm)", q, got, gotD, want, best)
		}
	}
}

func TestNearestOffsetPoint(t *testing.T) {
	// Four corners around (0,0): nearest to (0.01, 0.01) must be the corner at the origin.
	in := &graph.Input{
		Edges: []graph.InputEdge{
			{From: 1, To: 2, WeightMM: 100_000},
			{From: 2, To: 3, WeightMM: 100_000},
			{From: 1, To: 4, WeightMM: 300_000},
			{From: 4, To: 3, WeightMM: 50_000},
		},
		NodeLat: map[int64]float64{1: 0, 2: 0, 3: 1, 4: 1},
		NodeLon: map[int64]float64{1: 0, 2: 1, 3: 1, 4: 0},
	}
	g := graph.Build(in)
	idx := NewIndex(g)

	node, _, err := idx.Nearest(geo.LatLng{Lat: 0.01, Lng: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeLat[node] != 0 || g.NodeLon[node] != 0 {
		t.Errorf("nearest to (0.01,0.01) is (%f,%f), want (0,0)",
			g.NodeLat[node], g.NodeLon[node])
	}
}

func TestNearestEmptyGraph(t *testing.T) {
	idx := NewIndex(&graph.Graph{})
	_, _, err := idx.Nearest(geo.LatLng{Lat: 3.14, Lng: 101.69})
	if !errors.Is(err, graph.ErrEmptyGraph) {
		t.Fatalf("err = %v, want ErrEmptyGraph", err)
	}
}
