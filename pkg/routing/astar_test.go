package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// buildGridGraph creates a bidirectional grid road network around Kuala
// Lumpur with edge weights equal to the haversine distance between
// endpoints, so the straight-line heuristic is admissible by construction.
func buildGridGraph(rows, cols int) *graph.Graph {
	in := &graph.Input{
		NodeLat: map[int64]float64{},
		NodeLon: map[int64]float64{},
	}
	id := func(r, c int) int64 { return int64(r*cols + c + 1) }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			in.NodeLat[id(r, c)] = 3.10 + float64(r)*0.004
			in.NodeLon[id(r, c)] = 101.60 + float64(c)*0.004
		}
	}
	link := func(a, b int64) {
		d := geo.Haversine(in.NodeLat[a], in.NodeLon[a], in.NodeLat[b], in.NodeLon[b])
		w := uint32(math.Round(d * 1000))
		in.Edges = append(in.Edges,
			graph.InputEdge{From: a, To: b, WeightMM: w},
			graph.InputEdge{From: b, To: a, WeightMM: w},
		)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				link(id(r, c), id(r, c+1))
			}
			if r+1 < rows {
				link(id(r, c), id(r+1, c))
			}
		}
	}
	return graph.Build(in)
}

// plainDijkstra is the test oracle: textbook Dijkstra with a linear-scan
// frontier, returning the minimal cost in meters or +Inf if unreachable.
func plainDijkstra(g *graph.Graph, source, target uint32) float64 {
	dist := make([]float64, g.NumNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	type item struct {
		node uint32
		dist float64
	}
	pq := []item{{source, 0}}

	for len(pq) > 0 {
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].dist < pq[minIdx].dist {
				minIdx = i
			}
		}
		cur := pq[minIdx]
		pq[minIdx] = pq[len(pq)-1]
		pq = pq[:len(pq)-1]

		if cur.dist > dist[cur.node] {
			continue
		}

		start, end := g.EdgesFrom(cur.node)
		for e := start; e < end; e++ {
			v := g.Head[e]
			newDist := cur.dist + g.EdgeLengthMeters(e)
			if newDist < dist[v] {
				dist[v] = newDist
				pq = append(pq, item{v, newDist})
			}
		}
	}

	return dist[target]
}

func TestShortestPathMatchesDijkstraAllPairs(t *testing.T) {
	g := buildGridGraph(4, 4)
	ctx := context.Background()

	for s := uint32(0); s < g.NumNodes; s++ {
		for d := uint32(0); d < g.NumNodes; d++ {
			path, err := ShortestPath(ctx, g, s, d)
			if err != nil {
				t.Fatalf("s=%d d=%d: %v", s, d, err)
			}

			got, err := TotalDistance(g, path, nil)
			if err != nil {
				t.Fatalf("s=%d d=%d: %v", s, d, err)
			}
			want := plainDijkstra(g, s, d)
			if math.Abs(got-want) > 0.01 {
				t.Errorf("s=%d d=%d: A*=%f, Dijkstra=%f", s, d, got, want)
			}

			// Consecutive path nodes must be connected.
			for i := 0; i < len(path)-1; i++ {
				if g.FindEdge(path[i], path[i+1]) == graph.NoEdge {
					t.Errorf("s=%d d=%d: path hop %d→%d has no edge", s, d, path[i], path[i+1])
				}
			}
		}
	}
}

// fourCorners is the canonical quad: A(0,0), B(0,1), C(1,1), D(1,0) with
// A→B=100m, B→C=100m, A→D=300m, D→C=50m, all one-way.
func fourCorners() *graph.Graph {
	return graph.Build(&graph.Input{
		Edges: []graph.InputEdge{
			{From: 1, To: 2, WeightMM: 100_000}, // A→B
			{From: 2, To: 3, WeightMM: 100_000}, // B→C
			{From: 1, To: 4, WeightMM: 300_000}, // A→D
			{From: 4, To: 3, WeightMM: 50_000},  // D→C
		},
		NodeLat: map[int64]float64{1: 0, 2: 0, 3: 1, 4: 1},
		NodeLon: map[int64]float64{1: 0, 2: 1, 3: 1, 4: 0},
	})
}

func TestShortestPathPrefersCheaperDetour(t *testing.T) {
	g := fourCorners()

	// Node indices: ids were added in edge order, so A=0, B=1, C=2, D=3.
	path, err := ShortestPath(context.Background(), g, 0, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := []uint32{0, 1, 2} // A→B→C
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}

	dist, err := TotalDistance(g, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 200 {
		t.Errorf("distance = %f, want 200 (A→D→C would be 350)", dist)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	g := buildGridGraph(3, 3)

	path, err := ShortestPath(context.Background(), g, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 1 || path[0] != 4 {
		t.Fatalf("path = %v, want [4]", path)
	}

	dist, err := TotalDistance(g, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 0 {
		t.Errorf("distance = %f, want 0", dist)
	}
}

func TestShortestPathRespectsDirection(t *testing.T) {
	// One-way chain 0→1→2 plus a return edge only between 1 and 0.
	g := graph.Build(&graph.Input{
		Edges: []graph.InputEdge{
			{From: 10, To: 20, WeightMM: 100_000},
			{From: 20, To: 30, WeightMM: 100_000},
			{From: 20, To: 10, WeightMM: 100_000},
		},
		NodeLat: map[int64]float64{10: 3.100, 20: 3.101, 30: 3.102},
		NodeLon: map[int64]float64{10: 101.600, 20: 101.600, 30: 101.600},
	})

	if _, err := ShortestPath(context.Background(), g, 0, 2); err != nil {
		t.Fatalf("forward direction should be routable: %v", err)
	}

	// 2 has no outgoing edges: 2→0 must fail while 0→2 succeeded.
	_, err := ShortestPath(context.Background(), g, 2, 0)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestShortestPathIsolatedNode(t *testing.T) {
	// Node 99 is referenced only by a self-contained island pair, leaving it
	// unreachable from the main cluster.
	g := graph.Build(&graph.Input{
		Edges: []graph.InputEdge{
			{From: 1, To: 2, WeightMM: 100_000},
			{From: 2, To: 1, WeightMM: 100_000},
			{From: 99, To: 98, WeightMM: 100_000},
		},
		NodeLat: map[int64]float64{1: 3.10, 2: 3.11, 98: 3.90, 99: 3.91},
		NodeLon: map[int64]float64{1: 101.60, 2: 101.61, 98: 101.99, 99: 101.98},
	})

	_, err := ShortestPath(context.Background(), g, 0, 2)
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestShortestPathInvalidNode(t *testing.T) {
	g := buildGridGraph(2, 2)

	if _, err := ShortestPath(context.Background(), g, g.NumNodes, 0); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("bad origin: err = %v, want ErrInvalidNode", err)
	}
	if _, err := ShortestPath(context.Background(), g, 0, g.NumNodes+5); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("bad destination: err = %v, want ErrInvalidNode", err)
	}
}

func TestShortestPathDeterministic(t *testing.T) {
	// A grid has many equal-cost paths between opposite corners; the FIFO
	// tie-break must make repeated runs yield the identical node sequence.
	g := buildGridGraph(5, 5)
	ctx := context.Background()

	first, err := ShortestPath(ctx, g, 0, g.NumNodes-1)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := ShortestPath(ctx, g, 0, g.NumNodes-1)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("path length changed between runs: %d vs %d", len(again), len(first))
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("path diverged at %d: %v vs %v", i, again, first)
			}
		}
	}
}

func TestShortestPathCancellation(t *testing.T) {
	g := buildGridGraph(30, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ShortestPath(ctx, g, 0, g.NumNodes-1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestShortestPathExpansionBudget(t *testing.T) {
	g := buildGridGraph(10, 10)

	_, err := ShortestPath(context.Background(), g, 0, g.NumNodes-1, Options{MaxExpansions: 3})
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute when budget exhausted", err)
	}
}

func TestShortestPathCustomWeight(t *testing.T) {
	g := fourCorners()

	// Invert the economics: count hops instead of meters. A→D→C and A→B→C
	// both cost 2 hops; FIFO tie-break keeps the first-discovered (A→B edge
	// precedes A→D in CSR order, so B is discovered first).
	hops := func(*graph.Graph, uint32) float64 { return 1 }
	path, err := ShortestPath(context.Background(), g, 0, 2, Options{Weight: hops})
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 3 {
		t.Fatalf("path = %v, want 3 nodes", path)
	}

	dist, err := TotalDistance(g, path, hops)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 2 {
		t.Errorf("hop count = %f, want 2", dist)
	}
}
