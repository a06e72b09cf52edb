package osm

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"

	"route_finder/pkg/graph"
)

// Load parses an OSM PBF file and returns a validated, routable graph. It
// builds the CSR graph from the parsed ways and keeps only the largest
// connected component. An area with no usable roads yields
// graph.ErrEmptyGraph.
func Load(ctx context.Context, path string, opt ParseOptions) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open osm file")
	}
	defer f.Close()

	in, err := Parse(ctx, f, opt)
	if err != nil {
		return nil, errors.Wrap(err, "parse osm")
	}

	g := graph.Build(in)
	if g.NumNodes == 0 {
		return nil, graph.ErrEmptyGraph
	}
	log.Printf("Graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	component := graph.LargestComponent(g)
	if len(component) < int(g.NumNodes) {
		log.Printf("Largest component: %d of %d nodes (%.1f%%)",
			len(component), g.NumNodes, float64(len(component))/float64(g.NumNodes)*100)
		g = graph.FilterToComponent(g, component)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
