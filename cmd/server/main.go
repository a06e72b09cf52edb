package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"route_finder/pkg/api"
	"route_finder/pkg/geo"
	"route_finder/pkg/geocode"
	"route_finder/pkg/graph"
	"route_finder/pkg/osm"
	"route_finder/pkg/routing"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph binary")
	pbfPath := flag.String("pbf", "", "Load directly from a .osm.pbf file instead of a graph binary")
	center := flag.String("center", "", "PBF circular filter center: lat,lng")
	radius := flag.Float64("radius", 0, "PBF circular filter radius in meters")
	network := flag.String("network", "drive", "PBF road network type: drive, walk or bike")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	maxSnap := flag.Float64("max-snap", 0, "Reject query points further than this many meters from the road network (0 = no limit)")
	geocodeURL := flag.String("geocode-url", geocode.DefaultBaseURL, "Nominatim base URL")
	geocodeAgent := flag.String("geocode-user-agent", "", "User-Agent for Nominatim requests (empty disables geocoding)")
	geocodeCountries := flag.String("geocode-countries", "my", "Comma-separated countrycodes filter for geocoding (empty = worldwide)")
	flag.Parse()

	start := time.Now()

	g, err := loadGraph(*graphPath, *pbfPath, *center, *radius, *network)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Println("Building spatial index...")
	engine, err := routing.NewEngine(g, routing.EngineConfig{MaxSnapDistanceMeters: *maxSnap})
	if err != nil {
		log.Fatalf("Failed to build routing engine: %v", err)
	}
	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	var geocoder api.Geocoder
	if *geocodeAgent != "" {
		client, err := geocode.NewClient(geocode.Config{
			BaseURL:      *geocodeURL,
			UserAgent:    *geocodeAgent,
			CountryCodes: *geocodeCountries,
		})
		if err != nil {
			log.Fatalf("Failed to configure geocoder: %v", err)
		}
		geocoder = client
	} else {
		log.Println("Geocoding disabled (set --geocode-user-agent to enable the form UI)")
	}

	cfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	cfg.CORSOrigin = *corsOrigin

	stats := api.StatsResponse{NumNodes: g.NumNodes, NumEdges: g.NumEdges}
	handlers := api.NewHandlers(engine, geocoder, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

func loadGraph(graphPath, pbfPath, center string, radius float64, network string) (*graph.Graph, error) {
	if pbfPath == "" {
		log.Printf("Loading graph from %s...", graphPath)
		return graph.ReadBinary(graphPath)
	}

	opt := osm.ParseOptions{Network: osm.NetworkType(network)}
	switch opt.Network {
	case osm.NetworkDrive, osm.NetworkWalk, osm.NetworkBike:
	default:
		return nil, fmt.Errorf("unknown network type %q", network)
	}
	if center != "" {
		var lat, lng float64
		if _, err := fmt.Sscanf(center, "%f,%f", &lat, &lng); err != nil {
			return nil, fmt.Errorf("invalid center %q: %v", center, err)
		}
		c := geo.LatLng{Lat: lat, Lng: lng}
		if !c.Valid() || radius <= 0 {
			return nil, fmt.Errorf("center (%.4f, %.4f) with radius %.0f is not a valid filter", lat, lng, radius)
		}
		opt.Center = c
		opt.RadiusMeters = radius
	}

	log.Printf("Loading %s network from %s...", opt.Network, pbfPath)
	return osm.Load(context.Background(), pbfPath, opt)
}
