package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
	"route_finder/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "graph.bin", "Output binary graph file path")
	center := flag.String("center", "", "Circular filter center: lat,lng (e.g. 3.1390,101.6869)")
	radius := flag.Float64("radius", 0, "Circular filter radius in meters (0 = no filter)")
	network := flag.String("network", "drive", "Road network type: drive, walk or bike")
	kl := flag.Bool("kl", false, "Shortcut for --center 3.1390,101.6869 --radius 30000 (Kuala Lumpur)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output graph.bin] [--kl | --center lat,lng --radius meters] [--network drive|walk|bike]")
		os.Exit(1)
	}

	opt := osm.ParseOptions{Network: osm.NetworkType(*network)}
	switch opt.Network {
	case osm.NetworkDrive, osm.NetworkWalk, osm.NetworkBike:
	default:
		log.Fatalf("Unknown network type %q (want drive, walk or bike)", *network)
	}

	if *kl {
		opt.Center = geo.LatLng{Lat: 3.1390, Lng: 101.6869}
		opt.RadiusMeters = 30000
		log.Println("Using Kuala Lumpur filter: center (3.1390, 101.6869), radius 30 km")
	} else if *center != "" {
		var lat, lng float64
		if _, err := fmt.Sscanf(*center, "%f,%f", &lat, &lng); err != nil {
			log.Fatalf("Invalid center format (expected lat,lng): %v", err)
		}
		c := geo.LatLng{Lat: lat, Lng: lng}
		if !c.Valid() {
			log.Fatalf("Center (%.4f, %.4f) is out of range", lat, lng)
		}
		if *radius <= 0 {
			log.Fatal("--center requires a positive --radius")
		}
		opt.Center = c
		opt.RadiusMeters = *radius
		log.Printf("Using filter: center (%.4f, %.4f), radius %.0f m", lat, lng, *radius)
	}

	start := time.Now()

	log.Printf("Loading %s network from %s...", opt.Network, *input)
	g, err := osm.Load(context.Background(), *input, opt)
	if err != nil {
		log.Fatalf("Failed to load OSM data: %v", err)
	}
	log.Printf("Graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Printf("Writing binary to %s...", *output)
	if err := graph.WriteBinary(*output, g); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}
