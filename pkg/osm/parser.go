// Package osm loads a routable road network graph from OpenStreetMap PBF data.
package osm

import (
	"context"
	"io"
	"log"
	"math"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"

	"route_finder/pkg/geo"
	"route_finder/pkg/graph"
)

// NetworkType selects which ways are traversable.
type NetworkType string

const (
	NetworkDrive NetworkType = "drive"
	NetworkWalk  NetworkType = "walk"
	NetworkBike  NetworkType = "bike"
)

// driveHighways lists highway tag values accessible by car.
var driveHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// walkHighways adds pedestrian infrastructure and drops motorways.
var walkHighways = map[string]bool{
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
	"pedestrian":     true,
	"footway":        true,
	"path":           true,
	"steps":          true,
	"track":          true,
}

// bikeHighways: drivable roads minus motorways, plus cycleways and paths.
var bikeHighways = map[string]bool{
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
	"cycleway":       true,
	"path":           true,
	"track":          true,
}

func (nt NetworkType) highways() map[string]bool {
	switch nt {
	case NetworkWalk:
		return walkHighways
	case NetworkBike:
		return bikeHighways
	default:
		return driveHighways
	}
}

// accessible returns true if the way is traversable for the network type.
func (nt NetworkType) accessible(tags osm.Tags) bool {
	if !nt.highways()[tags.Find("highway")] {
		return false
	}

	// Skip area highways (pedestrian plazas mapped as ways).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}

	switch nt {
	case NetworkDrive:
		if tags.Find("motor_vehicle") == "no" {
			return false
		}
	case NetworkWalk:
		if tags.Find("foot") == "no" {
			return false
		}
	case NetworkBike:
		if tags.Find("bicycle") == "no" {
			return false
		}
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway
// tags. Pedestrians ignore oneway restrictions.
func directionFlags(tags osm.Tags, nt NetworkType) (forward, backward bool) {
	forward = true
	backward = true

	if nt == NetworkWalk {
		return forward, backward
	}

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Direction changes with time of day, skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// wayInfo holds parsed way data collected during pass 1.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

// ParseOptions configures the parser. A zero Center/RadiusMeters disables the
// radius filter; an empty Network defaults to drive.
type ParseOptions struct {
	Center       geo.LatLng
	RadiusMeters float64
	Network      NetworkType
}

// Parse reads an OSM PBF stream and returns builder input for the requested
// network around the center point. Ways are split at junctions (nodes shared
// by more than one way, and way endpoints); nodes between junctions become
// edge shape geometry rather than graph nodes.
//
// The reader is consumed twice (ways, then node coordinates), so it must
// implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opt ParseOptions) (*graph.Input, error) {
	if opt.Network == "" {
		opt.Network = NetworkDrive
	}

	// Pass 1: scan ways, collect node use counts to find junctions.
	useCount := make(map[osm.NodeID]int)
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}

		if !opt.Network.accessible(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		fwd, bwd := directionFlags(w.Tags, opt.Network)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			useCount[wn.ID]++
		}
		// Way endpoints are always junctions, even when used once.
		useCount[nodeIDs[0]]++
		useCount[nodeIDs[len(nodeIDs)-1]]++

		ways = append(ways, wayInfo{NodeIDs: nodeIDs, Forward: fwd, Backward: bwd})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, errors.Wrap(err, "pass 1 (ways)")
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d ways, %d referenced nodes", len(ways), len(useCount))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek for pass 2")
	}

	nodeLat := make(map[osm.NodeID]float64, len(useCount))
	nodeLon := make(map[osm.NodeID]float64, len(useCount))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := useCount[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, errors.Wrap(err, "pass 2 (nodes)")
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(nodeLat))

	return assemble(ways, useCount, nodeLat, nodeLon, opt), nil
}

// assemble splits ways into junction-to-junction edges and produces builder
// input. Separated from Parse so the splitting and filtering logic is
// testable without a PBF stream.
func assemble(ways []wayInfo, useCount map[osm.NodeID]int, nodeLat, nodeLon map[osm.NodeID]float64, opt ParseOptions) *graph.Input {
	useRadius := opt.RadiusMeters > 0

	inRadius := func(id osm.NodeID) bool {
		if !useRadius {
			return true
		}
		return geo.Haversine(opt.Center.Lat, opt.Center.Lng, nodeLat[id], nodeLon[id]) <= opt.RadiusMeters
	}

	in := &graph.Input{
		NodeLat: make(map[int64]float64),
		NodeLon: make(map[int64]float64),
	}
	var skippedEdges, radiusFiltered int

	addEdge := func(from, to osm.NodeID, weightMM uint32, shapeLats, shapeLons []float64) {
		in.Edges = append(in.Edges, graph.InputEdge{
			From:      int64(from),
			To:        int64(to),
			WeightMM:  weightMM,
			ShapeLats: shapeLats,
			ShapeLons: shapeLons,
		})
		in.NodeLat[int64(from)] = nodeLat[from]
		in.NodeLon[int64(from)] = nodeLon[from]
		in.NodeLat[int64(to)] = nodeLat[to]
		in.NodeLon[int64(to)] = nodeLon[to]
	}

	// Split each way into edges between consecutive junction nodes.
	for _, w := range ways {
		segStart := 0
		for i := 1; i < len(w.NodeIDs); i++ {
			id := w.NodeIDs[i]
			isJunction := i == len(w.NodeIDs)-1 || useCount[id] > 1
			if !isJunction {
				continue
			}

			chain := w.NodeIDs[segStart : i+1]
			segStart = i

			complete := true
			for _, cid := range chain {
				if _, ok := nodeLat[cid]; !ok {
					complete = false
					break
				}
			}
			if !complete {
				skippedEdges++
				continue
			}

			from := chain[0]
			to := chain[len(chain)-1]
			if !inRadius(from) || !inRadius(to) {
				radiusFiltered++
				continue
			}

			var meters float64
			for k := 0; k < len(chain)-1; k++ {
				meters += geo.Haversine(
					nodeLat[chain[k]], nodeLon[chain[k]],
					nodeLat[chain[k+1]], nodeLon[chain[k+1]])
			}
			weightMM := uint32(math.Round(meters * 1000))
			if weightMM == 0 {
				weightMM = 1 // avoid zero-weight edges
			}

			// Interior chain nodes become shape geometry.
			var shapeLats, shapeLons []float64
			if len(chain) > 2 {
				shapeLats = make([]float64, 0, len(chain)-2)
				shapeLons = make([]float64, 0, len(chain)-2)
				for _, cid := range chain[1 : len(chain)-1] {
					shapeLats = append(shapeLats, nodeLat[cid])
					shapeLons = append(shapeLons, nodeLon[cid])
				}
			}

			if w.Forward {
				addEdge(from, to, weightMM, shapeLats, shapeLons)
			}
			if w.Backward {
				revLats, revLons := reverseShape(shapeLats, shapeLons)
				addEdge(to, from, weightMM, revLats, revLons)
			}
		}
	}

	if skippedEdges > 0 {
		log.Printf("Warning: skipped %d edges due to missing node coordinates", skippedEdges)
	}
	if radiusFiltered > 0 {
		log.Printf("Filtered %d edges outside %.0fm radius", radiusFiltered, opt.RadiusMeters)
	}
	log.Printf("Built %d directed edges", len(in.Edges))

	return in
}

func reverseShape(lats, lons []float64) ([]float64, []float64) {
	if len(lats) == 0 {
		return nil, nil
	}
	rl := make([]float64, len(lats))
	ro := make([]float64, len(lons))
	for i := range lats {
		rl[len(lats)-1-i] = lats[i]
		ro[len(lons)-1-i] = lons[i]
	}
	return rl, ro
}
