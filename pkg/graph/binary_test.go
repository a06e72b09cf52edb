package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBinaryRoundTrip(t *testing.T) {
	g := Build(testInput())

	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if got.NumNodes != g.NumNodes || got.NumEdges != g.NumEdges {
		t.Fatalf("sizes differ: got %d/%d, want %d/%d",
			got.NumNodes, got.NumEdges, g.NumNodes, g.NumEdges)
	}
	for i := range g.Head {
		if got.Head[i] != g.Head[i] || got.Weight[i] != g.Weight[i] {
			t.Fatalf("edge %d differs: got (%d,%d), want (%d,%d)",
				i, got.Head[i], got.Weight[i], g.Head[i], g.Weight[i])
		}
	}
	for i := range g.NodeLat {
		if got.NodeLat[i] != g.NodeLat[i] || got.NodeLon[i] != g.NodeLon[i] {
			t.Fatalf("node %d coords differ", i)
		}
	}
}

func TestBinaryRoundTripWithGeometry(t *testing.T) {
	in := testInput()
	in.Edges[0].ShapeLats = []float64{3.104, 3.106}
	in.Edges[0].ShapeLons = []float64{101.6001, 101.6002}
	g := Build(in)

	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	got, err := ReadBinary(path)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if len(got.GeoShapeLat) != len(g.GeoShapeLat) {
		t.Fatalf("geometry length %d, want %d", len(got.GeoShapeLat), len(g.GeoShapeLat))
	}
	for i := range g.GeoShapeLat {
		if got.GeoShapeLat[i] != g.GeoShapeLat[i] || got.GeoShapeLon[i] != g.GeoShapeLon[i] {
			t.Fatalf("geometry point %d differs", i)
		}
	}
}

func TestBinaryDetectsCorruption(t *testing.T) {
	g := Build(testInput())

	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := WriteBinary(path, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	// Flip a byte in the middle of the file.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)/2] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadBinary(path); err == nil {
		t.Fatal("corrupted file should fail to load")
	}
}

func TestBinaryRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.bin")
	if err := os.WriteFile(path, []byte("NOTAGRAPHFILE_________"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadBinary(path); err == nil {
		t.Fatal("bogus file should fail to load")
	}
}
