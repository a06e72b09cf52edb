package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "KLCC to Petaling Jaya",
			lat1: 3.1578, lon1: 101.7123, // Petronas Towers
			lat2: 3.1073, lon2: 101.6067, // PJ city centre
			wantMeters:       13_000, // ~13 km great-circle
			tolerancePercent: 2,
		},
		{
			name: "Same point",
			lat1: 3.1390, lon1: 101.6869,
			lat2: 3.1390, lon2: 101.6869,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500, // ~343.5 km
			tolerancePercent: 1,
		},
		{
			name: "Short distance (~100m)",
			lat1: 3.1390, lon1: 101.6869,
			lat2: 3.1399, lon2: 101.6869,
			wantMeters:       100,
			tolerancePercent: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.1f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestEquirectangularMatchesHaversineAtShortRange(t *testing.T) {
	// Pairs within a few km around Kuala Lumpur.
	pairs := [][4]float64{
		{3.1390, 101.6869, 3.1421, 101.6912},
		{3.1390, 101.6869, 3.1200, 101.7000},
		{3.0500, 101.5800, 3.0700, 101.6100},
	}
	for _, p := range pairs {
		h := Haversine(p[0], p[1], p[2], p[3])
		e := EquirectangularDist(p[0], p[1], p[2], p[3])
		if math.Abs(h-e)/h > 0.005 {
			t.Errorf("equirectangular %f vs haversine %f diverge >0.5%%", e, h)
		}
	}
}

func TestValid(t *testing.T) {
	valid := []LatLng{{0, 0}, {-90, -180}, {90, 180}, {3.139, 101.6869}}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("%v should be valid", p)
		}
	}
	invalid := []LatLng{
		{91, 0}, {-91, 0}, {0, 181}, {0, -181},
		{math.NaN(), 0}, {0, math.Inf(1)},
	}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("%v should be invalid", p)
		}
	}
}

func TestProjectPreservesOrdering(t *testing.T) {
	cosRef := math.Cos(3.14 * math.Pi / 180)
	q := LatLng{3.1390, 101.6869}
	near := LatLng{3.1395, 101.6875}
	far := LatLng{3.2000, 101.7500}

	qx, qy := Project(q, cosRef)
	nx, ny := Project(near, cosRef)
	fx, fy := Project(far, cosRef)

	dNear := math.Hypot(nx-qx, ny-qy)
	dFar := math.Hypot(fx-qx, fy-qy)
	if dNear >= dFar {
		t.Fatalf("projection broke distance ordering: near=%f far=%f", dNear, dFar)
	}

	// Planar meters should track haversine meters closely at this scale.
	gotM := PlanarMeters(dNear)
	wantM := Dist(q, near)
	if math.Abs(gotM-wantM)/wantM > 0.01 {
		t.Errorf("PlanarMeters = %f, haversine = %f", gotM, wantM)
	}
}
