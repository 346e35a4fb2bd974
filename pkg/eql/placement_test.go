package eql

import (
	"math"
	"math/rand"
	"testing"

	vec3d "github.com/flywave/go3d/float64/vec3"
)

// TestPlacePointsTwoObservations verifies the default placement on the
// simplest nontrivial layout: each source sits directly beneath its
// observation at a depth of depthFactor times the observation separation
func TestPlacePointsTwoObservations(t *testing.T) {
	coords := Coordinates{
		Easting:  []float64{0, 10},
		Northing: []float64{0, 0},
		Vertical: []float64{0, 0},
	}

	sources := PlacePoints(coords, 3)

	if sources.Len() != 2 {
		t.Fatalf("expected 2 sources, got %d", sources.Len())
	}
	for i := 0; i < 2; i++ {
		if sources.Easting[i] != coords.Easting[i] || sources.Northing[i] != coords.Northing[i] {
			t.Errorf("source %d should sit beneath its observation", i)
		}
		if math.Abs(sources.Vertical[i]-(-30)) > 1e-12 {
			t.Errorf("source %d: expected vertical -30, got %f", i, sources.Vertical[i])
		}
	}
}

// TestPlacePointsUsesStrictNearest verifies that each source depth uses the
// distance to the nearest other observation, not an arbitrary neighbor
func TestPlacePointsUsesStrictNearest(t *testing.T) {
	// Collinear with uneven gaps: nearest of the middle point is the left one.
	coords := Coordinates{
		Easting:  []float64{0, 1, 5},
		Northing: []float64{0, 0, 0},
		Vertical: []float64{2, 2, 2},
	}

	sources := PlacePoints(coords, 1)

	want := []float64{2 - 1, 2 - 1, 2 - 4}
	for i, w := range want {
		if math.Abs(sources.Vertical[i]-w) > 1e-12 {
			t.Errorf("source %d: expected vertical %f, got %f", i, w, sources.Vertical[i])
		}
	}
}

// TestPlacePointsSingleObservation verifies the fallback for a lone
// observation, which has no neighbor to measure a distance against
func TestPlacePointsSingleObservation(t *testing.T) {
	coords := Coordinates{
		Easting:  []float64{4},
		Northing: []float64{-2},
		Vertical: []float64{1},
	}

	sources := PlacePoints(coords, 3)

	want := 1 - 3*soloNearestDistance
	if math.Abs(sources.Vertical[0]-want) > 1e-12 {
		t.Errorf("expected vertical %f, got %f", want, sources.Vertical[0])
	}
}

// TestPlacePointsPure verifies that placement does not mutate its input
func TestPlacePointsPure(t *testing.T) {
	coords := Coordinates{
		Easting:  []float64{0, 1},
		Northing: []float64{0, 1},
		Vertical: []float64{0, 0},
	}

	PlacePoints(coords, 3)

	if coords.Vertical[0] != 0 || coords.Vertical[1] != 0 {
		t.Errorf("PlacePoints mutated its input coordinates")
	}
}

// TestNearestDistancesAgreement verifies that the kd-tree search returns the
// same distances as the brute-force search on a point set large enough to
// exercise the tree path
func TestNearestDistancesAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	n := kdtreeCutoff * 2
	pts := make([]vec3d.T, n)
	for i := range pts {
		pts[i] = vec3d.T{
			rng.Float64() * 100,
			rng.Float64() * 100,
			rng.Float64() * 10,
		}
	}

	brute := nearestBruteForce(pts)
	tree := nearestKDTree(pts)

	for i := range pts {
		if math.Abs(brute[i]-tree[i]) > 1e-9 {
			t.Fatalf("point %d: brute force %g, kd-tree %g", i, brute[i], tree[i])
		}
	}
}

// TestNearestDistancesDuplicates verifies that coincident observations report
// a zero nearest distance instead of skipping each other
func TestNearestDistancesDuplicates(t *testing.T) {
	pts := []vec3d.T{{1, 1, 0}, {1, 1, 0}, {5, 5, 0}}

	got := nearestBruteForce(pts)

	if got[0] != 0 || got[1] != 0 {
		t.Errorf("duplicate points should have zero nearest distance, got %v", got[:2])
	}
	want := math.Sqrt(32)
	if math.Abs(got[2]-want) > 1e-12 {
		t.Errorf("expected nearest distance %f, got %f", want, got[2])
	}
}
