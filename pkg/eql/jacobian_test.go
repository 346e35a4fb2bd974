package eql

import (
	"math"
	"testing"
)

// TestJacobianShape verifies the matrix is always observations by sources
func TestJacobianShape(t *testing.T) {
	tests := []struct {
		nData, nPoints int
	}{
		{1, 1},
		{3, 1},
		{1, 4},
		{5, 5},
		{7, 2},
	}

	for _, tt := range tests {
		coords := lineCoordinates(tt.nData, 0)
		points := lineCoordinates(tt.nPoints, -10)
		jac := Jacobian(coords, points, 0)
		r, c := jac.Dims()
		if r != tt.nData || c != tt.nPoints {
			t.Errorf("expected %dx%d Jacobian, got %dx%d", tt.nData, tt.nPoints, r, c)
		}
	}
}

// TestJacobianSingleSource verifies the kernel column for three observations
// over one buried source
func TestJacobianSingleSource(t *testing.T) {
	coords := Coordinates{
		Easting:  []float64{0, 1, 2},
		Northing: []float64{0, 0, 0},
		Vertical: []float64{0, 0, 0},
	}
	points := Coordinates{
		Easting:  []float64{1},
		Northing: []float64{0},
		Vertical: []float64{-1},
	}

	jac := Jacobian(coords, points, 1)

	want := []float64{1 / math.Sqrt2, 1, 1 / math.Sqrt2}
	for i, w := range want {
		if math.Abs(jac.At(i, 0)-w) > 1e-12 {
			t.Errorf("row %d: expected %f, got %f", i, w, jac.At(i, 0))
		}
	}
}

// TestJacobianDeterministic verifies that repeated builds over the same
// inputs are identical, serial or parallel
func TestJacobianDeterministic(t *testing.T) {
	coords := lineCoordinates(20, 0)
	points := lineCoordinates(15, -5)

	serial := Jacobian(coords, points, 1)
	parallel := Jacobian(coords, points, 4)
	again := Jacobian(coords, points, 4)

	r, c := serial.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if serial.At(i, j) != parallel.At(i, j) || serial.At(i, j) != again.At(i, j) {
				t.Fatalf("Jacobian entry (%d,%d) differs between builds", i, j)
			}
		}
	}
}

// lineCoordinates lays n points along the easting axis at the given height.
func lineCoordinates(n int, height float64) Coordinates {
	c := Coordinates{
		Easting:  make([]float64, n),
		Northing: make([]float64, n),
		Vertical: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c.Easting[i] = float64(i) * 1.5
		c.Vertical[i] = height
	}
	return c
}
