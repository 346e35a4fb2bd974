// Package eql fits an equivalent layer of point sources to scattered
// observations of a harmonic potential field and evaluates the fitted layer
// at arbitrary locations. The layer is linear in its coefficients, so fitting
// reduces to a damped weighted least-squares solve against the dense
// Green's-function Jacobian.
package eql

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Coordinates describes a set of points in Cartesian space as three
// equal-length arrays in (easting, northing, vertical) order. The same type
// is used for observation points, point sources and prediction queries.
type Coordinates struct {
	Easting  []float64
	Northing []float64
	Vertical []float64
}

// Len returns the number of points described.
func (c Coordinates) Len() int { return len(c.Easting) }

// Consistent reports whether the three coordinate arrays have equal length.
func (c Coordinates) Consistent() bool {
	return len(c.Northing) == len(c.Easting) && len(c.Vertical) == len(c.Easting)
}

// points gathers the three arrays into vector values for kernel evaluation.
// Requires consistent coordinates.
func (c Coordinates) points() []vec3d.T {
	pts := make([]vec3d.T, c.Len())
	for i := range pts {
		pts[i] = vec3d.T{c.Easting[i], c.Northing[i], c.Vertical[i]}
	}
	return pts
}

// Region is the axis-aligned horizontal bounding box of a set of points,
// ordered (west, east, south, north). It is captured once at fit time and
// serves as the default extent for gridding the fitted layer.
type Region struct {
	West  float64
	East  float64
	South float64
	North float64
}

// RegionOf computes the horizontal bounding box of the coordinates.
// The vertical coordinate does not participate.
func RegionOf(c Coordinates) Region {
	if c.Len() == 0 {
		return Region{}
	}
	r := Region{
		West:  c.Easting[0],
		East:  c.Easting[0],
		South: c.Northing[0],
		North: c.Northing[0],
	}
	for i := 1; i < c.Len(); i++ {
		e, n := c.Easting[i], c.Northing[i]
		if e < r.West {
			r.West = e
		}
		if e > r.East {
			r.East = e
		}
		if n < r.South {
			r.South = n
		}
		if n > r.North {
			r.North = n
		}
	}
	return r
}
