// Package kernel implements the Green's function shared by the
// equivalent-layer fitter and predictor: the Euclidean distance between an
// observation point and a point source, and its inverse.
package kernel

import (
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Distance returns the Euclidean distance between two points in Cartesian
// (easting, northing, vertical) space.
func Distance(p, q vec3d.T) float64 {
	d := vec3d.Sub(&p, &q)
	return d.Length()
}

// Greens evaluates the inverse-distance Green's function between an
// observation point and a point source. It is undefined for coincident
// points; the default point placement keeps every source strictly below its
// observation so the two never coincide.
func Greens(p, q vec3d.T) float64 {
	return 1 / Distance(p, q)
}
