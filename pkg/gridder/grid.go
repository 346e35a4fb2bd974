package gridder

import (
	"fmt"

	"eqlayer/pkg/eql"
)

// GridSpec describes a regular evaluation grid. A nil Region defaults to the
// region captured at fit time. Height is the constant vertical coordinate of
// all grid nodes, typically the observation height.
type GridSpec struct {
	Region  *eql.Region
	Spacing float64
	Height  float64
}

// Grid is a regular evaluation of the layer: axis coordinates plus values in
// row-major order, northing rows from south to north, easting columns from
// west to east.
type Grid struct {
	Region   eql.Region
	Spacing  float64
	Height   float64
	Easting  []float64
	Northing []float64
	Values   []float64
}

// Value returns the grid value at easting column i, northing row j.
func (g *Grid) Value(i, j int) float64 {
	return g.Values[j*len(g.Easting)+i]
}

// GridCoordinates expands a region into grid node coordinates at constant
// height. Nodes include both region edges; the last step is shortened when
// the spacing does not divide the extent evenly. Returns the scattered node
// coordinates plus the axis coordinates.
func GridCoordinates(region eql.Region, spacing, height float64) (eql.Coordinates, []float64, []float64) {
	east := axis(region.West, region.East, spacing)
	north := axis(region.South, region.North, spacing)

	n := len(east) * len(north)
	coords := eql.Coordinates{
		Easting:  make([]float64, 0, n),
		Northing: make([]float64, 0, n),
		Vertical: make([]float64, 0, n),
	}
	for _, y := range north {
		for _, x := range east {
			coords.Easting = append(coords.Easting, x)
			coords.Northing = append(coords.Northing, y)
			coords.Vertical = append(coords.Vertical, height)
		}
	}
	return coords, east, north
}

// Grid evaluates the fitted layer over a regular grid.
func (g *Gridder) Grid(spec GridSpec) (*Grid, error) {
	fitted, err := g.Fitted()
	if err != nil {
		return nil, err
	}
	if !(spec.Spacing > 0) {
		return nil, fmt.Errorf("grid: spacing must be positive, got %g", spec.Spacing)
	}
	region := fitted.Region()
	if spec.Region != nil {
		region = *spec.Region
	}

	coords, east, north := GridCoordinates(region, spec.Spacing, spec.Height)
	values, err := fitted.Predict(coords)
	if err != nil {
		return nil, err
	}
	return &Grid{
		Region:   region,
		Spacing:  spec.Spacing,
		Height:   spec.Height,
		Easting:  east,
		Northing: north,
		Values:   values,
	}, nil
}

// axis returns the coordinates from lo to hi in steps of spacing, always
// including both endpoints. The final step is shortened when spacing does
// not divide the extent evenly.
func axis(lo, hi, spacing float64) []float64 {
	if hi <= lo {
		return []float64{lo}
	}
	steps := int((hi - lo) / spacing)
	out := make([]float64, 0, steps+2)
	for k := 0; k <= steps; k++ {
		out = append(out, lo+float64(k)*spacing)
	}
	if last := out[len(out)-1]; hi-last > spacing*1e-9 {
		out = append(out, hi)
	} else {
		out[len(out)-1] = hi
	}
	return out
}
