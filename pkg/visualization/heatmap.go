// Package visualization renders previews of evaluated equivalent-layer
// grids.
package visualization

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"eqlayer/pkg/gridder"
)

// heatGrid adapts an evaluated grid to the plotter.GridXYZ interface.
type heatGrid struct {
	g *gridder.Grid
}

func (h heatGrid) Dims() (c, r int)   { return len(h.g.Easting), len(h.g.Northing) }
func (h heatGrid) Z(c, r int) float64 { return h.g.Value(c, r) }
func (h heatGrid) X(c int) float64    { return h.g.Easting[c] }
func (h heatGrid) Y(r int) float64    { return h.g.Northing[r] }

// SaveHeatmap writes a PNG heatmap of the evaluated grid, easting on the
// horizontal axis and northing on the vertical.
func SaveHeatmap(g *gridder.Grid, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Easting"
	p.Y.Label.Text = "Northing"

	hm := plotter.NewHeatMap(heatGrid{g: g}, palette.Heat(12, 1))
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
