package eql

import (
	"gonum.org/v1/gonum/mat"

	"eqlayer/pkg/kernel"
)

// Jacobian assembles the dense sensitivity matrix of the layer: entry (i, j)
// is the Green's function between observation i and source j. The layer is
// linear in its coefficients, so this matrix doubles as the design matrix of
// the least-squares fit.
//
// Rows are independent and filled in parallel; workers <= 0 uses one
// goroutine per CPU. The matrix is rebuilt on every call, never cached.
// Callers guarantee consistent, non-empty coordinates and non-coincident
// point pairs.
func Jacobian(coords, points Coordinates, workers int) *mat.Dense {
	data := coords.points()
	sources := points.points()
	jac := mat.NewDense(len(data), len(sources), nil)
	forEachChunk(len(data), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			row := jac.RawRowView(i)
			for j, src := range sources {
				row[j] = kernel.Greens(data[i], src)
			}
		}
	})
	return jac
}
