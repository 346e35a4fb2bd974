package eql

import (
	"fmt"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"

	"eqlayer/pkg/kernel"
	"eqlayer/pkg/solver"
)

// Solver is the damped weighted least-squares capability the fitter
// delegates to. A nil weights slice means unit weights. Implementations
// must solve through a stable factorization and report a rank-deficient
// system rather than silently regularizing it.
type Solver interface {
	Solve(jac *mat.Dense, data, weights []float64, damping float64) ([]float64, error)
}

// Model configures an equivalent-layer fit. The zero value fits an undamped
// layer with the default depth factor and the Cholesky solver. A Model
// exposes only Fit; the resulting Fitted value carries the prediction and
// Jacobian operations, so an unfitted layer cannot be evaluated.
type Model struct {
	// Damping is the non-negative Tikhonov regularization parameter added
	// to the normal equations. Zero means no regularization; larger values
	// trade fit accuracy for coefficient stability.
	Damping float64

	// DepthFactor scales the nearest-neighbor distance when placing the
	// default point sources. Zero selects DefaultDepthFactor. Ignored when
	// Points is set.
	DepthFactor float64

	// Points optionally pins the source locations. When nil, one source is
	// placed beneath each observation by PlacePoints. User-supplied points
	// are taken verbatim; no coincidence check is performed.
	Points *Coordinates

	// Solver performs the least-squares solve. Nil selects solver.Cholesky.
	Solver Solver

	// Workers bounds the goroutines used for Jacobian assembly and
	// prediction. Zero means one per CPU.
	Workers int
}

// Fitted is the immutable result of a successful fit: the point source set,
// the index-aligned coefficient vector, and the horizontal region of the
// observations. All evaluation methods are pure functions of this state.
type Fitted struct {
	points  Coordinates
	sources []vec3d.T
	coefs   []float64
	region  Region
	workers int
}

// Fit estimates one coefficient per point source so the layer reproduces the
// observed data in the damped weighted least-squares sense. Weights may be
// nil for unit weights. On any error no fitted state is produced, so a
// previously obtained Fitted value is unaffected.
func (m Model) Fit(coords Coordinates, data, weights []float64) (*Fitted, error) {
	if !coords.Consistent() {
		return nil, fmt.Errorf("fit: coordinate arrays of unequal length: %w", solver.ErrDimensionMismatch)
	}
	if coords.Len() == 0 {
		return nil, fmt.Errorf("fit: empty observation set: %w", solver.ErrDimensionMismatch)
	}
	if len(data) != coords.Len() {
		return nil, fmt.Errorf("fit: %d data values for %d observation points: %w",
			len(data), coords.Len(), solver.ErrDimensionMismatch)
	}
	if weights != nil && len(weights) != coords.Len() {
		return nil, fmt.Errorf("fit: %d weights for %d observation points: %w",
			len(weights), coords.Len(), solver.ErrDimensionMismatch)
	}

	var points Coordinates
	if m.Points != nil {
		if !m.Points.Consistent() {
			return nil, fmt.Errorf("fit: point source arrays of unequal length: %w", solver.ErrDimensionMismatch)
		}
		points = *m.Points
	} else {
		depthFactor := m.DepthFactor
		if depthFactor == 0 {
			depthFactor = DefaultDepthFactor
		}
		points = PlacePoints(coords, depthFactor)
	}

	jac := Jacobian(coords, points, m.Workers)

	s := m.Solver
	if s == nil {
		s = solver.Cholesky{}
	}
	coefs, err := s.Solve(jac, data, weights, m.Damping)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	return &Fitted{
		points:  points,
		sources: points.points(),
		coefs:   coefs,
		region:  RegionOf(coords),
		workers: m.Workers,
	}, nil
}

// Points returns a copy of the point source set of the layer.
func (f *Fitted) Points() Coordinates {
	out := Coordinates{
		Easting:  make([]float64, len(f.points.Easting)),
		Northing: make([]float64, len(f.points.Northing)),
		Vertical: make([]float64, len(f.points.Vertical)),
	}
	copy(out.Easting, f.points.Easting)
	copy(out.Northing, f.points.Northing)
	copy(out.Vertical, f.points.Vertical)
	return out
}

// Coefficients returns a copy of the fitted coefficient vector, index-aligned
// with the point source set.
func (f *Fitted) Coefficients() []float64 {
	out := make([]float64, len(f.coefs))
	copy(out, f.coefs)
	return out
}

// Region returns the horizontal bounding box of the observations the layer
// was fitted to.
func (f *Fitted) Region() Region { return f.region }

// Predict evaluates the layer at the query coordinates, accumulating the
// weighted Green's-function contribution of every source at every query
// point. Query points are independent and evaluated in parallel.
func (f *Fitted) Predict(coords Coordinates) ([]float64, error) {
	if !coords.Consistent() {
		return nil, fmt.Errorf("predict: coordinate arrays of unequal length: %w", solver.ErrDimensionMismatch)
	}
	queries := coords.points()
	result := make([]float64, len(queries))
	forEachChunk(len(queries), f.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum float64
			for j, src := range f.sources {
				sum += f.coefs[j] * kernel.Greens(queries[i], src)
			}
			result[i] = sum
		}
	})
	return result, nil
}

// Jacobian builds the sensitivity matrix of the layer's sources at the given
// coordinates. See the package-level Jacobian function. An empty query set is
// an error: a dense matrix cannot have a zero dimension.
func (f *Fitted) Jacobian(coords Coordinates) (*mat.Dense, error) {
	if !coords.Consistent() {
		return nil, fmt.Errorf("jacobian: coordinate arrays of unequal length: %w", solver.ErrDimensionMismatch)
	}
	if coords.Len() == 0 {
		return nil, fmt.Errorf("jacobian: empty query coordinates: %w", solver.ErrDimensionMismatch)
	}
	return Jacobian(coords, f.points, f.workers), nil
}
