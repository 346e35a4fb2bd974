// Package solver performs the damped weighted least-squares solves behind
// the equivalent-layer fitter. Given a design matrix J, data d, per-datum
// weights w and a damping scalar λ, both implementations minimize
//
//	‖W^(1/2)(Jc − d)‖² + λ‖c‖²
//
// through the normal equations (JᵀWJ + λI)c = JᵀWd, using a numerically
// stable factorization rather than an explicit inverse. Ill-conditioning is
// reported, never patched: no damping is ever injected on the caller's
// behalf.
package solver

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch is returned when the lengths of the data or
	// weight arrays disagree with the design matrix.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrSingularSystem is returned when the normal equations are
	// rank-deficient. The caller must supply damping or a better-separated
	// point set; retrying without changing either cannot succeed.
	ErrSingularSystem = errors.New("solver: singular normal equations")
)

// Cholesky solves the damped weighted normal equations by Cholesky
// factorization of the regularized normal matrix. This is the default
// capability used by the fitter.
type Cholesky struct{}

// Solve returns the coefficient vector for the given system. A nil weights
// slice means unit weights; damping zero means an ordinary weighted
// least-squares solve.
func (Cholesky) Solve(jac *mat.Dense, data, weights []float64, damping float64) ([]float64, error) {
	a, b, err := weightSystem(jac, data, weights, damping)
	if err != nil {
		return nil, err
	}
	_, nPoints := a.Dims()

	var normal mat.SymDense
	normal.SymOuterK(1, a.T())
	for j := 0; j < nPoints; j++ {
		normal.SetSym(j, j, normal.At(j, j)+damping)
	}

	var chol mat.Cholesky
	if !chol.Factorize(&normal) {
		return nil, fmt.Errorf("cholesky solve (damping=%g): %w", damping, ErrSingularSystem)
	}

	rhs := mat.NewVecDense(nPoints, nil)
	rhs.MulVec(a.T(), mat.NewVecDense(len(b), b))

	coefs := mat.NewVecDense(nPoints, nil)
	if err := chol.SolveVecTo(coefs, rhs); err != nil {
		return nil, fmt.Errorf("cholesky solve: %w", ErrSingularSystem)
	}
	out := make([]float64, nPoints)
	copy(out, coefs.RawVector().Data)
	return out, nil
}

// SVD solves the same weighted ridge problem through a thin singular value
// decomposition of the scaled design matrix. Slower than Cholesky but
// tolerant of much worse conditioning, it exists so the fitter's solver
// capability can be swapped without touching placement or Jacobian logic.
type SVD struct{}

// Solve returns the coefficient vector for the given system, applying the
// filter factors s/(s²+λ) to the singular spectrum. With damping zero a
// numerically rank-deficient spectrum is an error, not a truncation.
func (SVD) Solve(jac *mat.Dense, data, weights []float64, damping float64) ([]float64, error) {
	a, b, err := weightSystem(jac, data, weights, damping)
	if err != nil {
		return nil, err
	}
	nData, nPoints := a.Dims()

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("svd solve: factorization failed: %w", ErrSingularSystem)
	}
	s := svd.Values(nil)
	if len(s) == 0 {
		return nil, fmt.Errorf("svd solve: empty system: %w", ErrSingularSystem)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	larger := nData
	if nPoints > larger {
		larger = nPoints
	}
	tol := float64(larger) * s[0] * machineEpsilon

	coefs := make([]float64, nPoints)
	for k, sv := range s {
		if sv <= tol {
			if damping == 0 {
				return nil, fmt.Errorf("svd solve: rank-deficient spectrum: %w", ErrSingularSystem)
			}
			continue
		}
		proj := floats.Dot(mat.Col(nil, k, &u), b)
		factor := sv / (sv*sv + damping)
		for j := 0; j < nPoints; j++ {
			coefs[j] += v.At(j, k) * factor * proj
		}
	}
	return coefs, nil
}

const machineEpsilon = 2.220446049250313e-16

// weightSystem validates the system and folds the weights in, scaling row i
// of the design matrix and datum i by sqrt(w_i) so that AᵀA = JᵀWJ and
// Aᵀb = JᵀWd. The input matrix is never modified.
func weightSystem(jac *mat.Dense, data, weights []float64, damping float64) (*mat.Dense, []float64, error) {
	nData, _ := jac.Dims()
	if len(data) != nData {
		return nil, nil, fmt.Errorf("solve: %d data values for %d matrix rows: %w",
			len(data), nData, ErrDimensionMismatch)
	}
	if weights != nil && len(weights) != nData {
		return nil, nil, fmt.Errorf("solve: %d weights for %d data values: %w",
			len(weights), nData, ErrDimensionMismatch)
	}
	if damping < 0 || math.IsNaN(damping) {
		return nil, nil, fmt.Errorf("solve: damping must be non-negative, got %g", damping)
	}
	if weights == nil {
		return jac, data, nil
	}

	a := mat.DenseCopyOf(jac)
	b := make([]float64, nData)
	for i, w := range weights {
		s := math.Sqrt(w)
		floats.Scale(s, a.RawRowView(i))
		b[i] = s * data[i]
	}
	return a, b, nil
}
