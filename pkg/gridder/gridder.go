// Package gridder wraps the equivalent-layer core with the estimator
// lifecycle: input validation before the fit, a fitted-state guard for
// downstream callers, and regular-grid evaluation over the fitted region.
package gridder

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"eqlayer/pkg/eql"
	"eqlayer/pkg/solver"
)

// ErrNotFitted is returned when predict, jacobian or grid evaluation is
// requested before a successful fit.
var ErrNotFitted = errors.New("gridder: model has not been fitted")

// CheckFitInput validates that coordinate, data and weight arrays describe a
// consistent data set with strictly positive weights. The core consumes
// already-validated arrays, so every fit goes through here first.
func CheckFitInput(coords eql.Coordinates, data, weights []float64) error {
	if !coords.Consistent() {
		return fmt.Errorf("fit input: coordinate arrays of unequal length: %w", solver.ErrDimensionMismatch)
	}
	if coords.Len() == 0 {
		return fmt.Errorf("fit input: empty data set: %w", solver.ErrDimensionMismatch)
	}
	if len(data) != coords.Len() {
		return fmt.Errorf("fit input: %d data values for %d points: %w",
			len(data), coords.Len(), solver.ErrDimensionMismatch)
	}
	if weights != nil {
		if len(weights) != coords.Len() {
			return fmt.Errorf("fit input: %d weights for %d points: %w",
				len(weights), coords.Len(), solver.ErrDimensionMismatch)
		}
		for i, w := range weights {
			if !(w > 0) {
				return fmt.Errorf("fit input: weight %d is %g, must be positive", i, w)
			}
		}
	}
	return nil
}

// Gridder owns an equivalent-layer model and its current fitted state. The
// state is replaced as a single unit on each successful refit; a failed fit
// leaves the previous state callable. Safe for concurrent use.
type Gridder struct {
	model eql.Model

	mu     sync.RWMutex
	fitted *eql.Fitted
}

// New returns a gridder for the given model configuration.
func New(model eql.Model) *Gridder {
	return &Gridder{model: model}
}

// Fit validates the inputs, fits the layer and swaps in the new fitted
// state. On error the previous fitted state, if any, is untouched.
func (g *Gridder) Fit(coords eql.Coordinates, data, weights []float64) error {
	if err := CheckFitInput(coords, data, weights); err != nil {
		return err
	}
	fitted, err := g.model.Fit(coords, data, weights)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.fitted = fitted
	g.mu.Unlock()
	return nil
}

// Fitted returns the current fitted state, or ErrNotFitted before the first
// successful fit.
func (g *Gridder) Fitted() (*eql.Fitted, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.fitted == nil {
		return nil, ErrNotFitted
	}
	return g.fitted, nil
}

// Predict evaluates the fitted layer at the query coordinates.
func (g *Gridder) Predict(coords eql.Coordinates) ([]float64, error) {
	fitted, err := g.Fitted()
	if err != nil {
		return nil, err
	}
	return fitted.Predict(coords)
}

// Jacobian builds the sensitivity matrix of the fitted sources at the given
// coordinates.
func (g *Gridder) Jacobian(coords eql.Coordinates) (*mat.Dense, error) {
	fitted, err := g.Fitted()
	if err != nil {
		return nil, err
	}
	return fitted.Jacobian(coords)
}

// Score reports reproduction diagnostics of the fitted layer against a data
// set.
func (g *Gridder) Score(coords eql.Coordinates, data []float64) (eql.Diagnostics, error) {
	fitted, err := g.Fitted()
	if err != nil {
		return eql.Diagnostics{}, err
	}
	return fitted.Score(coords, data)
}
