package eql

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"eqlayer/pkg/solver"
)

// Diagnostics summarizes how well a fitted layer reproduces a data set.
type Diagnostics struct {
	// RMSE is the root mean square misfit between predictions and data.
	RMSE float64

	// R2 is the coefficient of determination of the predictions.
	R2 float64
}

// Score evaluates the layer at the given coordinates and compares the
// predictions against the data. With zero damping and the training inputs
// this measures reproduction of the fit; with held-out data it measures
// generalization.
func (f *Fitted) Score(coords Coordinates, data []float64) (Diagnostics, error) {
	if len(data) != coords.Len() {
		return Diagnostics{}, fmt.Errorf("score: %d data values for %d points: %w",
			len(data), coords.Len(), solver.ErrDimensionMismatch)
	}
	predicted, err := f.Predict(coords)
	if err != nil {
		return Diagnostics{}, err
	}

	var sq float64
	for i, p := range predicted {
		r := p - data[i]
		sq += r * r
	}
	return Diagnostics{
		RMSE: math.Sqrt(sq / float64(len(data))),
		R2:   stat.RSquaredFrom(predicted, data, nil),
	}, nil
}
