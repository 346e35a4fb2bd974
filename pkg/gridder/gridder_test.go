package gridder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqlayer/pkg/eql"
	"eqlayer/pkg/solver"
)

func trainingSet() (eql.Coordinates, []float64) {
	coords := eql.Coordinates{}
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			coords.Easting = append(coords.Easting, float64(i)*2)
			coords.Northing = append(coords.Northing, float64(j)*2)
			coords.Vertical = append(coords.Vertical, 0)
		}
	}
	data := make([]float64, coords.Len())
	for i := range data {
		// Smooth synthetic anomaly over the grid.
		e, n := coords.Easting[i], coords.Northing[i]
		data[i] = 10 / (1 + (e-2)*(e-2) + (n-2)*(n-2))
	}
	return coords, data
}

func TestCheckFitInput(t *testing.T) {
	coords, data := trainingSet()

	require.NoError(t, CheckFitInput(coords, data, nil))

	err := CheckFitInput(coords, data[:4], nil)
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)

	err = CheckFitInput(coords, data, []float64{1, 2})
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)

	weights := make([]float64, len(data))
	for i := range weights {
		weights[i] = 1
	}
	weights[3] = 0
	err = CheckFitInput(coords, data, weights)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")

	ragged := eql.Coordinates{Easting: []float64{0, 1}, Northing: []float64{0}, Vertical: []float64{0, 0}}
	err = CheckFitInput(ragged, []float64{1, 2}, nil)
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)

	err = CheckFitInput(eql.Coordinates{}, nil, nil)
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)
}

func TestNotFittedGuard(t *testing.T) {
	g := New(eql.Model{})
	coords, _ := trainingSet()

	_, err := g.Fitted()
	require.ErrorIs(t, err, ErrNotFitted)

	_, err = g.Predict(coords)
	require.ErrorIs(t, err, ErrNotFitted)

	_, err = g.Jacobian(coords)
	require.ErrorIs(t, err, ErrNotFitted)

	_, err = g.Grid(GridSpec{Spacing: 1})
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestFitThenPredict(t *testing.T) {
	coords, data := trainingSet()
	g := New(eql.Model{DepthFactor: 1})

	require.NoError(t, g.Fit(coords, data, nil))

	predicted, err := g.Predict(coords)
	require.NoError(t, err)
	for i := range data {
		assert.InDelta(t, data[i], predicted[i], 1e-6, "prediction %d", i)
	}

	jac, err := g.Jacobian(coords)
	require.NoError(t, err)
	r, c := jac.Dims()
	assert.Equal(t, coords.Len(), r)
	assert.Equal(t, coords.Len(), c)
}

func TestFailedRefitKeepsPreviousState(t *testing.T) {
	coords, data := trainingSet()
	g := New(eql.Model{DepthFactor: 1})
	require.NoError(t, g.Fit(coords, data, nil))

	before, err := g.Predict(coords)
	require.NoError(t, err)

	// Mismatched refit must fail without touching the fitted state.
	err = g.Fit(coords, data[:4], nil)
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)

	after, err := g.Predict(coords)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGridCoordinates(t *testing.T) {
	region := eql.Region{West: 0, East: 2, South: 0, North: 1}

	coords, east, north := GridCoordinates(region, 1, 5)

	assert.Equal(t, []float64{0, 1, 2}, east)
	assert.Equal(t, []float64{0, 1}, north)
	require.Equal(t, 6, coords.Len())
	for i := 0; i < coords.Len(); i++ {
		assert.Equal(t, 5.0, coords.Vertical[i])
	}
	// Row-major from south to north.
	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2}, coords.Easting)
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, coords.Northing)
}

func TestGridRaggedSpacing(t *testing.T) {
	region := eql.Region{West: 0, East: 2.5, South: 0, North: 1}

	_, east, _ := GridCoordinates(region, 1, 0)

	assert.Equal(t, []float64{0, 1, 2, 2.5}, east)
}

func TestGridUsesFittedRegion(t *testing.T) {
	coords, data := trainingSet()
	g := New(eql.Model{DepthFactor: 1})
	require.NoError(t, g.Fit(coords, data, nil))

	grid, err := g.Grid(GridSpec{Spacing: 2, Height: 0})
	require.NoError(t, err)

	assert.Equal(t, eql.Region{West: 0, East: 4, South: 0, North: 4}, grid.Region)
	assert.Equal(t, []float64{0, 2, 4}, grid.Easting)
	assert.Equal(t, []float64{0, 2, 4}, grid.Northing)
	require.Len(t, grid.Values, 9)

	// Grid nodes coincide with the training points, so the values must
	// reproduce the training data.
	for i := range data {
		assert.InDelta(t, data[i], grid.Values[i], 1e-6, "node %d", i)
	}

	_, err = g.Grid(GridSpec{Spacing: 0})
	require.Error(t, err)
}

func TestGridRejectsBadSpacing(t *testing.T) {
	coords, data := trainingSet()
	g := New(eql.Model{DepthFactor: 1})
	require.NoError(t, g.Fit(coords, data, nil))

	for _, spacing := range []float64{0, -1, math.NaN()} {
		_, err := g.Grid(GridSpec{Spacing: spacing})
		assert.Error(t, err, "spacing %v", spacing)
	}
}

func TestJacobianEmptyQuery(t *testing.T) {
	coords, data := trainingSet()
	g := New(eql.Model{DepthFactor: 1})
	require.NoError(t, g.Fit(coords, data, nil))

	_, err := g.Jacobian(eql.Coordinates{})
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)
}
