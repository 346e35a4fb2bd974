// Package models holds the data-set types moved between the command-line
// pipeline stages, plus their CSV codecs.
package models

import (
	"eqlayer/pkg/eql"
)

// Scatter is a set of scattered potential-field observations.
type Scatter struct {
	// Coordinates of the observation points.
	Coordinates eql.Coordinates

	// Values of the observed field, one per point.
	Values []float64

	// Weights assigned to each observation, typically one over the squared
	// data uncertainty. Nil when the source file carries no weight column.
	Weights []float64
}

// Len returns the number of observations.
func (s *Scatter) Len() int { return len(s.Values) }
