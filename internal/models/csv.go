package models

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"eqlayer/pkg/eql"
	"eqlayer/pkg/gridder"
)

// LoadScatterCSV reads scattered observations from a CSV file with a header
// row and columns easting,northing,vertical,value and an optional fifth
// weight column.
func LoadScatterCSV(path string) (*Scatter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening scatter file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading scatter file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("scatter file %s has no data rows", path)
	}
	header, rows := records[0], records[1:]
	if len(header) < 4 {
		return nil, fmt.Errorf("scatter file %s needs at least 4 columns, got %d", path, len(header))
	}
	hasWeights := len(header) >= 5

	s := &Scatter{
		Coordinates: eql.Coordinates{
			Easting:  make([]float64, 0, len(rows)),
			Northing: make([]float64, 0, len(rows)),
			Vertical: make([]float64, 0, len(rows)),
		},
		Values: make([]float64, 0, len(rows)),
	}
	if hasWeights {
		s.Weights = make([]float64, 0, len(rows))
	}

	for i, row := range rows {
		fields, err := parseFloats(row)
		if err != nil {
			return nil, fmt.Errorf("scatter file %s row %d: %w", path, i+2, err)
		}
		if len(fields) < 4 || (hasWeights && len(fields) < 5) {
			return nil, fmt.Errorf("scatter file %s row %d: expected %d columns, got %d",
				path, i+2, len(header), len(fields))
		}
		s.Coordinates.Easting = append(s.Coordinates.Easting, fields[0])
		s.Coordinates.Northing = append(s.Coordinates.Northing, fields[1])
		s.Coordinates.Vertical = append(s.Coordinates.Vertical, fields[2])
		s.Values = append(s.Values, fields[3])
		if hasWeights {
			s.Weights = append(s.Weights, fields[4])
		}
	}
	return s, nil
}

// SaveGridCSV writes an evaluated grid as one CSV row per node with a header
// row and columns easting,northing,vertical,predicted.
func SaveGridCSV(path string, g *gridder.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating grid file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"easting", "northing", "vertical", "predicted"}); err != nil {
		return fmt.Errorf("error writing grid header: %w", err)
	}
	for j, north := range g.Northing {
		for i, east := range g.Easting {
			row := []string{
				formatFloat(east),
				formatFloat(north),
				formatFloat(g.Height),
				formatFloat(g.Value(i, j)),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("error writing grid row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

func parseFloats(row []string) ([]float64, error) {
	out := make([]float64, len(row))
	for i, field := range row {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
