// Package dataset defines the cleaned casualty records and their CSV form.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Figure is a numeric cell that may be absent when the source text held no
// parseable number. Absent figures serialize as empty CSV cells and must be
// excluded from threshold comparisons, never treated as zero.
type Figure struct {
	Value float64
	Valid bool
}

// NewFigure wraps a (value, ok) pair as produced by the field normalizer.
func NewFigure(value float64, ok bool) Figure {
	if !ok {
		return Figure{}
	}

	return Figure{Value: value, Valid: true}
}

// MarshalCSV implements the gocsv marshaller; absent renders as an empty cell.
func (f Figure) MarshalCSV() (string, error) {
	if !f.Valid {
		return "", nil
	}

	return strconv.FormatFloat(f.Value, 'f', -1, 64), nil
}

// UnmarshalCSV implements the gocsv unmarshaller; an empty cell is absent.
func (f *Figure) UnmarshalCSV(field string) error {
	field = strings.TrimSpace(field)
	if field == "" {
		*f = Figure{}

		return nil
	}

	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return fmt.Errorf("invalid figure %q: %w", field, err)
	}

	*f = Figure{Value: value, Valid: true}

	return nil
}

// Record is one country's cleaned row. Column names match the output file
// schema consumed by the chart layer.
type Record struct {
	Country                          string `csv:"Country"`
	TotalPop1939                     Figure `csv:"TotalPop1939"`
	MilitaryDeaths                   Figure `csv:"MilitaryDeaths"`
	CivilianDeathsDueToMilitary      Figure `csv:"CivilianDeathsDueToMilitary"`
	CivilianDeathsDueToDiseaseFamine Figure `csv:"CivilianDeathsDueToDiseaseFamine"`
	TotalDeaths                      Figure `csv:"TotalDeaths"`
	DeathPctOf1939Pop                Figure `csv:"DeathPctOf1939Pop"`
	AverageDeathPctOf1939Pop         Figure `csv:"AverageDeathPctOf1939Pop"`
}

// CivilianDeaths sums the civilian columns that are present. The second
// return is false when both components are absent.
func (r Record) CivilianDeaths() (float64, bool) {
	total := 0.0
	present := false

	if r.CivilianDeathsDueToMilitary.Valid {
		total += r.CivilianDeathsDueToMilitary.Value
		present = true
	}

	if r.CivilianDeathsDueToDiseaseFamine.Valid {
		total += r.CivilianDeathsDueToDiseaseFamine.Value
		present = true
	}

	return total, present
}
