/*
 * timeseries.go, part of gomelt.
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package melt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind declares the shape of the values of an observable.
type Kind int

const (
	// Scalar is one value per frame.
	Scalar Kind = iota
	// MultiComponent is several named values per frame, such as the 3 axes and
	// magnitude of a dipole.
	MultiComponent
	// PerResidue is one value per residue per frame.
	PerResidue
	// ResidueProfile is one value per residue, computed once by the driver over
	// the whole run (e.g. RMSF). The x axis is the residue number, not time.
	ResidueProfile
	// RadiusTable is one value per radius, computed once by the driver
	// (e.g. the electrostatic potential at several radii).
	RadiusTable
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case MultiComponent:
		return "multi-component"
	case PerResidue:
		return "per-residue"
	case ResidueProfile:
		return "residue-profile"
	case RadiusTable:
		return "radius-table"
	}
	return "unknown"
}

// TimeIndexed returns true if the x axis of an observable of this kind is time.
func (k Kind) TimeIndexed() bool {
	return k == Scalar || k == MultiComponent || k == PerResidue
}

// WindowPolicy tells whether the production window selection applies to an observable.
type WindowPolicy int

const (
	// Windowed observables are restricted to the frames after equilibration.
	Windowed WindowPolicy = iota
	// FullSeries observables are already independent of the equilibration and
	// are used whole.
	FullSeries
)

func (w WindowPolicy) String() string {
	if w == FullSeries {
		return "full-series"
	}
	return "windowed"
}

// Observable is a named physical quantity produced once per temperature by the
// MD driver.
type Observable struct {
	Name        string //e.g. "gyr", "rmsf", "dipole"
	Region      string //"" for the whole molecule
	Temperature float64
	Kind        Kind
	Policy      WindowPolicy
	Columns     []string //semantic label of each value column
	Primary     int      //the column used when only one value per row is needed
	PrimaryOnly bool     //only the primary column is meaningful downstream
}

// TimeSeries holds the values of one observable at one temperature. Rows are frames
// (or residues / radii for non time-indexed kinds), columns are the value columns
// declared for the observable. A TimeSeries is never modified after creation.
type TimeSeries struct {
	Observable Observable
	start      float64
	interval   float64 //ns. Zero for non time-indexed kinds.
	x          []float64
	values     *mat.Dense
}

// intervalTolerance is the relative deviation allowed between consecutive time steps.
const intervalTolerance = 1e-4

// NewTimeSeries builds a TimeSeries from the x axis and the values. For time-indexed
// kinds, x must be monotonically increasing and uniformly spaced; the spacing becomes
// the sampling interval of the series.
func NewTimeSeries(obs Observable, x []float64, values *mat.Dense) (*TimeSeries, error) {
	if values == nil || len(x) == 0 {
		return nil, NewError(MissingInput, "NewTimeSeries", "observable %s at %vK has no data", obs.Name, obs.Temperature)
	}
	r, c := values.Dims()
	if r != len(x) {
		return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: %d x values but %d rows", obs.Name, len(x), r)
	}
	if obs.Columns != nil && len(obs.Columns) != c {
		return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: %d value columns, schema declares %d", obs.Name, c, len(obs.Columns))
	}
	if obs.Primary < 0 || obs.Primary >= c {
		return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: primary column %d out of range", obs.Name, obs.Primary)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := values.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, NewError(NumericInstability, "NewTimeSeries", "%s: non-finite value at row %d column %d", obs.Name, i, j)
			}
		}
	}
	ts := &TimeSeries{Observable: obs, start: x[0], x: x, values: values}
	if !obs.Kind.TimeIndexed() {
		return ts, nil
	}
	if len(x) < 2 {
		return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: a time series needs at least 2 frames to define its sampling interval", obs.Name)
	}
	dt := (x[len(x)-1] - x[0]) / float64(len(x)-1)
	if dt <= 0 {
		return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: time is not increasing", obs.Name)
	}
	for i := 1; i < len(x); i++ {
		if math.Abs((x[i]-x[i-1])-dt) > intervalTolerance*dt {
			return nil, NewError(MalformedTimeSeries, "NewTimeSeries", "%s: frame %d breaks the uniform sampling interval %v", obs.Name, i, dt)
		}
	}
	ts.interval = dt
	return ts, nil
}

// NewUniformTimeSeries builds a time-indexed TimeSeries from a start time, a sampling
// interval and the values, one row per frame.
func NewUniformTimeSeries(obs Observable, start, interval float64, values *mat.Dense) (*TimeSeries, error) {
	if interval <= 0 {
		return nil, NewError(MalformedTimeSeries, "NewUniformTimeSeries", "%s: non-positive sampling interval %v", obs.Name, interval)
	}
	if values == nil {
		return nil, NewError(MissingInput, "NewUniformTimeSeries", "observable %s at %vK has no data", obs.Name, obs.Temperature)
	}
	r, _ := values.Dims()
	x := make([]float64, r)
	for i := range x {
		x[i] = start + float64(i)*interval
	}
	ts, err := NewTimeSeries(obs, x, values)
	if err != nil {
		return nil, ErrDecorate(err, "NewUniformTimeSeries")
	}
	ts.interval = interval
	return ts, nil
}

// Len returns the number of rows in the series.
func (T *TimeSeries) Len() int { return len(T.x) }

// Cols returns the number of value columns.
func (T *TimeSeries) Cols() int {
	_, c := T.values.Dims()
	return c
}

// Start returns the x value of the first row.
func (T *TimeSeries) Start() float64 { return T.start }

// Interval returns the sampling interval, in ns. It is zero for non time-indexed series.
func (T *TimeSeries) Interval() float64 { return T.interval }

// Duration returns the time span covered by the series, in ns, counting one
// sampling interval per frame.
func (T *TimeSeries) Duration() float64 { return float64(T.Len()) * T.interval }

// X returns the x value (time, residue number or radius) of row i.
func (T *TimeSeries) X(i int) float64 { return T.x[i] }

// At returns the value at row i, column j.
func (T *TimeSeries) At(i, j int) float64 { return T.values.At(i, j) }

// Column returns a copy of the j-th value column.
func (T *TimeSeries) Column(j int) []float64 {
	return mat.Col(nil, j, T.values)
}

// PrimaryColumn returns a copy of the column declared as primary for the observable.
func (T *TimeSeries) PrimaryColumn() []float64 {
	return T.Column(T.Observable.Primary)
}

// ColumnByName returns a copy of the column with the given semantic label.
func (T *TimeSeries) ColumnByName(name string) ([]float64, error) {
	for j, v := range T.Observable.Columns {
		if v == name {
			return T.Column(j), nil
		}
	}
	return nil, NewError(MissingInput, "ColumnByName", "%s has no column %q", T.Observable.Name, name)
}

// Slice returns a view of the rows [i,j) of the series. No data is copied.
func (T *TimeSeries) Slice(i, j int) *TimeSeries {
	c := T.Cols()
	ret := &TimeSeries{
		Observable: T.Observable,
		interval:   T.interval,
		x:          T.x[i:j:j],
		values:     T.values.Slice(i, j, 0, c).(*mat.Dense),
	}
	if j > i {
		ret.start = T.x[i]
	}
	return ret
}
