/*
 * chemstat.go, part of gomelt.
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

// Package chemstat contains the statistics shared by the descriptor engines: population
// mean and standard deviation, and least-squares straight-line fits, such as the
// cross-temperature slopes.
package chemstat

import (
	"math"

	melt "github.com/rmera/gomelt"
	"gonum.org/v1/gonum/stat"
)

// MeanStd returns the mean and the population standard deviation (normalized by N, not N-1) of data.
func MeanStd(data []float64) (mean, std float64, err error) {
	if len(data) == 0 {
		return 0, 0, melt.NewError(melt.MissingInput, "chemstat.MeanStd", "no data")
	}
	if i := nonFinite(data); i >= 0 {
		return 0, 0, melt.NewError(melt.NumericInstability, "chemstat.MeanStd", "non-finite value %v at position %d", data[i], i)
	}
	mean, std = stat.PopMeanStdDev(data, nil)
	return mean, std, nil
}

// Fit is a least-squares straight line y = Slope*x + Intercept, with its coefficient
// of determination.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// LinearFit fits a straight line to the points (xs[i], ys[i]). At least 2 points with
// distinct x values are needed. The R2 of a fit to points with a constant y is undefined,
// and is returned as NaN; it's up to the caller whether that is a problem.
func LinearFit(xs, ys []float64) (Fit, error) {
	if len(xs) != len(ys) {
		return Fit{}, melt.NewError(melt.MalformedTimeSeries, "chemstat.LinearFit", "%d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Fit{}, melt.NewError(melt.InsufficientWindow, "chemstat.LinearFit", "a fit needs at least 2 points, %d given", len(xs))
	}
	if i := nonFinite(xs); i >= 0 {
		return Fit{}, melt.NewError(melt.NumericInstability, "chemstat.LinearFit", "non-finite x value %v at position %d", xs[i], i)
	}
	if i := nonFinite(ys); i >= 0 {
		return Fit{}, melt.NewError(melt.NumericInstability, "chemstat.LinearFit", "non-finite y value %v at position %d", ys[i], i)
	}
	if _, v := stat.PopMeanVariance(xs, nil); v == 0 {
		return Fit{}, melt.NewError(melt.NumericInstability, "chemstat.LinearFit", "all x values are equal (%v)", xs[0])
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	return Fit{Slope: beta, Intercept: alpha, R2: r2}, nil
}

// Slope returns the slope of the straight line fitted to the points (xs[i], ys[i]).
func Slope(xs, ys []float64) (float64, error) {
	f, err := LinearFit(xs, ys)
	if err != nil {
		return 0, melt.ErrDecorate(err, "chemstat.Slope")
	}
	return f.Slope, nil
}

// nonFinite returns the index of the first NaN or Inf in data, or -1 if there is none.
func nonFinite(data []float64) int {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
