/*
 * lambda.go, part of gomelt.
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

package order

import (
	"fmt"
	"math"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemstat"
)

// ResidueFit is the temperature dependence of the order parameter of one residue:
// the least-squares line log(1-sqrt(S2)) = Lambda*log(T) + Intercept.
type ResidueFit struct {
	Residue   melt.Residue
	Lambda    float64
	Intercept float64
	R2        float64
}

// LambdaFit is the lambda descriptor for one block length and equilibration time:
// the mean, over residues, of the per-residue slopes and coefficients of determination.
type LambdaFit struct {
	BlockLength   float64
	Equilibration float64
	Temperatures  []float64
	Lambda        float64
	R2            float64
	Residues      []ResidueFit
}

// LambdaTransform returns log(1-sqrt(s2)). s2 must be in [0, 1).
func LambdaTransform(s2 float64) (float64, error) {
	if math.IsNaN(s2) || s2 < 0 || s2 >= 1 {
		return 0, melt.NewError(melt.NumericInstability, "LambdaTransform", "S2=%v is outside [0, 1), log(1-sqrt(S2)) is undefined", s2)
	}
	return math.Log(1 - math.Sqrt(s2)), nil
}

// FitLambda fits log(1-sqrt(s2[i])) against log(temps[i]). It needs at least 2 temperatures,
// all different. A fit with an undefined R2 (all transformed values equal) is an error.
func FitLambda(temps, s2 []float64) (chemstat.Fit, error) {
	if len(temps) != len(s2) {
		return chemstat.Fit{}, melt.NewError(melt.MalformedTimeSeries, "FitLambda", "%d temperatures but %d order parameters", len(temps), len(s2))
	}
	if len(temps) < 2 {
		return chemstat.Fit{}, melt.NewError(melt.InsufficientWindow, "FitLambda", "lambda needs at least 2 temperatures, %d given", len(temps))
	}
	xs := make([]float64, len(temps))
	ys := make([]float64, len(temps))
	var err error
	for i, t := range temps {
		if t <= 0 {
			return chemstat.Fit{}, melt.NewError(melt.NumericInstability, "FitLambda", "non-positive temperature %v", t)
		}
		xs[i] = math.Log(t)
		ys[i], err = LambdaTransform(s2[i])
		if err != nil {
			return chemstat.Fit{}, melt.ErrDecorate(err, fmt.Sprintf("FitLambda: %vK", t))
		}
	}
	f, err := chemstat.LinearFit(xs, ys)
	if err != nil {
		return chemstat.Fit{}, melt.ErrDecorate(err, "FitLambda")
	}
	if math.IsNaN(f.R2) {
		return chemstat.Fit{}, melt.NewError(melt.NumericInstability, "FitLambda", "the coefficient of determination is undefined, log(1-sqrt(S2)) doesn't change with temperature")
	}
	return f, nil
}

// Lambda fits the temperature dependence of the order parameter of each residue,
// using the given temperatures and block length, and averages the result over residues.
func (E *Engine) Lambda(temps []float64, blockLength float64) (*LambdaFit, error) {
	if len(temps) < 2 {
		return nil, melt.NewError(melt.InsufficientWindow, "Engine.Lambda", "lambda needs at least 2 temperatures, %d given", len(temps))
	}
	profiles := make([][]float64, len(temps))
	for j, t := range temps {
		p, err := E.Profile(t, blockLength)
		if err != nil {
			return nil, fmt.Errorf("Engine.Lambda: %w", err)
		}
		profiles[j] = p
	}
	ret := &LambdaFit{
		BlockLength:   blockLength,
		Equilibration: E.equilibration,
		Temperatures:  append([]float64(nil), temps...),
		Residues:      make([]ResidueFit, len(E.residues)),
	}
	lambdas := make([]float64, len(E.residues))
	r2s := make([]float64, len(E.residues))
	s2 := make([]float64, len(temps))
	for i, r := range E.residues {
		for j := range temps {
			s2[j] = profiles[j][i]
		}
		f, err := FitLambda(temps, s2)
		if err != nil {
			return nil, melt.ErrDecorate(err, fmt.Sprintf("Engine.Lambda: residue %s, block length %v", r.ID(), blockLength))
		}
		ret.Residues[i] = ResidueFit{Residue: r, Lambda: f.Slope, Intercept: f.Intercept, R2: f.R2}
		lambdas[i] = f.Slope
		r2s[i] = f.R2
	}
	var err error
	if ret.Lambda, _, err = chemstat.MeanStd(lambdas); err != nil {
		return nil, melt.ErrDecorate(err, "Engine.Lambda")
	}
	if ret.R2, _, err = chemstat.MeanStd(r2s); err != nil {
		return nil, melt.ErrDecorate(err, "Engine.Lambda")
	}
	return ret, nil
}
