/*
 * chemstat_test.go, part of gomelt.
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

package chemstat

import (
	"errors"
	"math"
	"testing"

	melt "github.com/rmera/gomelt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanStdIsPopulation(Te *testing.T) {
	mean, std, err := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(Te, err)
	assert.InDelta(Te, 5.0, mean, 1e-12)
	assert.InDelta(Te, 2.0, std, 1e-12)

	_, _, err = MeanStd(nil)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
	_, _, err = MeanStd([]float64{1, math.NaN()})
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability))
}

func TestLinearFit(Te *testing.T) {
	xs := []float64{300, 350, 400}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = -0.25*x + 3
	}
	f, err := LinearFit(xs, ys)
	require.NoError(Te, err)
	assert.InDelta(Te, -0.25, f.Slope, 1e-12)
	assert.InDelta(Te, 3, f.Intercept, 1e-9)
	assert.InDelta(Te, 1, f.R2, 1e-12)

	f, err = LinearFit([]float64{1, 2, 3, 4}, []float64{1, 3, 2, 4})
	require.NoError(Te, err)
	assert.Less(Te, f.R2, 1.0)
	assert.Greater(Te, f.R2, 0.0)
}

func TestLinearFitErrors(Te *testing.T) {
	cases := []struct {
		name   string
		xs, ys []float64
		kind   error
	}{
		{"one point", []float64{300}, []float64{1}, melt.ErrInsufficientWindow},
		{"no points", nil, nil, melt.ErrInsufficientWindow},
		{"repeated x", []float64{300, 300}, []float64{1, 2}, melt.ErrNumericInstability},
		{"nan", []float64{300, 350}, []float64{1, math.NaN()}, melt.ErrNumericInstability},
		{"lengths", []float64{300, 350}, []float64{1}, melt.ErrMalformedTimeSeries},
	}
	for _, c := range cases {
		_, err := Slope(c.xs, c.ys)
		assert.True(Te, errors.Is(err, c.kind), "%s: %v", c.name, err)
	}
}
