/*
 * timeseries_test.go, part of gomelt.
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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewTimeSeriesInterval(Te *testing.T) {
	obs := Observable{Name: "gyr", Kind: MultiComponent, Columns: []string{"Rg", "Rx"}}
	ts, err := NewTimeSeries(obs, []float64{0, 0.01, 0.02, 0.03}, mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(Te, err)
	assert.InDelta(Te, 0.01, ts.Interval(), 1e-12)
	assert.InDelta(Te, 0.04, ts.Duration(), 1e-12)
	rx, err := ts.ColumnByName("Rx")
	require.NoError(Te, err)
	assert.Equal(Te, []float64{2, 4, 6, 8}, rx)
	_, err = ts.ColumnByName("Rz")
	assert.True(Te, errors.Is(err, ErrMissingInput))
}

func TestNewTimeSeriesRejects(Te *testing.T) {
	obs := Observable{Name: "rmsd", Kind: Scalar, Columns: []string{"rmsd"}}
	_, err := NewTimeSeries(obs, []float64{0, 0.01, 0.03}, mat.NewDense(3, 1, []float64{1, 2, 3}))
	assert.True(Te, errors.Is(err, ErrMalformedTimeSeries), "non uniform sampling")
	_, err = NewTimeSeries(obs, []float64{0, 0.01}, mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	assert.True(Te, errors.Is(err, ErrMalformedTimeSeries), "column count")
	_, err = NewTimeSeries(obs, []float64{0, 0.01}, mat.NewDense(2, 1, []float64{1, math.NaN()}))
	assert.True(Te, errors.Is(err, ErrNumericInstability))
	_, err = NewTimeSeries(obs, nil, nil)
	assert.True(Te, errors.Is(err, ErrMissingInput))
}

func TestErrorDecoration(Te *testing.T) {
	err := NewError(MissingInput, "inner", "no %s", "data")
	ErrDecorate(err, "outer")
	assert.Equal(Te, []string{"inner", "outer"}, err.Decorate(""))
	assert.Contains(Te, err.Error(), "inner <- outer")
	assert.False(Te, errors.Is(err, ErrConfiguration))
	// sentinels stay clean
	ErrDecorate(ErrMissingInput, "outer")
	assert.Empty(Te, ErrMissingInput.Decorate(""))
}

func TestGroupRegions(Te *testing.T) {
	res := []Residue{
		{Chain: "H", Number: 1, Region: Framework},
		{Chain: "H", Number: 31, Region: "cdrh1"},
		{Chain: "L", Number: 50, Region: "cdrl2"},
	}
	r := GroupRegions(res)
	assert.Equal(Te, []int{1, 2}, r[AllCDRs])
	assert.Equal(Te, []int{0}, r[Framework])
	assert.Equal(Te, []string{"cdrh1", "cdrl2", "cdrs", "framework"}, r.Names())
	assert.Equal(Te, IndividualCDR, KindOfRegion("cdrh3"))
	assert.Equal(Te, CombinedCDRs, KindOfRegion("cdrs"))
	assert.Equal(Te, OtherRegion, KindOfRegion(""))
	assert.Equal(Te, "H:31", res[1].ID())
}
