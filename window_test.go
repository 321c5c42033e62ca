/*
 * window_test.go, part of gomelt.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// rampSeries returns a scalar series whose value at each frame is the frame index.
func rampSeries(Te *testing.T, frames int, interval float64) *TimeSeries {
	Te.Helper()
	data := make([]float64, frames)
	for i := range data {
		data[i] = float64(i)
	}
	obs := Observable{Name: "rmsd", Temperature: 300, Kind: Scalar, Policy: Windowed, Columns: []string{"rmsd"}}
	ts, err := NewUniformTimeSeries(obs, 0, interval, mat.NewDense(frames, 1, data))
	require.NoError(Te, err)
	return ts
}

func TestProductionWindowIsSuffix(Te *testing.T) {
	// 100 ns at 100 frames per ns, 20 ns of equilibration.
	w, err := ProductionWindow(0, 0.01, 10000, 20)
	require.NoError(Te, err)
	assert.Equal(Te, 2000, w.Start)
	assert.Equal(Te, 10000, w.End)
	assert.Equal(Te, 8000, w.Len())

	ts := rampSeries(Te, 10000, 0.01)
	prod, w2, err := ts.Production(20)
	require.NoError(Te, err)
	assert.Equal(Te, w, w2)
	require.Equal(Te, 8000, prod.Len())
	assert.Equal(Te, 2000.0, prod.At(0, 0))
	assert.Equal(Te, 9999.0, prod.At(prod.Len()-1, 0))
	for i := 0; i < prod.Len(); i++ {
		if prod.X(i) < 20-1e-9 {
			Te.Fatalf("frame %d at %v ns is inside the equilibration", i, prod.X(i))
		}
	}
	// the original series is untouched
	assert.Equal(Te, 10000, ts.Len())
	assert.Equal(Te, 0.0, ts.At(0, 0))
}

func TestProductionWindowOffsets(Te *testing.T) {
	cases := []struct {
		name          string
		start, dt, eq float64
		frames, first int
	}{
		{"zero equilibration", 0, 0.01, 0, 100, 0},
		{"between frames", 0, 0.3, 1.0, 10, 4},
		{"series starting late", 5, 0.5, 6, 10, 2},
		{"equilibration before start", 5, 0.5, 1, 10, 0},
	}
	for _, c := range cases {
		Te.Run(c.name, func(Te *testing.T) {
			w, err := ProductionWindow(c.start, c.dt, c.frames, c.eq)
			require.NoError(Te, err)
			assert.Equal(Te, c.first, w.Start)
			assert.Equal(Te, c.frames, w.End)
		})
	}
}

func TestProductionWindowErrors(Te *testing.T) {
	_, err := ProductionWindow(0, 0.01, 10000, 100)
	assert.True(Te, errors.Is(err, ErrInsufficientWindow))
	_, err = ProductionWindow(0, 0.01, 10000, 150)
	assert.True(Te, errors.Is(err, ErrInsufficientWindow))
	_, err = ProductionWindow(0, 0.01, 10000, -1)
	assert.True(Te, errors.Is(err, ErrConfiguration))
	_, err = ProductionWindow(0, 0, 10000, 1)
	assert.True(Te, errors.Is(err, ErrMalformedTimeSeries))
}

func TestFullSeriesBypassesWindow(Te *testing.T) {
	obs := Observable{Name: "rmsf", Region: "cdrs", Temperature: 300, Kind: ResidueProfile, Policy: FullSeries, Columns: []string{"rmsf"}}
	ts, err := NewTimeSeries(obs, []float64{1, 2, 3}, mat.NewDense(3, 1, []float64{0.1, 0.2, 0.3}))
	require.NoError(Te, err)
	prod, w, err := ts.Production(20)
	require.NoError(Te, err)
	assert.Equal(Te, 3, prod.Len())
	assert.Equal(Te, Window{0, 3}, w)
}
