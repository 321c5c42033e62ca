/*
 * stf_test.go, part of gomelt.
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

package stf

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	melt "github.com/rmera/gomelt"
	v3 "github.com/rmera/gomelt/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBonds(frames int) *melt.BondTrajectory {
	res := []melt.Residue{
		{Chain: "H", Number: 1, Region: melt.Framework},
		{Chain: "H", Number: 31, Region: "cdrh1"},
		{Chain: "L", Number: 52, Insertion: "A", Region: "cdrl2"},
	}
	b := &melt.BondTrajectory{Residues: res, Start: 0, Interval: 0.01}
	for i := 0; i < frames; i++ {
		f := v3.Zeros(len(res))
		for j := range res {
			f.Set(j, 0, 0.1*float64(j+1))
			f.Set(j, 1, -0.05*float64(i))
			f.Set(j, 2, 0.98)
		}
		b.Frames = append(b.Frames, f)
	}
	return b
}

func TestRoundTrip(Te *testing.T) {
	for _, ext := range []string{"stf", "stz", "stl", "str"} {
		name := filepath.Join(Te.TempDir(), "bonds_300."+ext)
		b := testBonds(5)
		require.NoError(Te, WriteBonds(name, b), ext)
		r, err := ReadBonds(name, b.Residues)
		require.NoError(Te, err, ext)
		assert.Equal(Te, 5, r.Len(), ext)
		assert.InDelta(Te, 0.01, r.Interval, 1e-12, ext)
		for i := range b.Frames {
			for j := 0; j < 3; j++ {
				for k := 0; k < 3; k++ {
					assert.InDelta(Te, b.Frames[i].At(j, k), r.Frames[i].At(j, k), 1e-4, ext)
				}
			}
		}
	}
}

func TestMissingVector(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bonds_350.stf")
	b := testBonds(3)
	b.Frames[1].Set(2, 0, math.NaN())
	require.NoError(Te, WriteBonds(name, b))
	r, err := ReadBonds(name, b.Residues)
	require.NoError(Te, err)
	assert.True(Te, r.Frames[1].HasNaN(2))
	assert.False(Te, r.Frames[1].HasNaN(1))
	assert.False(Te, r.Frames[2].HasNaN(2))
}

func TestHeader(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bonds.stf")
	W, err := NewWriter(name, 2, map[string]string{"dt": "0.02", "t0": "5", "prec": "3"})
	require.NoError(Te, err)
	require.NoError(Te, W.WNext(v3.Zeros(2)))
	assert.Error(Te, W.WNext(v3.Zeros(3)), "wrong number of vectors")
	require.NoError(Te, W.Close())

	R, h, err := New(name)
	require.NoError(Te, err)
	defer R.Close()
	assert.Equal(Te, "0.02", h["dt"])
	assert.Equal(Te, "5", h["t0"])
	assert.Equal(Te, 3, R.prec)
	assert.Equal(Te, 2, R.Len())
	require.NoError(Te, R.Next(nil))
	err = R.Next(nil)
	_, ok := err.(melt.LastFrameError)
	assert.True(Te, ok, "expected the last frame error, got %v", err)
}

func TestReadBondsNeedsInterval(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bonds.stf")
	W, err := NewWriter(name, 1, nil)
	require.NoError(Te, err)
	require.NoError(Te, W.WNext(v3.Zeros(1)))
	require.NoError(Te, W.Close())
	_, err = ReadBonds(name, []melt.Residue{{Chain: "H", Number: 1}})
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
}

func TestReadBondsResidueMismatch(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bonds.stf")
	b := testBonds(2)
	require.NoError(Te, WriteBonds(name, b))
	_, err := ReadBonds(name, b.Residues[:2])
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
	_, err = os.Stat(name)
	assert.NoError(Te, err)
}

func TestReadBondsCorrupt(Te *testing.T) {
	dir := Te.TempDir()
	res := testBonds(1).Residues
	_, err := ReadBonds(filepath.Join(dir, "absent.stf"), res)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput), "got %v", err)

	garbage := filepath.Join(dir, "garbage.stf")
	require.NoError(Te, os.WriteFile(garbage, []byte("this is not a zstd stream\n"), 0o644))
	_, err = ReadBonds(garbage, res)
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries), "got %v", err)

	//a frame cut in the middle.
	truncated := filepath.Join(dir, "truncated.stf")
	W, err := NewWriter(truncated, 3, map[string]string{"dt": "0.01"})
	require.NoError(Te, err)
	_, err = W.h.Write([]byte("1 2 3\n*\n"))
	require.NoError(Te, err)
	require.NoError(Te, W.Close())
	_, err = ReadBonds(truncated, res)
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries), "got %v", err)
}

func TestErrorDecoration(Te *testing.T) {
	err := &Error{"bad", "x.stf", []string{"Next"}, true}
	errDecorate(err, "ReadTraj")
	assert.Equal(Te, []string{"Next", "ReadTraj"}, err.Decorate(""))
	lf := newlastFrameError("x.stf", "Next")
	lf.Decorate("ReadTraj")
	assert.Equal(Te, []string{"Next", "ReadTraj"}, lf.Decorate(""))
}
