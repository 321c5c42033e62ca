/*
 * s2.go, part of gomelt.
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

// Package order computes backbone bond order parameters (S2) by block averaging
// over the production part of a bond-vector trajectory, and the temperature
// dependence (lambda) of those order parameters.
package order

import (
	"fmt"
	"math"

	melt "github.com/rmera/gomelt"
	v3 "github.com/rmera/gomelt/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// S2Const is the empirical correction factor applied to the order parameter
// obtained from the second Legendre polynomial.
const S2Const = 0.89

// blockTolerance is how far, in frames, a block length may be from a whole
// number of sampling intervals.
const blockTolerance = 1e-6

// BlockFrames returns the number of frames in a block of the given length (ns)
// for a trajectory sampled every interval ns.
func BlockFrames(blockLength, interval float64) (int, error) {
	if blockLength <= 0 || math.IsNaN(blockLength) {
		return 0, melt.NewError(melt.Configuration, "BlockFrames", "non-positive block length %v", blockLength)
	}
	if interval <= 0 {
		return 0, melt.NewError(melt.MalformedTimeSeries, "BlockFrames", "non-positive sampling interval %v", interval)
	}
	f := blockLength / interval
	n := math.Round(f)
	if n < 1 || math.Abs(f-n) > blockTolerance {
		return 0, melt.NewError(melt.Configuration, "BlockFrames", "block length %v ns is not a whole number of sampling intervals (%v ns)", blockLength, interval)
	}
	return int(n), nil
}

// Blocks partitions the window w into consecutive, non-overlapping blocks of the given
// number of frames. An incomplete block at the end of the window is included or
// discarded according to policy. It is an error if no block is left.
func Blocks(w melt.Window, frames int, policy melt.TrailingPolicy) ([]melt.Window, error) {
	if frames <= 0 {
		return nil, melt.NewError(melt.Configuration, "Blocks", "non-positive block size %d", frames)
	}
	n := w.Len() / frames
	ret := make([]melt.Window, 0, n+1)
	for i := 0; i < n; i++ {
		s := w.Start + i*frames
		ret = append(ret, melt.Window{Start: s, End: s + frames})
	}
	if rest := w.Len() % frames; rest > 0 && policy == melt.TrailingInclude {
		ret = append(ret, melt.Window{Start: w.End - rest, End: w.End})
	}
	if len(ret) == 0 {
		return nil, melt.NewError(melt.InsufficientWindow, "Blocks", "the window %v is shorter than one block of %d frames", w, frames)
	}
	return ret, nil
}

// BlockS2 returns the order parameter of the bond vector of residue over the given
// frames. Each vector is normalized before averaging. A missing (NaN) vector is a
// MissingInput error, and a zero-length one, a NumericInstability error.
func BlockS2(frames []*v3.Matrix, residue int) (float64, error) {
	if len(frames) == 0 {
		return 0, melt.NewError(melt.InsufficientWindow, "BlockS2", "empty block")
	}
	tensor := mat.NewSymDense(3, nil)
	u := make([]float64, 3)
	uvec := mat.NewVecDense(3, u)
	for i, f := range frames {
		if f == nil || residue >= f.NVecs() {
			return 0, melt.NewError(melt.MissingInput, "BlockS2", "frame %d has no vector for residue %d", i, residue)
		}
		if f.HasNaN(residue) {
			return 0, melt.NewError(melt.MissingInput, "BlockS2", "missing bond vector for residue %d in frame %d", residue, i)
		}
		mat.Row(u, residue, f)
		norm := floats.Norm(u, 2)
		if norm == 0 {
			return 0, melt.NewError(melt.NumericInstability, "BlockS2", "zero-length bond vector for residue %d in frame %d", residue, i)
		}
		floats.Scale(1/norm, u)
		tensor.SymRankOne(tensor, 1, uvec)
	}
	tensor.ScaleSym(1/float64(len(frames)), tensor)
	sum := mat.Norm(tensor, 2) //Frobenius
	return S2Const * (1.5*sum*sum - 0.5), nil
}

// blockS2s returns the S2 of each block of the production window of the trajectory.
func blockS2s(traj *melt.BondTrajectory, residue int, equilibration, blockLength float64, policy melt.TrailingPolicy) ([]float64, error) {
	w, err := traj.Production(equilibration)
	if err != nil {
		return nil, melt.ErrDecorate(err, "blockS2s")
	}
	bf, err := BlockFrames(blockLength, traj.Interval)
	if err != nil {
		return nil, melt.ErrDecorate(err, "blockS2s")
	}
	blocks, err := Blocks(w, bf, policy)
	if err != nil {
		return nil, melt.ErrDecorate(err, fmt.Sprintf("blockS2s: block length %v", blockLength))
	}
	ret := make([]float64, len(blocks))
	for i, b := range blocks {
		ret[i], err = BlockS2(traj.Frames[b.Start:b.End], residue)
		if err != nil {
			return nil, melt.ErrDecorate(err, fmt.Sprintf("blockS2s: %s, block %d", traj.Residues[residue].ID(), i))
		}
	}
	return ret, nil
}
