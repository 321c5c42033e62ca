/*
 * bundle.go, part of gomelt.
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
	"fmt"

	v3 "github.com/rmera/gomelt/v3"
)

// BondTrajectory holds the backbone bond vectors of a set of residues, one
// v3.Matrix per frame with one row per residue. Frames are uniformly sampled
// every Interval ns, starting at Start.
type BondTrajectory struct {
	Residues []Residue
	Start    float64
	Interval float64
	Frames   []*v3.Matrix
}

// Len returns the number of frames.
func (B *BondTrajectory) Len() int { return len(B.Frames) }

// Production returns the production window of the trajectory for the given
// equilibration time.
func (B *BondTrajectory) Production(equilibration float64) (Window, error) {
	w, err := ProductionWindow(B.Start, B.Interval, B.Len(), equilibration)
	if err != nil {
		return w, ErrDecorate(err, "BondTrajectory.Production")
	}
	return w, nil
}

// ReadTraj reads all the frames of traj into a BondTrajectory. The trajectory must have
// one vector per given residue. The start time and sampling interval are not part of
// the Traj interface, so they are given explicitly.
func ReadTraj(traj Traj, residues []Residue, start, interval float64) (*BondTrajectory, error) {
	if !traj.Readable() {
		return nil, NewError(MissingInput, "ReadTraj", "trajectory not readable")
	}
	if traj.Len() != len(residues) {
		return nil, NewError(MalformedTimeSeries, "ReadTraj", "trajectory has %d vectors per frame, but %d residues were given", traj.Len(), len(residues))
	}
	if interval <= 0 {
		return nil, NewError(MalformedTimeSeries, "ReadTraj", "non-positive sampling interval %v", interval)
	}
	ret := &BondTrajectory{Residues: residues, Start: start, Interval: interval}
	for i := 0; ; i++ {
		coord := v3.Zeros(traj.Len())
		err := traj.Next(coord)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return nil, ErrDecorate(err, fmt.Sprintf("ReadTraj: frame %d", i))
		}
		ret.Frames = append(ret.Frames, coord)
	}
	return ret, nil
}

// Entropy keys, for Bundle.Entropy.
const (
	Schlitter     = "schlitter"
	Quasiharmonic = "quasiharmonic"
)

// Bundle is everything the MD driver produced for one temperature.
type Bundle struct {
	Temperature float64
	Duration    float64 //total simulated time, ns
	Observables []*TimeSeries
	Bonds       *BondTrajectory //nil if order parameters are not needed
	SASA        *TimeSeries     //per-residue SASA. nil if core/surface classification is not needed
	Residues    []Residue       //the residues of the SASA columns, in order
	Entropy     map[string]float64
}

// Observable returns the time series of the observable with the given name and region.
func (B *Bundle) Observable(name, region string) (*TimeSeries, error) {
	for _, v := range B.Observables {
		if v.Observable.Name == name && v.Observable.Region == region {
			return v, nil
		}
	}
	return nil, NewError(MissingInput, "Bundle.Observable", "no observable %s (region %q) at %vK", name, region, B.Temperature)
}

// Validate checks that the bundle is consistent and that its simulation is longer
// than the equilibration time.
func (B *Bundle) Validate(equilibration float64) error {
	if B.Temperature <= 0 {
		return NewError(Configuration, "Bundle.Validate", "non-positive temperature %v", B.Temperature)
	}
	if B.Duration <= equilibration {
		return NewError(InsufficientWindow, "Bundle.Validate", "simulation at %vK lasts %v ns, equilibration is %v ns", B.Temperature, B.Duration, equilibration)
	}
	seen := make(map[string]bool, len(B.Observables))
	for _, v := range B.Observables {
		if v.Observable.Temperature != B.Temperature {
			return NewError(MalformedTimeSeries, "Bundle.Validate", "observable %s belongs to %vK, not %vK", v.Observable.Name, v.Observable.Temperature, B.Temperature)
		}
		key := v.Observable.Name + "/" + v.Observable.Region
		if seen[key] {
			return NewError(MalformedTimeSeries, "Bundle.Validate", "observable %s given twice at %vK", key, B.Temperature)
		}
		seen[key] = true
	}
	if B.SASA != nil {
		if B.SASA.Observable.Kind != PerResidue {
			return NewError(MalformedTimeSeries, "Bundle.Validate", "SASA at %vK is %s, not per-residue", B.Temperature, B.SASA.Observable.Kind)
		}
		if B.SASA.Cols() != len(B.Residues) {
			return NewError(MalformedTimeSeries, "Bundle.Validate", "SASA at %vK has %d residue columns but %d residues", B.Temperature, B.SASA.Cols(), len(B.Residues))
		}
	}
	return nil
}
