/*
 * observable.go, part of gomelt.
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

package features

import (
	"fmt"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemstat"
)

// RadiusIndex is the row of the radial potential table used for each kind of region.
var RadiusIndex = map[melt.RegionKind]int{
	melt.IndividualCDR: 2,
	melt.CombinedCDRs:  5,
	melt.OtherRegion:   2,
}

// Potential returns the electrostatic potential at the radius that corresponds to the
// region of the radius table ts.
func Potential(ts *melt.TimeSeries) (float64, error) {
	if ts.Observable.Kind != melt.RadiusTable {
		return 0, melt.NewError(melt.MalformedTimeSeries, "Potential", "%s is a %s observable, not a radius table", ts.Observable.Name, ts.Observable.Kind)
	}
	kind := melt.KindOfRegion(ts.Observable.Region)
	idx, ok := RadiusIndex[kind]
	if !ok {
		return 0, melt.NewError(melt.Configuration, "Potential", "no radius declared for %s regions", kind)
	}
	if idx >= ts.Len() {
		return 0, melt.NewError(melt.MissingInput, "Potential", "%s (region %q) at %vK needs radius %d but has only %d", ts.Observable.Name, ts.Observable.Region, ts.Observable.Temperature, idx, ts.Len())
	}
	return ts.At(idx, ts.Observable.Primary), nil
}

// ObservableStats returns the named statistics of one observable. Time series are
// restricted to their production window and give the mean and standard deviation of
// each column (only the primary column if the observable says so). Residue profiles give
// the mean and standard deviation over residues, and radius tables the potential at the
// radius declared for the region.
func ObservableStats(ts *melt.TimeSeries, equilibration float64) (map[string]float64, error) {
	obs := ts.Observable
	where := fmt.Sprintf("ObservableStats: %s (region %q) at %vK", obs.Name, obs.Region, obs.Temperature)
	switch obs.Kind {
	case melt.RadiusTable:
		v, err := Potential(ts)
		if err != nil {
			return nil, melt.ErrDecorate(err, where)
		}
		return map[string]float64{ObservableName(obs.Name, obs.Region, "", Mu, obs.Temperature): v}, nil
	case melt.PerResidue:
		return nil, melt.NewError(melt.Configuration, where, "per-residue series are only used for core/surface classification")
	}
	prod, _, err := ts.Production(equilibration)
	if err != nil {
		return nil, melt.ErrDecorate(err, where)
	}
	cols := make([]int, 0, prod.Cols())
	if obs.PrimaryOnly || prod.Cols() == 1 {
		cols = append(cols, obs.Primary)
	} else {
		if len(obs.Columns) != prod.Cols() {
			return nil, melt.NewError(melt.MalformedTimeSeries, where, "%d value columns but %d column labels", prod.Cols(), len(obs.Columns))
		}
		for j := 0; j < prod.Cols(); j++ {
			cols = append(cols, j)
		}
	}
	ret := make(map[string]float64, 2*len(cols))
	for _, j := range cols {
		label := ""
		if len(cols) > 1 {
			label = obs.Columns[j]
		}
		mean, std, err := chemstat.MeanStd(prod.Column(j))
		if err != nil {
			return nil, melt.ErrDecorate(err, where)
		}
		ret[ObservableName(obs.Name, obs.Region, label, Mu, obs.Temperature)] = mean
		ret[ObservableName(obs.Name, obs.Region, label, Std, obs.Temperature)] = std
	}
	return ret, nil
}
