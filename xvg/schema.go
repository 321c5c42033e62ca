/*
 * schema.go, part of gomelt.
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

package xvg

import (
	"sort"

	melt "github.com/rmera/gomelt"
)

// Schema declares how the file of one observable is to be read: the kind of the
// values, whether the production window applies, and what each value column means.
type Schema struct {
	Name    string
	Kind    melt.Kind
	Policy  melt.WindowPolicy
	Columns []string //nil for per-residue series, where any number of columns is fine
	//Accept lists alternative numbers of value columns. A file with fewer columns than
	//len(Columns) uses the first labels.
	Accept      []int
	Primary     int
	PrimaryOnly bool
}

// Observable returns the observable described by the schema for the given region and temperature,
// and the given number of value columns.
func (S Schema) Observable(region string, temperature float64, cols int) melt.Observable {
	var labels []string
	if S.Columns != nil {
		labels = S.Columns
		if cols < len(labels) {
			labels = labels[:cols]
		}
	}
	return melt.Observable{
		Name:        S.Name,
		Region:      region,
		Temperature: temperature,
		Kind:        S.Kind,
		Policy:      S.Policy,
		Columns:     labels,
		Primary:     S.Primary,
		PrimaryOnly: S.PrimaryOnly,
	}
}

// accepts returns true if a file with cols value columns matches the schema.
func (S Schema) accepts(cols int) bool {
	if S.Columns == nil {
		return cols >= 1
	}
	if cols == len(S.Columns) {
		return true
	}
	for _, v := range S.Accept {
		if v == cols {
			return cols > S.Primary
		}
	}
	return false
}

// Catalog contains the schemas of the GROMACS observables produced by the MD driver.
var Catalog = map[string]Schema{
	"sasa":     {Name: "sasa", Kind: melt.Scalar, Policy: melt.Windowed, Columns: []string{"area"}},
	"bonds":    {Name: "bonds", Kind: melt.MultiComponent, Policy: melt.Windowed, Columns: []string{"hbonds", "contacts"}},
	"bonds_lh": {Name: "bonds_lh", Kind: melt.Scalar, Policy: melt.Windowed, Columns: []string{"hbonds"}},
	"rmsd":     {Name: "rmsd", Kind: melt.Scalar, Policy: melt.Windowed, Columns: []string{"rmsd"}},
	"gyr":      {Name: "gyr", Kind: melt.MultiComponent, Policy: melt.Windowed, Columns: []string{"Rg", "Rx", "Ry", "Rz"}},
	//gmx rmsf is already restricted to the production window by the driver (-b).
	"rmsf": {Name: "rmsf", Kind: melt.ResidueProfile, Policy: melt.FullSeries, Columns: []string{"rmsf"}},
	//Mz is the component the models were trained with.
	"dipole": {Name: "dipole", Kind: melt.MultiComponent, Policy: melt.Windowed, Columns: []string{"Mx", "My", "Mz", "Mtot"}, Accept: []int{3}, Primary: 2, PrimaryOnly: true},
	"potential": {Name: "potential", Kind: melt.RadiusTable, Policy: melt.FullSeries, Columns: []string{"potential"}},
	"res_sasa":  {Name: "res_sasa", Kind: melt.PerResidue, Policy: melt.Windowed},
}

// Names returns the names in the catalog, sorted. Longer names that share a prefix
// with shorter ones (bonds_lh, bonds) come first.
func Names() []string {
	ret := make([]string, 0, len(Catalog))
	for k := range Catalog {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		if len(ret[i]) != len(ret[j]) {
			return len(ret[i]) > len(ret[j])
		}
		return ret[i] < ret[j]
	})
	return ret
}
