/*
 * residue.go, part of gomelt.
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
	"sort"
)

// Region labels.
const (
	Framework = "framework"
	AllCDRs   = "cdrs" //the union of the six CDR loops
)

// CDRs are the labels of the individual CDR loops.
var CDRs = []string{"cdrl1", "cdrl2", "cdrl3", "cdrh1", "cdrh2", "cdrh3"}

// RegionKind groups regions for policies that depend on the type of region
// rather than on the region itself.
type RegionKind int

const (
	OtherRegion RegionKind = iota
	IndividualCDR
	CombinedCDRs
)

func (r RegionKind) String() string {
	switch r {
	case IndividualCDR:
		return "individual-CDR"
	case CombinedCDRs:
		return "combined-CDR-set"
	}
	return "other"
}

// KindOfRegion returns the kind of the region with the given name.
func KindOfRegion(name string) RegionKind {
	if name == AllCDRs {
		return CombinedCDRs
	}
	if isInString(CDRs, name) {
		return IndividualCDR
	}
	return OtherRegion
}

// Residue is identified by its chain and its position in the numbering scheme.
// Region is the CDR label of the residue, or Framework.
type Residue struct {
	Chain     string
	Number    int
	Insertion string
	Region    string
}

// ID returns a compact identifier, such as H:52A.
func (R Residue) ID() string {
	return fmt.Sprintf("%s:%d%s", R.Chain, R.Number, R.Insertion)
}

func (R Residue) String() string {
	return fmt.Sprintf("%s (%s)", R.ID(), R.Region)
}

// Regions maps a region name to the indexes of its residues in a residue slice.
type Regions map[string][]int

// GroupRegions groups the given residues by region. The AllCDRs region, with the
// residues of every CDR loop, is always added if any CDR residue is present.
func GroupRegions(res []Residue) Regions {
	ret := make(Regions)
	for i, r := range res {
		ret[r.Region] = append(ret[r.Region], i)
		if KindOfRegion(r.Region) == IndividualCDR {
			ret[AllCDRs] = append(ret[AllCDRs], i)
		}
	}
	return ret
}

// Names returns the region names, sorted.
func (R Regions) Names() []string {
	ret := make([]string, 0, len(R))
	for k := range R {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// isInString returns true if test is in container, false otherwise.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
