/*
 * sasa.go, part of gomelt.
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

// Package sasa classifies the residues of a molecule into core (buried) and surface
// (exposed) sets, from their solvent accessible surface area (SASA) over the production
// window, and aggregates the SASA of each set.
package sasa

import (
	"fmt"
	"sort"
	"strings"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemstat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Options for the core/surface classification.
type Options struct {
	k      int
	scheme melt.NeighborScheme
	window int
}

// DefaultOptions returns the default Options: 20 residues per class, ranked
// with the global-rank/v1 scheme.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.k = 20
	ret.scheme = melt.GlobalRank
	ret.window = 2
	return ret
}

// K returns the number of residues in each of the core and surface sets, and sets
// it, if a valid value is given.
func (O *Options) K(k ...int) int {
	ret := O.k
	if len(k) > 0 && k[0] > 0 {
		O.k = k[0]
	}
	return ret
}

// Scheme returns the neighbor scheme used to score residues, and sets it, if
// a valid value is given.
func (O *Options) Scheme(scheme ...melt.NeighborScheme) melt.NeighborScheme {
	ret := O.scheme
	if len(scheme) > 0 && (scheme[0] == melt.GlobalRank || scheme[0] == melt.SequenceWindow) {
		O.scheme = scheme[0]
	}
	return ret
}

// Window returns the half-width, in residues, of the sequence window of the
// sequence-window/v1 scheme, and sets it, if a valid value is given.
func (O *Options) Window(w ...int) int {
	ret := O.window
	if len(w) > 0 && w[0] >= 0 {
		O.window = w[0]
	}
	return ret
}

// Keys of the statistics in an Aggregate, in the order they are reported.
var Keys = []string{"total_mean", "core_mean", "surface_mean", "total_std", "core_std", "surface_std"}

// Aggregate is the core/surface SASA of one temperature. The sums of the SASA of
// all residues (total), of the core and of the surface residues are computed for every
// frame of the production window, and then averaged over frames.
type Aggregate struct {
	Temperature   float64
	K             int
	Equilibration float64
	Scheme        melt.NeighborScheme
	Window        melt.Window
	Core          []int //indexes of the core residues, from the most buried
	Surface       []int //indexes of the surface residues, from the most exposed
	TotalMean     float64
	TotalStd      float64
	CoreMean      float64
	CoreStd       float64
	SurfaceMean   float64
	SurfaceStd    float64
}

// Values returns the statistics of the aggregate by key (see Keys).
func (A *Aggregate) Values() map[string]float64 {
	return map[string]float64{
		"total_mean":   A.TotalMean,
		"core_mean":    A.CoreMean,
		"surface_mean": A.SurfaceMean,
		"total_std":    A.TotalStd,
		"core_std":     A.CoreStd,
		"surface_std":  A.SurfaceStd,
	}
}

// Classify computes the core/surface aggregate for the per-residue SASA time series
// sasa, whose columns correspond to residues. Only the frames at or after the
// equilibration time are used, both for the ranking and for the statistics.
// The Options setters ignore invalid values, but Options that hold them anyway (such as
// a zero Options) give a Configuration error.
func Classify(sasa *melt.TimeSeries, residues []melt.Residue, equilibration float64, options ...*Options) (*Aggregate, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if sasa == nil {
		return nil, melt.NewError(melt.MissingInput, "sasa.Classify", "no per-residue SASA")
	}
	T := sasa.Observable.Temperature
	n := sasa.Cols()
	if n != len(residues) {
		return nil, melt.NewError(melt.MalformedTimeSeries, "sasa.Classify", "%d SASA columns but %d residues at %vK", n, len(residues), T)
	}
	k := o.K()
	if k <= 0 {
		return nil, melt.NewError(melt.Configuration, "sasa.Classify", "non-positive k=%d", k)
	}
	if 2*k > n {
		return nil, melt.NewError(melt.Configuration, "sasa.Classify", "k=%d residues per class, but only %d residues", k, n)
	}
	prod, w, err := sasa.Production(equilibration)
	if err != nil {
		return nil, melt.ErrDecorate(err, "sasa.Classify")
	}
	means := make([]float64, n)
	for j := range means {
		means[j] = stat.Mean(prod.Column(j), nil)
	}
	scores, err := Scores(means, residues, o)
	if err != nil {
		return nil, melt.ErrDecorate(err, "sasa.Classify")
	}
	rank := Rank(scores)
	ret := &Aggregate{
		Temperature:   T,
		K:             k,
		Equilibration: equilibration,
		Scheme:        o.Scheme(),
		Window:        w,
		Core:          rank.Indexes()[:k],
		Surface:       make([]int, k),
	}
	for i := 0; i < k; i++ {
		ret.Surface[i] = rank.Index(n - 1 - i)
	}
	frames := prod.Len()
	total := make([]float64, frames)
	core := make([]float64, frames)
	surface := make([]float64, frames)
	row := make([]float64, n)
	for f := 0; f < frames; f++ {
		for j := range row {
			row[j] = prod.At(f, j)
		}
		total[f] = floats.Sum(row)
		core[f] = sumOf(row, ret.Core)
		surface[f] = sumOf(row, ret.Surface)
	}
	for _, v := range []struct {
		data      []float64
		mean, std *float64
		name      string
	}{
		{total, &ret.TotalMean, &ret.TotalStd, "total"},
		{core, &ret.CoreMean, &ret.CoreStd, "core"},
		{surface, &ret.SurfaceMean, &ret.SurfaceStd, "surface"},
	} {
		*v.mean, *v.std, err = chemstat.MeanStd(v.data)
		if err != nil {
			return nil, melt.ErrDecorate(err, fmt.Sprintf("sasa.Classify: %s SASA at %vK", v.name, T))
		}
	}
	return ret, nil
}

// Scores returns the exposure score of each residue, from the mean SASA of each residue,
// according to the neighbor scheme in the options. For global-rank/v1 the score is the
// mean SASA itself. For sequence-window/v1 it's the average of the mean SASA of the
// residues within the window around the residue, on the same chain. Residues are
// assumed to be given in sequence order.
func Scores(means []float64, residues []melt.Residue, o *Options) ([]float64, error) {
	if len(means) != len(residues) {
		return nil, melt.NewError(melt.MalformedTimeSeries, "sasa.Scores", "%d values but %d residues", len(means), len(residues))
	}
	switch o.Scheme() {
	case melt.GlobalRank:
		return append([]float64(nil), means...), nil
	case melt.SequenceWindow:
		win := o.Window()
		ret := make([]float64, len(means))
		for i := range means {
			var sum float64
			var cnt int
			for j := i - win; j <= i+win; j++ {
				if j < 0 || j >= len(means) || residues[j].Chain != residues[i].Chain {
					continue
				}
				sum += means[j]
				cnt++
			}
			ret[i] = sum / float64(cnt)
		}
		return ret, nil
	}
	return nil, melt.NewError(melt.Configuration, "sasa.Scores", "unknown neighbor scheme %q", o.Scheme())
}

func sumOf(row []float64, indexes []int) float64 {
	var ret float64
	for _, i := range indexes {
		ret += row[i]
	}
	return ret
}

// resScore is the exposure score of one residue.
type resScore struct {
	Score float64
	Index int
}

func (R *resScore) str() string {
	return fmt.Sprintf("S: %6.3f ID: %d", R.Score, R.Index)
}

// RankList is a set of residue scores. It implements sort.Interface; ties are broken by
// residue index, so the order is always fully determined.
type RankList []*resScore

// Rank returns a RankList for the given scores, sorted from the lowest (most buried) to
// the highest (most exposed) score.
func Rank(scores []float64) RankList {
	ret := make(RankList, len(scores))
	for i, v := range scores {
		ret[i] = &resScore{Score: v, Index: i}
	}
	sort.Sort(ret)
	return ret
}

func (R RankList) Swap(i, j int) {
	R[i], R[j] = R[j], R[i]
}

// Less returns true if the score of the element i is smaller than that of
// the element j, or if both are equal and i has the lower residue index.
func (R RankList) Less(i, j int) bool {
	if R[i].Score == R[j].Score {
		return R[i].Index < R[j].Index
	}
	return R[i].Score < R[j].Score
}

func (R RankList) Len() int {
	return len(R)
}

// Score returns the score of the element i.
func (R RankList) Score(i int) float64 {
	return R[i].Score
}

// Index returns the residue index of the element i.
func (R RankList) Index(i int) int {
	return R[i].Index
}

// Indexes returns a slice with the residue indexes of all the elements.
func (R RankList) Indexes() []int {
	ret := make([]int, len(R))
	for i := range R {
		ret[i] = R[i].Index
	}
	return ret
}

// String produces a string representation of the list.
func (R RankList) String() string {
	retslice := make([]string, len(R))
	for i := range R {
		retslice[i] = R[i].str()
	}
	return strings.Join(retslice, "\n")
}
