/*
 * engine.go, part of gomelt.
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

package order

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemstat"
	"golang.org/x/sync/errgroup"
)

// Key identifies one memoized order parameter.
type Key struct {
	Residue     int
	Temperature float64
	BlockLength float64
}

// ResidueS2 is the block-averaged order parameter of one residue at one temperature,
// for one block length.
type ResidueS2 struct {
	Residue melt.Residue
	Blocks  []float64 //S2 of each block, in time order
	Mean    float64
}

type entry struct {
	once sync.Once
	val  *ResidueS2
	err  error
}

// Engine computes the order parameters of one molecule. Each (residue, temperature,
// block length) value is computed at most once and then served from a cache, so the
// Engine can be shared among goroutines. The trajectories must not be modified
// while the Engine is in use.
type Engine struct {
	equilibration float64
	opts          *Options
	trajs         map[float64]*melt.BondTrajectory
	residues      []melt.Residue
	mu            sync.Mutex
	cache         map[Key]*entry
	computed      atomic.Int64
}

// NewEngine returns an Engine for the bond trajectories of one molecule, given by
// temperature. All trajectories must have the same residues, in the same order.
// Options with invalid values (the setters ignore them, but a zero Options has them)
// are a Configuration error.
func NewEngine(trajs map[float64]*melt.BondTrajectory, equilibration float64, opts *Options) (*Engine, error) {
	if len(trajs) == 0 {
		return nil, melt.NewError(melt.MissingInput, "order.NewEngine", "no bond trajectories given")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Cpus() <= 0 {
		return nil, melt.NewError(melt.Configuration, "order.NewEngine", "non-positive number of goroutines %d", opts.Cpus())
	}
	if p := opts.Trailing(); p != melt.TrailingDiscard && p != melt.TrailingInclude {
		return nil, melt.NewError(melt.Configuration, "order.NewEngine", "unknown trailing block policy %q", p)
	}
	E := &Engine{equilibration: equilibration, opts: opts, trajs: trajs, cache: make(map[Key]*entry)}
	for _, t := range temperatures(trajs) {
		tr := trajs[t]
		if tr == nil {
			return nil, melt.NewError(melt.MissingInput, "order.NewEngine", "nil bond trajectory at %vK", t)
		}
		if E.residues == nil {
			E.residues = tr.Residues
			continue
		}
		if len(tr.Residues) != len(E.residues) {
			return nil, melt.NewError(melt.MalformedTimeSeries, "order.NewEngine", "%d residues at %vK, but %d at other temperatures", len(tr.Residues), t, len(E.residues))
		}
		for i, r := range tr.Residues {
			if r.ID() != E.residues[i].ID() {
				return nil, melt.NewError(melt.MalformedTimeSeries, "order.NewEngine", "residue %d is %s at %vK but %s at other temperatures", i, r.ID(), t, E.residues[i].ID())
			}
		}
	}
	return E, nil
}

// Residues returns the residues of the molecule.
func (E *Engine) Residues() []melt.Residue { return E.residues }

// Equilibration returns the equilibration time (ns) the engine discards.
func (E *Engine) Equilibration() float64 { return E.equilibration }

// Computed returns how many order parameters have actually been computed (not
// served from the cache) so far.
func (E *Engine) Computed() int { return int(E.computed.Load()) }

// Residue returns the order parameter of residue i at temperature T, with the given
// block length.
func (E *Engine) Residue(i int, T, blockLength float64) (*ResidueS2, error) {
	traj, ok := E.trajs[T]
	if !ok {
		return nil, melt.NewError(melt.MissingInput, "Engine.Residue", "no bond trajectory at %vK", T)
	}
	if i < 0 || i >= len(E.residues) {
		return nil, melt.NewError(melt.MissingInput, "Engine.Residue", "no residue %d at %vK", i, T)
	}
	k := Key{Residue: i, Temperature: T, BlockLength: blockLength}
	E.mu.Lock()
	e, ok := E.cache[k]
	if !ok {
		e = new(entry)
		E.cache[k] = e
	}
	E.mu.Unlock()
	e.once.Do(func() {
		E.computed.Add(1)
		blocks, err := blockS2s(traj, i, E.equilibration, blockLength, E.opts.Trailing())
		if err != nil {
			e.err = err
			return
		}
		mean, _, err := chemstat.MeanStd(blocks)
		if err != nil {
			e.err = err
			return
		}
		e.val = &ResidueS2{Residue: E.residues[i], Blocks: blocks, Mean: mean}
	})
	if e.err != nil {
		//the cached error is shared, so it's not decorated further.
		return nil, e.err
	}
	return e.val, nil
}

// Profile returns the block-averaged S2 of every residue at temperature T, in
// residue order. Residues are processed concurrently.
func (E *Engine) Profile(T, blockLength float64) ([]float64, error) {
	if _, ok := E.trajs[T]; !ok {
		return nil, melt.NewError(melt.MissingInput, "Engine.Profile", "no bond trajectory at %vK", T)
	}
	ret := make([]float64, len(E.residues))
	var g errgroup.Group
	g.SetLimit(E.opts.Cpus())
	for i := range E.residues {
		i := i
		g.Go(func() error {
			r, err := E.Residue(i, T, blockLength)
			if err != nil {
				return err
			}
			ret[i] = r.Mean
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("Engine.Profile at %vK, block length %v: %w", T, blockLength, err)
	}
	return ret, nil
}

// Stats returns the mean and standard deviation, over residues, of the block-averaged
// S2 at temperature T.
func (E *Engine) Stats(T, blockLength float64) (mean, std float64, err error) {
	p, err := E.Profile(T, blockLength)
	if err != nil {
		return 0, 0, err
	}
	return chemstat.MeanStd(p)
}

// Temperatures returns the temperatures with a trajectory, sorted.
func (E *Engine) Temperatures() []float64 { return temperatures(E.trajs) }

func temperatures(trajs map[float64]*melt.BondTrajectory) []float64 {
	ret := make([]float64, 0, len(trajs))
	for t := range trajs {
		ret = append(ret, t)
	}
	sort.Float64s(ret)
	return ret
}
