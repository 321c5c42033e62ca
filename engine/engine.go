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

// Package engine computes the feature vector of one molecule from the data the MD
// driver produced at each temperature.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemstat"
	"github.com/rmera/gomelt/features"
	"github.com/rmera/gomelt/order"
	"github.com/rmera/gomelt/sasa"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine runs the descriptor pipeline with a fixed configuration. It holds no state
// between runs, so one Engine can process many molecules, also concurrently.
type Engine struct {
	cfg       *melt.Config
	log       *zap.SugaredLogger
	requested []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger of the engine. By default nothing is logged.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(E *Engine) {
		if l != nil {
			E.log = l
		}
	}
}

// New returns an Engine for the given configuration, which is validated first.
func New(cfg *melt.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = melt.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, melt.ErrDecorate(err, "engine.New")
	}
	req, err := features.Requested(cfg.Features, cfg.Models)
	if err != nil {
		return nil, melt.ErrDecorate(err, "engine.New")
	}
	E := &Engine{cfg: cfg, log: zap.NewNop().Sugar(), requested: req}
	for _, o := range opts {
		o(E)
	}
	return E, nil
}

// Config returns the configuration of the engine.
func (E *Engine) Config() *melt.Config { return E.cfg }

// Result is everything computed for one molecule.
type Result struct {
	RunID    string
	Molecule string
	Vector   features.Vector
	Lambda   []*order.LambdaFit //one per block length, if lambda was computed
	SASA     []*sasa.Aggregate  //one per temperature, if SASA was given
	Residues []melt.Residue     //the residues of the order parameter profiles
	//Profiles[block length][temperature] is the block-averaged S2 of each residue.
	Profiles map[float64]map[float64][]float64
}

// perTemperature holds the features computed independently at one temperature.
type perTemperature struct {
	values map[string]float64
	sasa   *sasa.Aggregate
}

// Run computes the feature vector of a molecule from one bundle per configured
// temperature. Any failure aborts the whole run; no partial vector is returned.
func (E *Engine) Run(ctx context.Context, molecule string, bundles []*melt.Bundle) (*Result, error) {
	ret := &Result{RunID: uuid.NewString(), Molecule: molecule}
	log := E.log.With("run", ret.RunID, "molecule", molecule)
	res, err := E.run(ctx, log, ret, bundles)
	if err != nil {
		log.Errorw("descriptor computation failed", "error", err)
		return nil, err
	}
	log.Infow("descriptor computation finished", "features", len(res.Vector))
	return res, nil
}

func (E *Engine) run(ctx context.Context, log *zap.SugaredLogger, ret *Result, bundles []*melt.Bundle) (*Result, error) {
	cfg := E.cfg
	temps, byT, err := E.index(bundles)
	if err != nil {
		return nil, err
	}
	per := make([]perTemperature, len(temps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Cpus)
	for i, t := range temps {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log.Debugw("computing per-temperature features", "temperature", t)
			p, err := E.temperature(byT[t])
			if err != nil {
				return melt.ErrDecorate(err, fmt.Sprintf("Engine.Run: %vK", t))
			}
			per[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	A := features.NewAssembler()
	for i, p := range per {
		if err := A.Merge(p.values); err != nil {
			return nil, melt.ErrDecorate(err, fmt.Sprintf("Engine.Run: %vK", temps[i]))
		}
		if p.sasa != nil {
			ret.SASA = append(ret.SASA, p.sasa)
		}
	}
	if err := E.orderFeatures(ctx, log, A, ret, temps, byT); err != nil {
		return nil, err
	}
	if len(ret.SASA) > 0 {
		if len(ret.SASA) != len(temps) {
			return nil, melt.NewError(melt.MissingInput, "Engine.Run", "per-residue SASA given for %d of %d temperatures", len(ret.SASA), len(temps))
		}
		ys := make([]float64, len(temps))
		for _, key := range sasa.Keys {
			for i, a := range ret.SASA {
				ys[i] = a.Values()[key]
			}
			s, err := chemstat.Slope(temps, ys)
			if err != nil {
				return nil, melt.ErrDecorate(err, "Engine.Run: SASA slope "+key)
			}
			if err := A.Set(features.SASASlopeName(key, cfg.CoreSurfaceK, cfg.Equilibration), s); err != nil {
				return nil, melt.ErrDecorate(err, "Engine.Run")
			}
		}
	}
	ret.Vector, err = A.Vector(E.requested)
	if err != nil {
		return nil, melt.ErrDecorate(err, "Engine.Run")
	}
	return ret, nil
}

// index checks that there is exactly one valid bundle per configured temperature, and
// returns the temperatures, sorted, and the bundles by temperature.
func (E *Engine) index(bundles []*melt.Bundle) ([]float64, map[float64]*melt.Bundle, error) {
	cfg := E.cfg
	byT := make(map[float64]*melt.Bundle, len(bundles))
	for _, b := range bundles {
		if b == nil {
			return nil, nil, melt.NewError(melt.MissingInput, "Engine.Run", "nil bundle")
		}
		if _, ok := byT[b.Temperature]; ok {
			return nil, nil, melt.NewError(melt.Configuration, "Engine.Run", "two bundles for %vK", b.Temperature)
		}
		byT[b.Temperature] = b
	}
	temps := append([]float64(nil), cfg.Temperatures...)
	sort.Float64s(temps)
	for _, t := range temps {
		b, ok := byT[t]
		if !ok {
			return nil, nil, melt.NewError(melt.MissingInput, "Engine.Run", "no simulation data at %vK", t)
		}
		if err := b.Validate(cfg.Equilibration); err != nil {
			return nil, nil, melt.ErrDecorate(err, "Engine.Run")
		}
	}
	if len(byT) != len(temps) {
		return nil, nil, melt.NewError(melt.Configuration, "Engine.Run", "%d bundles given for %d configured temperatures", len(byT), len(temps))
	}
	return temps, byT, nil
}

// temperature computes the features that only need the data of one temperature.
func (E *Engine) temperature(b *melt.Bundle) (perTemperature, error) {
	cfg := E.cfg
	ret := perTemperature{values: make(map[string]float64)}
	add := func(m map[string]float64) error {
		for k, v := range m {
			if _, ok := ret.values[k]; ok {
				return melt.NewError(melt.Configuration, "temperature", "feature %s produced twice", k)
			}
			ret.values[k] = v
		}
		return nil
	}
	for _, ts := range b.Observables {
		st, err := features.ObservableStats(ts, cfg.Equilibration)
		if err != nil {
			return ret, err
		}
		if err := add(st); err != nil {
			return ret, err
		}
	}
	for _, method := range []string{melt.Schlitter, melt.Quasiharmonic} {
		if v, ok := b.Entropy[method]; ok {
			if err := add(map[string]float64{features.EntropyName(method, b.Temperature): v}); err != nil {
				return ret, err
			}
		}
	}
	if b.SASA == nil {
		return ret, nil
	}
	o := sasa.DefaultOptions()
	o.K(cfg.CoreSurfaceK)
	o.Scheme(cfg.NeighborScheme)
	o.Window(cfg.NeighborWindow)
	agg, err := sasa.Classify(b.SASA, b.Residues, cfg.Equilibration, o)
	if err != nil {
		return ret, err
	}
	ret.sasa = agg
	sv := make(map[string]float64, len(sasa.Keys))
	for k, v := range agg.Values() {
		sv[features.SASAName(k, b.Temperature)] = v
	}
	return ret, add(sv)
}

// orderFeatures computes the order parameter statistics and, if configured, the lambda
// fits, for every block length.
func (E *Engine) orderFeatures(ctx context.Context, log *zap.SugaredLogger, A *features.Assembler, ret *Result, temps []float64, byT map[float64]*melt.Bundle) error {
	cfg := E.cfg
	trajs := make(map[float64]*melt.BondTrajectory)
	for _, t := range temps {
		if byT[t].Bonds != nil {
			trajs[t] = byT[t].Bonds
		}
	}
	if len(trajs) == 0 {
		if cfg.ComputeLambda {
			return melt.NewError(melt.MissingInput, "Engine.Run", "lambda requested, but no bond trajectories given")
		}
		return nil
	}
	if len(trajs) != len(temps) {
		return melt.NewError(melt.MissingInput, "Engine.Run", "bond trajectories given for %d of %d temperatures", len(trajs), len(temps))
	}
	opts := order.DefaultOptions()
	opts.Cpus(cfg.Cpus)
	opts.Trailing(cfg.TrailingBlock)
	oe, err := order.NewEngine(trajs, cfg.Equilibration, opts)
	if err != nil {
		return melt.ErrDecorate(err, "Engine.Run")
	}
	ret.Residues = oe.Residues()
	ret.Profiles = make(map[float64]map[float64][]float64, len(cfg.BlockLengths))
	for _, bl := range cfg.BlockLengths {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debugw("computing order parameters", "block_length", bl)
		ret.Profiles[bl] = make(map[float64][]float64, len(temps))
		for _, t := range temps {
			p, err := oe.Profile(t, bl)
			if err != nil {
				return err
			}
			ret.Profiles[bl][t] = p
			mean, std, err := chemstat.MeanStd(p)
			if err != nil {
				return melt.ErrDecorate(err, fmt.Sprintf("Engine.Run: S2 at %vK", t))
			}
			err = A.Merge(map[string]float64{
				features.OrderS2Name(t, bl, features.Mu):  mean,
				features.OrderS2Name(t, bl, features.Std): std,
			})
			if err != nil {
				return melt.ErrDecorate(err, "Engine.Run")
			}
		}
		if !cfg.ComputeLambda {
			continue
		}
		lf, err := oe.Lambda(temps, bl)
		if err != nil {
			return err
		}
		log.Debugw("lambda fitted", "block_length", bl, "lambda", lf.Lambda, "r2", lf.R2)
		ret.Lambda = append(ret.Lambda, lf)
		err = A.Merge(map[string]float64{
			features.LambdaName(bl, cfg.Equilibration):   lf.Lambda,
			features.LambdaR2Name(bl, cfg.Equilibration): lf.R2,
			features.LambdaRName(bl, cfg.Equilibration):  lf.R2,
		})
		if err != nil {
			return melt.ErrDecorate(err, "Engine.Run")
		}
	}
	log.Debugw("order parameters done", "computed", oe.Computed())
	return nil
}
