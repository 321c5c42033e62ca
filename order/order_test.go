/*
 * order_test.go, part of gomelt.
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
	"errors"
	"math"
	"sync"
	"testing"

	melt "github.com/rmera/gomelt"
	v3 "github.com/rmera/gomelt/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testResidues = []melt.Residue{
	{Chain: "H", Number: 30, Region: "cdrh1"},
	{Chain: "H", Number: 70, Region: melt.Framework},
	{Chain: "L", Number: 91, Region: "cdrl3"},
}

// wobbling returns a trajectory where every bond vector alternates between the z axis and
// a vector at angle theta from it, so its S2 is analytic (see wobbleS2).
func wobbling(frames int, interval, theta float64) *melt.BondTrajectory {
	b := &melt.BondTrajectory{Residues: testResidues, Interval: interval}
	for i := 0; i < frames; i++ {
		f := v3.Zeros(len(testResidues))
		for j := range testResidues {
			if i%2 == 0 {
				f.Set(j, 2, 1.5) //not normalized on purpose
			} else {
				f.Set(j, 0, math.Sin(theta))
				f.Set(j, 2, math.Cos(theta))
			}
		}
		b.Frames = append(b.Frames, f)
	}
	return b
}

func wobbleS2(theta float64) float64 {
	c := math.Cos(theta)
	return S2Const * (0.25 + 0.75*c*c)
}

func TestRigidBond(Te *testing.T) {
	frames := make([]*v3.Matrix, 10)
	for i := range frames {
		frames[i] = v3.Zeros(1)
		frames[i].Set(0, 0, 0.3)
		frames[i].Set(0, 1, -0.4)
		frames[i].Set(0, 2, 1.2)
	}
	s2, err := BlockS2(frames, 0)
	require.NoError(Te, err)
	assert.InDelta(Te, 0.89, s2, 1e-12)
}

func TestWobblingBond(Te *testing.T) {
	b := wobbling(10, 0.1, math.Pi/3)
	s2, err := BlockS2(b.Frames, 1)
	require.NoError(Te, err)
	assert.InDelta(Te, wobbleS2(math.Pi/3), s2, 1e-12)
}

func TestBlockS2Failures(Te *testing.T) {
	b := wobbling(4, 0.1, 0.2)
	b.Frames[2].Set(1, 0, math.NaN())
	_, err := BlockS2(b.Frames, 1)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
	_, err = BlockS2(b.Frames, 0)
	assert.NoError(Te, err, "only residue 1 is missing")

	b = wobbling(4, 0.1, 0.2)
	b.Frames[3].Set(2, 0, 0)
	b.Frames[3].Set(2, 2, 0)
	_, err = BlockS2(b.Frames, 2)
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability))
}

func TestBlockFrames(Te *testing.T) {
	n, err := BlockFrames(2.5, 0.01)
	require.NoError(Te, err)
	assert.Equal(Te, 250, n)
	n, err = BlockFrames(25, 0.1)
	require.NoError(Te, err)
	assert.Equal(Te, 250, n)
	_, err = BlockFrames(2.55, 0.1)
	assert.True(Te, errors.Is(err, melt.ErrConfiguration))
	_, err = BlockFrames(0, 0.1)
	assert.True(Te, errors.Is(err, melt.ErrConfiguration))
	_, err = BlockFrames(-2.5, 0.1)
	assert.True(Te, errors.Is(err, melt.ErrConfiguration))
}

func TestBlocksOn80nsWindow(Te *testing.T) {
	//100 ns sampled every 0.1 ns, equilibration 20 ns: 800 production frames.
	w, err := melt.ProductionWindow(0, 0.1, 1000, 20)
	require.NoError(Te, err)
	require.Equal(Te, 800, w.Len())

	short, err := BlockFrames(2.5, 0.1)
	require.NoError(Te, err)
	blocks, err := Blocks(w, short, melt.TrailingDiscard)
	require.NoError(Te, err)
	assert.Len(Te, blocks, 32)
	assert.Equal(Te, melt.Window{Start: 200, End: 225}, blocks[0])
	assert.Equal(Te, melt.Window{Start: 975, End: 1000}, blocks[31])

	long, err := BlockFrames(25, 0.1)
	require.NoError(Te, err)
	blocks, err = Blocks(w, long, melt.TrailingDiscard)
	require.NoError(Te, err)
	assert.Len(Te, blocks, 3)
	assert.Equal(Te, melt.Window{Start: 700, End: 950}, blocks[2])

	blocks, err = Blocks(w, long, melt.TrailingInclude)
	require.NoError(Te, err)
	assert.Len(Te, blocks, 4)
	assert.Equal(Te, melt.Window{Start: 950, End: 1000}, blocks[3])

	_, err = Blocks(melt.Window{Start: 10, End: 20}, 25, melt.TrailingDiscard)
	assert.True(Te, errors.Is(err, melt.ErrInsufficientWindow))
}

func TestEngineBlockLengthsAreIndependent(Te *testing.T) {
	trajs := map[float64]*melt.BondTrajectory{300: wobbling(1000, 0.1, 0.3)}
	E, err := NewEngine(trajs, 20, nil)
	require.NoError(Te, err)
	short, err := E.Residue(0, 300, 2.5)
	require.NoError(Te, err)
	long, err := E.Residue(0, 300, 25)
	require.NoError(Te, err)
	assert.Len(Te, short.Blocks, 32)
	assert.Len(Te, long.Blocks, 3)
	//blocks of odd length don't sample both orientations equally, so the values differ.
	assert.InDelta(Te, wobbleS2(0.3), long.Mean, 1e-12)
	assert.NotEqual(Te, short.Mean, long.Mean)
}

func TestEngineMemoizes(Te *testing.T) {
	trajs := map[float64]*melt.BondTrajectory{
		300: wobbling(200, 0.1, 0.2),
		350: wobbling(200, 0.1, 0.4),
	}
	opts := DefaultOptions()
	opts.Cpus(4)
	E, err := NewEngine(trajs, 5, opts)
	require.NoError(Te, err)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := E.Lambda([]float64{300, 350}, 2)
			assert.NoError(Te, err)
			_, _, err = E.Stats(350, 2)
			assert.NoError(Te, err)
		}()
	}
	wg.Wait()
	assert.Equal(Te, 2*len(testResidues), E.Computed())
	_, err = E.Profile(300, 4)
	require.NoError(Te, err)
	assert.Equal(Te, 3*len(testResidues), E.Computed())
}

func TestEngineMissingInput(Te *testing.T) {
	b := wobbling(200, 0.1, 0.2)
	b.Frames[150].Set(2, 1, math.NaN())
	E, err := NewEngine(map[float64]*melt.BondTrajectory{300: b}, 5, nil)
	require.NoError(Te, err)
	_, err = E.Profile(300, 2)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput), "%v", err)
	_, err = E.Profile(350, 2)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
	//equilibration frames are never read.
	b = wobbling(200, 0.1, 0.2)
	b.Frames[10].Set(2, 1, math.NaN())
	E, err = NewEngine(map[float64]*melt.BondTrajectory{300: b}, 5, nil)
	require.NoError(Te, err)
	_, err = E.Profile(300, 2)
	assert.NoError(Te, err)
}

func TestNewEngineResidueMismatch(Te *testing.T) {
	b := wobbling(10, 0.1, 0.2)
	c := wobbling(10, 0.1, 0.2)
	c.Residues = testResidues[:2]
	_, err := NewEngine(map[float64]*melt.BondTrajectory{300: b, 350: c}, 0, nil)
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
}

func TestNewEngineBadOptions(Te *testing.T) {
	trajs := map[float64]*melt.BondTrajectory{300: wobbling(10, 0.1, 0.2)}
	_, err := NewEngine(trajs, 0, &Options{})
	assert.True(Te, errors.Is(err, melt.ErrConfiguration), "zero Options")
	o := DefaultOptions()
	assert.Equal(Te, melt.TrailingDiscard, o.Trailing("sometimes"))
	assert.Equal(Te, melt.TrailingDiscard, o.Trailing(), "unknown policy ignored")
	_, err = NewEngine(trajs, 0, o)
	assert.NoError(Te, err)
}

func TestFitLambdaRecoversSlope(Te *testing.T) {
	temps := []float64{300, 350, 400}
	const m, c = -0.4, 1.2
	s2 := make([]float64, len(temps))
	for i, t := range temps {
		y := m*math.Log(t) + c
		s := 1 - math.Exp(y)
		s2[i] = s * s
	}
	f, err := FitLambda(temps, s2)
	require.NoError(Te, err)
	assert.InDelta(Te, m, f.Slope, 1e-6)
	assert.InDelta(Te, c, f.Intercept, 1e-6)
	assert.InDelta(Te, 1.0, f.R2, 1e-9)
}

func TestFitLambdaErrors(Te *testing.T) {
	_, err := FitLambda([]float64{300}, []float64{0.5})
	assert.True(Te, errors.Is(err, melt.ErrInsufficientWindow))
	_, err = FitLambda([]float64{300, 350}, []float64{0.5, 1})
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability), "S2=1")
	_, err = FitLambda([]float64{300, 350}, []float64{-0.1, 0.5})
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability), "negative S2")
	_, err = FitLambda([]float64{300, 300}, []float64{0.4, 0.5})
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability), "same temperature")
	_, err = FitLambda([]float64{300, 350}, []float64{0.5, 0.5})
	assert.True(Te, errors.Is(err, melt.ErrNumericInstability), "undefined R2")
}

func TestEngineLambda(Te *testing.T) {
	temps := []float64{300, 350, 400}
	thetas := []float64{0.3, 0.5, 0.7}
	trajs := make(map[float64]*melt.BondTrajectory)
	want := make([]float64, len(temps))
	for i, t := range temps {
		trajs[t] = wobbling(400, 0.05, thetas[i])
		want[i] = wobbleS2(thetas[i])
	}
	E, err := NewEngine(trajs, 10, nil)
	require.NoError(Te, err)
	lf, err := E.Lambda(temps, 1)
	require.NoError(Te, err)
	ref, err := FitLambda(temps, want)
	require.NoError(Te, err)
	assert.InDelta(Te, ref.Slope, lf.Lambda, 1e-9)
	assert.InDelta(Te, ref.R2, lf.R2, 1e-9)
	assert.Len(Te, lf.Residues, len(testResidues))
	assert.Equal(Te, 1.0, lf.BlockLength)
	assert.Equal(Te, 10.0, lf.Equilibration)

	_, err = E.Lambda([]float64{300}, 1)
	assert.True(Te, errors.Is(err, melt.ErrInsufficientWindow))
}
