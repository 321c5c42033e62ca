/*
 * mdio_test.go, part of gomelt.
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

package mdio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/traj/stf"
	v3 "github.com/rmera/gomelt/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var res = []melt.Residue{
	{Chain: "H", Number: 31, Region: "cdrh1"},
	{Chain: "H", Number: 52, Insertion: "A", Region: "cdrh2"},
	{Chain: "L", Number: 10, Region: melt.Framework},
}

func write(Te *testing.T, dir, name, content string) {
	require.NoError(Te, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// xvgSeries returns an xvg text with frames rows every 10 ps and cols value columns.
func xvgSeries(frames, cols int) string {
	var b strings.Builder
	b.WriteString("# gmx\n@    xaxis  label \"Time (ps)\"\n")
	for i := 0; i < frames; i++ {
		fmt.Fprintf(&b, "%d", i*10)
		for j := 0; j < cols; j++ {
			fmt.Fprintf(&b, " %.3f", float64(i+j)*0.1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestResidues(Te *testing.T) {
	var buf bytes.Buffer
	require.NoError(Te, WriteResidues(&buf, res))
	assert.Equal(Te, "H 31 cdrh1\nH 52A cdrh2\nL 10 framework\n", buf.String())
	r, err := ReadResidues(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, res, r)

	_, err = ReadResidues(strings.NewReader("H 31 cdrh1\nH 31 cdrh1\n"))
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
	_, err = ReadResidues(strings.NewReader("H x31 cdrh1\n"))
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
	_, err = ReadResidues(strings.NewReader("# nothing\n"))
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
}

func TestParseName(Te *testing.T) {
	cases := []struct{ stem, schema, region string }{
		{"gyr_cdrs", "gyr", "cdrs"},
		{"bonds_lh", "bonds_lh", ""},
		{"bonds", "bonds", ""},
		{"res_sasa", "res_sasa", ""},
		{"sasa_cdrh3", "sasa", "cdrh3"},
		{"potential_cdrl1", "potential", "cdrl1"},
	}
	for _, c := range cases {
		s, r, ok := parseName(c.stem)
		require.True(Te, ok, c.stem)
		assert.Equal(Te, c.schema, s.Name, c.stem)
		assert.Equal(Te, c.region, r, c.stem)
	}
	_, _, ok := parseName("charge_cdrs")
	assert.False(Te, ok)
}

func TestLoad(Te *testing.T) {
	dir := Te.TempDir()
	var buf bytes.Buffer
	require.NoError(Te, WriteResidues(&buf, res))
	write(Te, dir, ResidueFile, buf.String())
	for _, t := range []string{"300", "350"} {
		write(Te, dir, "gyr_cdrs_"+t+".xvg", xvgSeries(50, 4))
		write(Te, dir, "bonds_"+t+".xvg", xvgSeries(50, 2))
		write(Te, dir, "res_sasa_"+t+".xvg", xvgSeries(50, len(res)))
		write(Te, dir, "rmsf_cdrs_"+t+".xvg", "1 0.1\n2 0.2\n3 0.3\n")
		write(Te, dir, "charge_cdrs_"+t+".xvg", "garbage that is never read\n")
		write(Te, dir, "sconf_"+t+".log", "The Entropy due to the Schlitter formula is 4321.5 J/mol K\n")
	}
	write(Te, dir, "gyr_cdrs_400.xvg", "not even read, 400K is not requested")
	b := &melt.BondTrajectory{Residues: res, Interval: 0.01}
	for i := 0; i < 60; i++ {
		f := v3.Zeros(len(res))
		for j := range res {
			f.Set(j, 2, 1)
			f.Set(j, 0, 0.1*math.Sin(float64(i+j)))
		}
		b.Frames = append(b.Frames, f)
	}
	require.NoError(Te, stf.WriteBonds(filepath.Join(dir, BondsFile(300)), b))

	bundles, err := Load(dir, []float64{300, 350})
	require.NoError(Te, err)
	require.Len(Te, bundles, 2)
	b300 := bundles[0]
	assert.Equal(Te, 300.0, b300.Temperature)
	assert.Len(Te, b300.Observables, 3)
	gyr, err := b300.Observable("gyr", "cdrs")
	require.NoError(Te, err)
	assert.InDelta(Te, 0.01, gyr.Interval(), 1e-12)
	assert.InDelta(Te, 0.6, b300.Duration, 1e-9, "the bonds trajectory is the longest series")
	require.NotNil(Te, b300.SASA)
	assert.Equal(Te, len(res), b300.SASA.Cols())
	require.NotNil(Te, b300.Bonds)
	assert.Equal(Te, 60, b300.Bonds.Len())
	assert.Equal(Te, 4321.5, b300.Entropy[melt.Schlitter])
	assert.NoError(Te, b300.Validate(0.2))

	assert.Nil(Te, bundles[1].Bonds)
	assert.InDelta(Te, 0.5, bundles[1].Duration, 1e-9)

	_, err = Load(dir, []float64{300, 310})
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
}

func TestLoadNeedsResidues(Te *testing.T) {
	dir := Te.TempDir()
	write(Te, dir, "res_sasa_300.xvg", xvgSeries(10, 3))
	_, err := Load(dir, []float64{300})
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))
}
