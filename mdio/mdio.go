/*
 * mdio.go, part of gomelt.
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

// Package mdio reads the files the MD driver leaves in a work directory into
// one melt.Bundle per temperature.
//
// The files understood are, for each temperature T:
//
//	{observable}[_{region}]_{T}.xvg  any observable in xvg.Catalog
//	res_sasa_{T}.xvg                per-residue SASA, one column per residue
//	bonds_{T}.stf                   backbone bond vectors (see traj/stf)
//	sconf_{T}.log                   gmx anaeig entropy output
//
// plus residues.txt, with one line per residue: chain, number (with insertion code, if
// any) and region. Other files are ignored.
package mdio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/traj/stf"
	"github.com/rmera/gomelt/xvg"
)

// ResidueFile is the name of the residue table in a work directory.
const ResidueFile = "residues.txt"

// BondsFile returns the name of the bond-vector trajectory for a temperature.
func BondsFile(temperature float64) string {
	return fmt.Sprintf("bonds_%s.stf", melt.FormatNumber(temperature))
}

// EntropyFile returns the name of the entropy log for a temperature.
func EntropyFile(temperature float64) string {
	return fmt.Sprintf("sconf_%s.log", melt.FormatNumber(temperature))
}

// entry is an xvg file in the work directory, already matched to a schema.
type entry struct {
	path   string
	schema xvg.Schema
	region string
}

// parseName matches the stem of an xvg file name, without the temperature, to a schema.
func parseName(stem string) (xvg.Schema, string, bool) {
	for _, name := range xvg.Names() {
		if stem == name {
			return xvg.Catalog[name], "", true
		}
		if strings.HasPrefix(stem, name+"_") {
			return xvg.Catalog[name], strings.TrimPrefix(stem, name+"_"), true
		}
	}
	return xvg.Schema{}, "", false
}

// scan returns the xvg files in dir for each of the given temperatures.
func scan(dir string, temps []float64) (map[float64][]entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, melt.NewError(melt.MissingInput, "mdio.scan", "%s", err.Error())
	}
	want := make(map[string]float64, len(temps))
	for _, t := range temps {
		want[melt.FormatNumber(t)] = t
	}
	ret := make(map[float64][]entry)
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".xvg") {
			continue
		}
		stem := strings.TrimSuffix(name, ".xvg")
		i := strings.LastIndex(stem, "_")
		if i < 0 {
			continue
		}
		t, ok := want[stem[i+1:]]
		if !ok {
			continue
		}
		schema, region, ok := parseName(stem[:i])
		if !ok {
			continue
		}
		ret[t] = append(ret[t], entry{path: filepath.Join(dir, name), schema: schema, region: region})
	}
	return ret, nil
}

// Load reads the bundles for the given temperatures from the work directory dir.
// Every temperature must have at least one observable.
func Load(dir string, temps []float64, options ...*xvg.Options) ([]*melt.Bundle, error) {
	files, err := scan(dir, temps)
	if err != nil {
		return nil, melt.ErrDecorate(err, "mdio.Load")
	}
	var residues []melt.Residue
	resfile := filepath.Join(dir, ResidueFile)
	if _, err := os.Stat(resfile); err == nil {
		residues, err = ReadResiduesFile(resfile)
		if err != nil {
			return nil, melt.ErrDecorate(err, "mdio.Load")
		}
	}
	ret := make([]*melt.Bundle, 0, len(temps))
	for _, t := range temps {
		b, err := loadTemperature(dir, t, files[t], residues, options...)
		if err != nil {
			return nil, melt.ErrDecorate(err, fmt.Sprintf("mdio.Load: %vK", t))
		}
		ret = append(ret, b)
	}
	return ret, nil
}

func loadTemperature(dir string, t float64, files []entry, residues []melt.Residue, options ...*xvg.Options) (*melt.Bundle, error) {
	if len(files) == 0 {
		return nil, melt.NewError(melt.MissingInput, "loadTemperature", "no observables for %vK in %s", t, dir)
	}
	b := &melt.Bundle{Temperature: t, Residues: residues}
	for _, f := range files {
		ts, err := xvg.ReadFile(f.path, f.schema, f.region, t, options...)
		if err != nil {
			return nil, melt.ErrDecorate(err, "loadTemperature")
		}
		if f.schema.Kind == melt.PerResidue {
			if residues == nil {
				return nil, melt.NewError(melt.MissingInput, "loadTemperature", "%s needs the residue table %s", f.path, ResidueFile)
			}
			b.SASA = ts
		} else {
			b.Observables = append(b.Observables, ts)
		}
		if ts.Observable.Kind.TimeIndexed() {
			b.Duration = max(b.Duration, ts.Start()+ts.Duration())
		}
	}
	bonds := filepath.Join(dir, BondsFile(t))
	if _, err := os.Stat(bonds); err == nil {
		if residues == nil {
			return nil, melt.NewError(melt.MissingInput, "loadTemperature", "%s needs the residue table %s", bonds, ResidueFile)
		}
		b.Bonds, err = stf.ReadBonds(bonds, residues)
		if err != nil {
			return nil, melt.ErrDecorate(err, "loadTemperature")
		}
		b.Duration = max(b.Duration, b.Bonds.Start+float64(b.Bonds.Len())*b.Bonds.Interval)
	}
	entropy := filepath.Join(dir, EntropyFile(t))
	if f, err := os.Open(entropy); err == nil {
		b.Entropy, err = xvg.ParseEntropyLog(f)
		f.Close()
		if err != nil {
			return nil, melt.ErrDecorate(err, "loadTemperature: "+entropy)
		}
	}
	return b, nil
}

// ReadResiduesFile reads a residue table file. See ReadResidues.
func ReadResiduesFile(name string) ([]melt.Residue, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, melt.NewError(melt.MissingInput, "ReadResiduesFile", "%s", err.Error())
	}
	defer f.Close()
	ret, err := ReadResidues(f)
	if err != nil {
		return nil, melt.ErrDecorate(err, "ReadResiduesFile: "+name)
	}
	return ret, nil
}

// ReadResidues reads a residue table: one residue per line, as chain, number and region,
// separated by spaces, such as "H 52A cdrh2". Empty lines and lines starting with #
// are skipped. A residue may not appear twice.
func ReadResidues(r io.Reader) ([]melt.Residue, error) {
	var ret []melt.Residue
	seen := make(map[string]bool)
	s := bufio.NewScanner(r)
	for lineno := 1; s.Scan(); lineno++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, melt.NewError(melt.MalformedTimeSeries, "ReadResidues", "line %d: expected chain, number and region, got %q", lineno, line)
		}
		num, ins := splitInsertion(fields[1])
		n, err := strconv.Atoi(num)
		if err != nil {
			return nil, melt.NewError(melt.MalformedTimeSeries, "ReadResidues", "line %d: bad residue number %q", lineno, fields[1])
		}
		res := melt.Residue{Chain: fields[0], Number: n, Insertion: ins, Region: fields[2]}
		if seen[res.ID()] {
			return nil, melt.NewError(melt.MalformedTimeSeries, "ReadResidues", "line %d: residue %s given twice", lineno, res.ID())
		}
		seen[res.ID()] = true
		ret = append(ret, res)
	}
	if err := s.Err(); err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "ReadResidues", "%s", err.Error())
	}
	if len(ret) == 0 {
		return nil, melt.NewError(melt.MissingInput, "ReadResidues", "no residues")
	}
	return ret, nil
}

// WriteResidues writes a residue table that ReadResidues can read.
func WriteResidues(w io.Writer, residues []melt.Residue) error {
	bw := bufio.NewWriter(w)
	for _, r := range residues {
		if _, err := fmt.Fprintf(bw, "%s %d%s %s\n", r.Chain, r.Number, r.Insertion, r.Region); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// splitInsertion separates a residue number like 52A into "52" and "A".
func splitInsertion(s string) (string, string) {
	i := strings.LastIndexFunc(s, unicode.IsDigit)
	return s[:i+1], s[i+1:]
}
