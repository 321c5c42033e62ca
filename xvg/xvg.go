/*
 * xvg.go, part of gomelt.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	melt "github.com/rmera/gomelt"
	"gonum.org/v1/gonum/mat"
)

// Options for reading xvg files.
type Options struct {
	timeUnit string
}

// DefaultOptions returns an Options with the default options.
func DefaultOptions() *Options {
	return &Options{timeUnit: "ps"}
}

// TimeUnit returns the time unit assumed for files without an x axis label, and sets
// it, if a valid value (ps or ns) is given.
func (o *Options) TimeUnit(unit ...string) string {
	ret := o.timeUnit
	if len(unit) > 0 {
		if _, ok := unitToNs[unit[0]]; ok {
			o.timeUnit = unit[0]
		}
	}
	return ret
}

var unitToNs = map[string]float64{
	"fs": 1e-6,
	"ps": 1e-3,
	"ns": 1,
	"us": 1e3,
}

// xAxisUnit extracts the unit from a line like @    xaxis  label "Time (ps)".
// It returns an empty string if the line is not an x axis label or carries no unit.
func xAxisUnit(line string) string {
	if !strings.Contains(line, "xaxis") || !strings.Contains(line, "label") {
		return ""
	}
	i := strings.LastIndex(line, "(")
	j := strings.LastIndex(line, ")")
	if i < 0 || j < i {
		return ""
	}
	return strings.TrimSpace(line[i+1 : j])
}

// ReadFile reads the xvg file name, which must follow the given schema.
func ReadFile(name string, schema Schema, region string, temperature float64, options ...*Options) (*melt.TimeSeries, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, melt.NewError(melt.MissingInput, "xvg.ReadFile", "%s", err.Error())
	}
	defer f.Close()
	ts, err := Read(f, schema, region, temperature, options...)
	if err != nil {
		return nil, melt.ErrDecorate(err, "xvg.ReadFile: "+name)
	}
	return ts, nil
}

// Read parses an xvg stream following the given schema. The first column is the x axis
// (time for time-indexed kinds, converted to ns), the rest are the values. Every data row
// must have the number of value columns declared by the schema.
func Read(r io.Reader, schema Schema, region string, temperature float64, options ...*Options) (*melt.TimeSeries, error) {
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	}
	unit := ""
	var x, data []float64
	cols := -1
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineno := 1; s.Scan(); lineno++ {
		line := strings.TrimSpace(s.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if line[0] == '@' {
			if u := xAxisUnit(line); u != "" && unit == "" {
				unit = u
			}
			continue
		}
		fields := strings.Fields(line)
		if cols < 0 {
			cols = len(fields) - 1
			if !schema.accepts(cols) {
				return nil, melt.NewError(melt.MalformedTimeSeries, "xvg.Read", "%s: %d value columns at line %d do not match the schema", schema.Name, cols, lineno)
			}
		}
		if len(fields)-1 != cols {
			return nil, melt.NewError(melt.MalformedTimeSeries, "xvg.Read", "%s: line %d has %d value columns, expected %d", schema.Name, lineno, len(fields)-1, cols)
		}
		for i, v := range fields {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, melt.NewError(melt.MalformedTimeSeries, "xvg.Read", "%s: can't parse field %d at line %d: %s", schema.Name, i, lineno, err.Error())
			}
			if i == 0 {
				x = append(x, f)
			} else {
				data = append(data, f)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "xvg.Read", "%s: %s", schema.Name, err.Error())
	}
	if len(x) == 0 {
		return nil, melt.NewError(melt.MissingInput, "xvg.Read", "%s (region %q) at %vK: no data rows", schema.Name, region, temperature)
	}
	if schema.Kind.TimeIndexed() {
		if unit == "" {
			unit = o.timeUnit
		}
		scale, ok := unitToNs[unit]
		if !ok {
			return nil, melt.NewError(melt.MalformedTimeSeries, "xvg.Read", "%s: unknown time unit %q", schema.Name, unit)
		}
		for i := range x {
			x[i] *= scale
		}
	}
	obs := schema.Observable(region, temperature, cols)
	ts, err := melt.NewTimeSeries(obs, x, mat.NewDense(len(x), cols, data))
	if err != nil {
		return nil, melt.ErrDecorate(err, "xvg.Read")
	}
	return ts, nil
}

// ParseEntropyLog reads the output of gmx anaeig -entropy, and returns the
// Schlitter and quasiharmonic conformational entropies (J/mol K) that it finds.
func ParseEntropyLog(r io.Reader) (map[string]float64, error) {
	ret := make(map[string]float64, 2)
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if !strings.Contains(line, "Entropy") || !strings.Contains(line, "J/mol K") {
			continue
		}
		var key string
		switch {
		case strings.Contains(line, "Schlitter"):
			key = melt.Schlitter
		case strings.Contains(line, "Quasiharmonic"):
			key = melt.Quasiharmonic
		default:
			continue
		}
		fields := strings.Fields(line)
		for i, v := range fields {
			if v != "is" || i+1 >= len(fields) {
				continue
			}
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, melt.NewError(melt.MalformedTimeSeries, "ParseEntropyLog", "can't parse entropy in %q", line)
			}
			ret[key] = f
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "ParseEntropyLog", "%s", err.Error())
	}
	if len(ret) == 0 {
		return nil, melt.NewError(melt.MissingInput, "ParseEntropyLog", "no entropy found")
	}
	return ret, nil
}

// FileName returns the name used by the MD driver for the file of an observable,
// such as gyr_cdrs_350.xvg, or rmsd_300.xvg for whole-molecule observables.
func FileName(name, region string, temperature float64) string {
	if region == "" {
		return fmt.Sprintf("%s_%s.xvg", name, melt.FormatNumber(temperature))
	}
	return fmt.Sprintf("%s_%s_%s.xvg", name, region, melt.FormatNumber(temperature))
}
