/*
 * store.go, part of gomelt.
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

// Package store saves the feature vectors computed for a molecule, and loads them back,
// so a finished computation doesn't need to be repeated.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/features"
	"github.com/vmihailenco/msgpack/v5"
)

// File names used in a work directory.
const (
	CSVFile      = "descriptors.csv"
	SnapshotFile = "descriptors.msgpack"
)

// Record is a saved feature vector.
type Record struct {
	RunID    string          `msgpack:"run_id"`
	Molecule string          `msgpack:"molecule"`
	Created  time.Time       `msgpack:"created"`
	Features features.Vector `msgpack:"features"`
}

// Leading CSV columns that are not features.
const (
	moleculeColumn = "molecule"
	runColumn      = "run_id"
)

// WriteCSV writes the record as a two-line CSV: a header with the molecule, the run id and
// the feature names (sorted), and a line with the values.
func WriteCSV(w io.Writer, rec *Record) error {
	names := rec.Features.Names()
	header := append([]string{moleculeColumn, runColumn}, names...)
	row := make([]string, 0, len(header))
	row = append(row, rec.Molecule, rec.RunID)
	for _, n := range names {
		row = append(row, strconv.FormatFloat(rec.Features[n], 'g', -1, 64))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a record written by WriteCSV. Files with only feature columns are also read.
func ReadCSV(r io.Reader) (*Record, error) {
	cr := csv.NewReader(r)
	lines, err := cr.ReadAll()
	if err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "store.ReadCSV", "%s", err.Error())
	}
	if len(lines) != 2 {
		return nil, melt.NewError(melt.MalformedTimeSeries, "store.ReadCSV", "expected a header and one row, found %d lines", len(lines))
	}
	rec := &Record{Features: make(features.Vector, len(lines[0]))}
	for i, name := range lines[0] {
		v := lines[1][i]
		switch name {
		case moleculeColumn:
			rec.Molecule = v
			continue
		case runColumn:
			rec.RunID = v
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, melt.NewError(melt.MalformedTimeSeries, "store.ReadCSV", "feature %s: %s", name, err.Error())
		}
		rec.Features[name] = f
	}
	return rec, nil
}

// WriteSnapshot writes the record in MessagePack format.
func WriteSnapshot(w io.Writer, rec *Record) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(rec)
}

// ReadSnapshot reads a record written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Record, error) {
	rec := new(Record)
	if err := msgpack.NewDecoder(r).Decode(rec); err != nil {
		return nil, melt.NewError(melt.MalformedTimeSeries, "store.ReadSnapshot", "%s", err.Error())
	}
	return rec, nil
}

// Save writes the record to the work directory dir, both as CSV and as a snapshot.
func Save(dir string, rec *Record) error {
	for _, f := range []struct {
		name  string
		write func(io.Writer, *Record) error
	}{
		{CSVFile, WriteCSV},
		{SnapshotFile, WriteSnapshot},
	} {
		if err := writeFile(filepath.Join(dir, f.name), rec, f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, rec *Record, write func(io.Writer, *Record) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// Existing loads the record saved in the work directory dir, trying the CSV first and
// then the snapshot. If neither is there, it returns a MissingInput error.
func Existing(dir string) (*Record, error) {
	var errs []string
	for _, f := range []struct {
		name string
		read func(io.Reader) (*Record, error)
	}{
		{CSVFile, ReadCSV},
		{SnapshotFile, ReadSnapshot},
	} {
		name := filepath.Join(dir, f.name)
		fh, err := os.Open(name)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		rec, err := f.read(fh)
		fh.Close()
		if err != nil {
			errs = append(errs, name+": "+err.Error())
			continue
		}
		return rec, nil
	}
	return nil, melt.NewError(melt.MissingInput, "store.Existing", "no usable descriptors in %s: %v", dir, errs)
}
