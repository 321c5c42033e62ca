/*
 * store_test.go, part of gomelt.
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

package store

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	return &Record{
		RunID:    "2b1f8c1e-5d55-4c4c-9d3e-3c1f6d0e8a11",
		Molecule: "mab1",
		Created:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Features: features.Vector{
			"rmsf_cdrs_mu_400":          0.1 + 0.2,
			"all-temp_lamda_b=25_eq=20": -1.0 / 3.0,
			"gyr_cdrs_Rg_std_350":       math.SmallestNonzeroFloat64,
		},
	}
}

func TestCSVKeepsEveryBit(Te *testing.T) {
	var buf bytes.Buffer
	rec := testRecord()
	require.NoError(Te, WriteCSV(&buf, rec))
	got, err := ReadCSV(&buf)
	require.NoError(Te, err)
	assert.Equal(Te, rec.Molecule, got.Molecule)
	assert.Equal(Te, rec.RunID, got.RunID)
	assert.Equal(Te, rec.Features, got.Features)

	_, err = ReadCSV(bytes.NewBufferString("a,b\n1,2\n3,4\n"))
	assert.True(Te, errors.Is(err, melt.ErrMalformedTimeSeries))
}

func TestSaveAndReload(Te *testing.T) {
	dir := Te.TempDir()
	_, err := Existing(dir)
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))

	rec := testRecord()
	require.NoError(Te, Save(dir, rec))
	got, err := Existing(dir)
	require.NoError(Te, err)
	assert.Equal(Te, rec.Features, got.Features)

	//a broken CSV falls back to the snapshot.
	require.NoError(Te, os.WriteFile(filepath.Join(dir, CSVFile), []byte("only a header\n"), 0o644))
	got, err = Existing(dir)
	require.NoError(Te, err)
	assert.Equal(Te, rec.Features, got.Features)
	assert.True(Te, rec.Created.Equal(got.Created))
}

func TestSQLite(Te *testing.T) {
	ctx := context.Background()
	D, err := OpenDB(filepath.Join(Te.TempDir(), "features.db"))
	require.NoError(Te, err)
	defer D.Close()

	_, err = D.Latest(ctx, "mab1")
	assert.True(Te, errors.Is(err, melt.ErrMissingInput))

	old := testRecord()
	require.NoError(Te, D.Save(ctx, old))
	rec := testRecord()
	rec.RunID = "7c0e2a44-3d2e-4f7b-8f55-2a3b9a0c1d22"
	rec.Created = old.Created.Add(time.Hour)
	rec.Features["dipole_mu_300"] = 12.5
	require.NoError(Te, D.Save(ctx, rec))
	assert.Error(Te, D.Save(ctx, rec), "the run is already stored")

	got, err := D.Latest(ctx, "mab1")
	require.NoError(Te, err)
	assert.Equal(Te, rec.RunID, got.RunID)
	assert.Equal(Te, rec.Features, got.Features)
	assert.True(Te, rec.Created.Equal(got.Created))
}

func TestSQLiteLatestSubsecond(Te *testing.T) {
	ctx := context.Background()
	D, err := OpenDB(filepath.Join(Te.TempDir(), "features.db"))
	require.NoError(Te, err)
	defer D.Close()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	//fractions of different lengths, and a whole second, all in the same second.
	for i, c := range []struct {
		id string
		ns int
	}{
		{"whole", 0},
		{"older", 500000000},
		{"newer", 550000000},
	} {
		rec := testRecord()
		rec.RunID = c.id
		rec.Created = base.Add(time.Duration(c.ns))
		require.NoError(Te, D.Save(ctx, rec), "run %d", i)
	}
	got, err := D.Latest(ctx, "mab1")
	require.NoError(Te, err)
	assert.Equal(Te, "newer", got.RunID)
	assert.True(Te, base.Add(550*time.Millisecond).Equal(got.Created))
}
