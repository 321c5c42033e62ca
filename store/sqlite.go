/*
 * sqlite.go, part of gomelt.
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
	"context"
	"database/sql"
	"fmt"
	"time"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/features"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id   TEXT PRIMARY KEY,
	molecule TEXT NOT NULL,
	created  INTEGER NOT NULL --unix time, ns
);
CREATE TABLE IF NOT EXISTS features (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	name   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, name)
);
CREATE INDEX IF NOT EXISTS runs_molecule ON runs(molecule, created);
`

// DB is a SQLite database of feature vectors, many molecules and runs per file.
type DB struct {
	db   *sql.DB
	path string
}

// OpenDB opens the SQLite database at path, creating it and its tables if needed.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &DB{db: db, path: path}, nil
}

// Close closes the database.
func (D *DB) Close() error {
	return D.db.Close()
}

// Save stores the record in a single transaction.
func (D *DB) Save(ctx context.Context, rec *Record) error {
	tx, err := D.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (run_id, molecule, created) VALUES (?, ?, ?)`,
		rec.RunID, rec.Molecule, rec.Created.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rec.RunID, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO features (run_id, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer stmt.Close()
	for _, n := range rec.Features.Names() {
		if _, err := stmt.ExecContext(ctx, rec.RunID, n, rec.Features[n]); err != nil {
			return fmt.Errorf("failed to insert feature %s: %w", n, err)
		}
	}
	return tx.Commit()
}

// Latest returns the most recent record of the molecule. It returns a MissingInput error
// if the molecule has no records.
func (D *DB) Latest(ctx context.Context, molecule string) (*Record, error) {
	rec := &Record{Molecule: molecule, Features: make(features.Vector)}
	var created int64
	err := D.db.QueryRowContext(ctx, `SELECT run_id, created FROM runs WHERE molecule = ? ORDER BY created DESC, rowid DESC LIMIT 1`, molecule).Scan(&rec.RunID, &created)
	if err == sql.ErrNoRows {
		return nil, melt.NewError(melt.MissingInput, "DB.Latest", "no descriptors for %s in %s", molecule, D.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	rec.Created = time.Unix(0, created).UTC()
	rows, err := D.db.QueryContext(ctx, `SELECT name, value FROM features WHERE run_id = ?`, rec.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query features: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		rec.Features[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read features: %w", err)
	}
	return rec, nil
}
