/*
 * main.go, part of gomelt.
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

// gomelt computes the thermostability descriptors of an antibody from the MD
// simulations run at several temperatures.
//
// Usage:
//
//	gomelt -dir work/ -molecule mAb1 [-config melt.yaml] [-db descriptors.db] [-plots] [-reuse]
//
// The work directory must contain the files written by the MD driver (see package mdio).
// The descriptors are saved to the same directory as CSV and as a msgpack snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/chemplot"
	"github.com/rmera/gomelt/engine"
	"github.com/rmera/gomelt/mdio"
	"github.com/rmera/gomelt/store"
	"go.uber.org/zap"
)

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var l *zap.Logger
	var err error
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %v", err)
	}
	return l.Sugar(), nil
}

func main() {
	configFile := flag.String("config", "", "YAML file with a descriptors section. The defaults are used if not given")
	dir := flag.String("dir", ".", "work directory with the MD driver output")
	molecule := flag.String("molecule", "", "name of the molecule. The name of the work directory is used if not given")
	dbFile := flag.String("db", "", "also store the descriptors in this SQLite database")
	plots := flag.Bool("plots", false, "save S2 and lambda plots to the work directory")
	reuse := flag.Bool("reuse", false, "load the descriptors already saved in the work directory, if any, instead of computing them")
	debug := flag.Bool("debug", false, "verbose, human-readable logging")
	flag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	if *molecule == "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			log.Fatalw("bad work directory", "dir", *dir, "error", err)
		}
		*molecule = filepath.Base(abs)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, log, *configFile, *dir, *molecule, *dbFile, *plots, *reuse); err != nil {
		log.Errorw("gomelt failed", "molecule", *molecule, "error", err)
		stop()
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.SugaredLogger, configFile, dir, molecule, dbFile string, plots, reuse bool) error {
	if reuse {
		rec, err := store.Existing(dir)
		if err == nil {
			log.Infow("using saved descriptors", "dir", dir, "run", rec.RunID)
			printRecord(rec)
			return nil
		}
		log.Infow("no saved descriptors, computing them", "reason", err)
	}
	cfg := melt.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = melt.LoadConfig(configFile); err != nil {
			return err
		}
	}
	bundles, err := mdio.Load(dir, cfg.Temperatures)
	if err != nil {
		return err
	}
	E, err := engine.New(cfg, engine.WithLogger(log))
	if err != nil {
		return err
	}
	res, err := E.Run(ctx, molecule, bundles)
	if err != nil {
		return err
	}
	rec := &store.Record{RunID: res.RunID, Molecule: molecule, Created: time.Now(), Features: res.Vector}
	if err := store.Save(dir, rec); err != nil {
		return err
	}
	if dbFile != "" {
		db, err := store.OpenDB(dbFile)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Save(ctx, rec); err != nil {
			return err
		}
	}
	if plots {
		if err := savePlots(dir, res); err != nil {
			//the descriptors are already saved, a failed figure is not worth an error.
			log.Warnw("could not save plots", "error", err)
		}
	}
	printRecord(rec)
	return nil
}

func savePlots(dir string, res *engine.Result) error {
	for bl, profiles := range res.Profiles {
		name := filepath.Join(dir, fmt.Sprintf("s2_b=%s.png", melt.FormatNumber(bl)))
		if err := chemplot.S2Profiles(profiles, res.Residues, bl, name); err != nil {
			return err
		}
	}
	if len(res.Lambda) > 0 {
		return chemplot.LambdaPlot(res.Lambda, filepath.Join(dir, "lambda.png"))
	}
	return nil
}

func printRecord(rec *store.Record) {
	for _, n := range rec.Features.Names() {
		fmt.Printf("%s\t%g\n", n, rec.Features[n])
	}
}
