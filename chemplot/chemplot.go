/*
 * chemplot.go, part of gomelt.
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

// Package chemplot draws the per-residue results of a descriptor run: order
// parameter profiles and lambda values.
package chemplot

import (
	"fmt"

	melt "github.com/rmera/gomelt"
	"github.com/rmera/gomelt/order"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Width and height of the saved figures.
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

func basicResiduePlot(title, ylabel string, residues int) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Residue"
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.X.Max = float64(residues - 1)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// markCDRs adds a row of marks, at height y, under the residues that belong to a CDR.
func markCDRs(p *plot.Plot, residues []melt.Residue, y float64) error {
	cdrs := melt.GroupRegions(residues)[melt.AllCDRs]
	if len(cdrs) == 0 {
		return nil
	}
	pts := make(plotter.XYs, len(cdrs))
	for i, v := range cdrs {
		pts[i].X = float64(v)
		pts[i].Y = y
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.BoxGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s)
	p.Legend.Add("CDR", s)
	return nil
}

func residueLine(values []float64) (*plotter.Line, error) {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return plotter.NewLine(pts)
}

// S2Profiles plots the block-averaged order parameter of each residue, one line per
// temperature, and saves it to filename. The format is given by the extension
// of filename (png, svg, pdf...).
func S2Profiles(profiles map[float64][]float64, residues []melt.Residue, blockLength float64, filename string) error {
	if len(profiles) == 0 {
		return melt.NewError(melt.MissingInput, "S2Profiles", "no profiles to plot")
	}
	p := basicResiduePlot(fmt.Sprintf("Order parameters, %s ns blocks", melt.FormatNumber(blockLength)), "S2", len(residues))
	p.Y.Min = 0
	p.Y.Max = 1
	temps := sortedKeys(profiles)
	for i, t := range temps {
		if len(profiles[t]) != len(residues) {
			return melt.NewError(melt.MalformedTimeSeries, "S2Profiles", "%d values at %vK for %d residues", len(profiles[t]), t, len(residues))
		}
		l, err := residueLine(profiles[t])
		if err != nil {
			return err
		}
		l.LineStyle.Color = colors(i, len(temps))
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(melt.FormatNumber(t)+" K", l)
	}
	if err := markCDRs(p, residues, 0.02); err != nil {
		return err
	}
	return p.Save(Width, Height, filename)
}

// LambdaPlot plots the lambda of each residue, one line per block length, and saves
// it to filename.
func LambdaPlot(fits []*order.LambdaFit, filename string) error {
	if len(fits) == 0 {
		return melt.NewError(melt.MissingInput, "LambdaPlot", "no lambda fits to plot")
	}
	residues := make([]melt.Residue, len(fits[0].Residues))
	for i, r := range fits[0].Residues {
		residues[i] = r.Residue
	}
	p := basicResiduePlot(fmt.Sprintf("Lambda, equilibration %s ns", melt.FormatNumber(fits[0].Equilibration)), "lambda", len(residues))
	ymin := 0.0
	for i, f := range fits {
		if len(f.Residues) != len(residues) {
			return melt.NewError(melt.MalformedTimeSeries, "LambdaPlot", "the fits have different residues")
		}
		vals := make([]float64, len(f.Residues))
		for j, r := range f.Residues {
			vals[j] = r.Lambda
			ymin = min(ymin, r.Lambda)
		}
		l, err := residueLine(vals)
		if err != nil {
			return err
		}
		l.LineStyle.Color = colors(i, len(fits))
		l.LineStyle.Width = vg.Points(1)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("b=%s ns (mean %.3f, R2 %.3f)", melt.FormatNumber(f.BlockLength), f.Lambda, f.R2), l)
	}
	if err := markCDRs(p, residues, ymin); err != nil {
		return err
	}
	return p.Save(Width, Height, filename)
}
