/*
 * naming.go, part of gomelt.
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

// Package features turns the statistics computed for one molecule into a flat, named
// feature vector, with names that are reproducible byte by byte for a given configuration.
package features

import (
	"fmt"
	"strings"

	melt "github.com/rmera/gomelt"
)

// Statistic labels used in feature names.
const (
	Mu  = "mu"
	Std = "std"
)

// ObservableName returns {metric}[_{region}][_{column}]_{statistic}_{temperature}.
// Empty region or column are omitted.
func ObservableName(metric, region, column, statistic string, temperature float64) string {
	parts := []string{metric}
	if region != "" {
		parts = append(parts, region)
	}
	if column != "" {
		parts = append(parts, column)
	}
	parts = append(parts, statistic, melt.FormatNumber(temperature))
	return strings.Join(parts, "_")
}

// OrderS2Name returns the name of the mean or standard deviation over residues of the
// block-averaged order parameter at a temperature.
func OrderS2Name(temperature, blockLength float64, statistic string) string {
	return fmt.Sprintf("order_s2_%s_b=%s_%s", melt.FormatNumber(temperature), melt.FormatNumber(blockLength), statistic)
}

// LambdaName is the name of the lambda descriptor for a block length and equilibration time.
func LambdaName(blockLength, equilibration float64) string {
	return fmt.Sprintf("all-temp_lamda_b=%s_eq=%s", melt.FormatNumber(blockLength), melt.FormatNumber(equilibration))
}

// LambdaR2Name is the name of the coefficient of determination of the lambda fit.
func LambdaR2Name(blockLength, equilibration float64) string {
	return fmt.Sprintf("r-lamda_b=%s_eq=%s", melt.FormatNumber(blockLength), melt.FormatNumber(equilibration))
}

// LambdaRName is the older name of the same value as LambdaR2Name. Both are emitted,
// as stored vectors and models may use either.
func LambdaRName(blockLength, equilibration float64) string {
	return fmt.Sprintf("all-temp_lamda_r_b=%s_eq=%s", melt.FormatNumber(blockLength), melt.FormatNumber(equilibration))
}

// SASAName is the name of a core/surface SASA statistic (see sasa.Keys) at a temperature.
func SASAName(key string, temperature float64) string {
	return fmt.Sprintf("sasa_%s_%s", key, melt.FormatNumber(temperature))
}

// SASASlopeName is the name of the cross-temperature slope of a core/surface SASA statistic.
func SASASlopeName(key string, k int, equilibration float64) string {
	return fmt.Sprintf("all-temp-sasa_%s_k=%d_eq=%s", key, k, melt.FormatNumber(equilibration))
}

// EntropyName is the name of a conformational entropy estimate (melt.Schlitter or
// melt.Quasiharmonic) at a temperature.
func EntropyName(method string, temperature float64) string {
	return fmt.Sprintf("sconf_%s_%s", method, melt.FormatNumber(temperature))
}
