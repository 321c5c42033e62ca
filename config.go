/*
 * config.go, part of gomelt.
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

package melt

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TrailingPolicy says what to do with the incomplete block left at the end of a
// production window when it is split in blocks.
type TrailingPolicy string

const (
	// TrailingDiscard drops the incomplete trailing block.
	TrailingDiscard TrailingPolicy = "discard"
	// TrailingInclude averages the incomplete trailing block as one more block.
	TrailingInclude TrailingPolicy = "include"
)

// NeighborScheme is the versioned definition of the exposure score used to rank
// residues in the core/surface classification.
type NeighborScheme string

const (
	// GlobalRank scores each residue by its own mean SASA over the production window.
	GlobalRank NeighborScheme = "global-rank/v1"
	// SequenceWindow scores each residue by the mean of the mean SASA of the residues
	// within NeighborWindow positions on the same chain, itself included.
	SequenceWindow NeighborScheme = "sequence-window/v1"
)

// BlockLengths is a list of block lengths in ns. In YAML it can be given as a single
// number or as a list.
type BlockLengths []float64

// UnmarshalYAML accepts both a scalar and a sequence.
func (b *BlockLengths) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return err
		}
		*b = BlockLengths{f}
		return nil
	case yaml.SequenceNode:
		var fs []float64
		if err := value.Decode(&fs); err != nil {
			return err
		}
		*b = BlockLengths(fs)
		return nil
	}
	return fmt.Errorf("block_length: expected a number or a list of numbers at line %d", value.Line)
}

// Config contains the run-level settings of a descriptor computation. Times are in ns,
// temperatures in K.
type Config struct {
	Temperatures   []float64      `yaml:"temperatures"`
	Equilibration  float64        `yaml:"equilibration_time"`
	BlockLengths   BlockLengths   `yaml:"block_length"`
	CoreSurfaceK   int            `yaml:"core_surface_k"`
	ComputeLambda  bool           `yaml:"compute_lambda"`
	TrailingBlock  TrailingPolicy `yaml:"trailing_block"`
	NeighborScheme NeighborScheme `yaml:"neighbor_scheme"`
	NeighborWindow int            `yaml:"neighbor_window"`
	Cpus           int            `yaml:"cpus"`
	//Features, if not empty, is the exact list of features to produce.
	Features []string `yaml:"features"`
	//Models adds the feature schema of each named model to Features.
	Models []string `yaml:"models"`
}

// DefaultConfig returns the settings used to train the published models.
func DefaultConfig() *Config {
	return &Config{
		Temperatures:   []float64{300, 350, 400},
		Equilibration:  20,
		BlockLengths:   BlockLengths{2.5, 25},
		CoreSurfaceK:   20,
		ComputeLambda:  true,
		TrailingBlock:  TrailingDiscard,
		NeighborScheme: GlobalRank,
		NeighborWindow: 2,
		Cpus:           runtime.NumCPU(),
	}
}

// LoadConfig reads a YAML file. The settings are read from the "descriptors" key and
// completed with the defaults for anything not given.
func LoadConfig(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var file struct {
		Descriptors *Config `yaml:"descriptors"`
	}
	file.Descriptors = DefaultConfig()
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, NewError(Configuration, "LoadConfig", "%s: %s", filename, err.Error())
	}
	if file.Descriptors == nil {
		return nil, NewError(Configuration, "LoadConfig", "%s: no descriptors section", filename)
	}
	if err := file.Descriptors.Validate(); err != nil {
		return nil, ErrDecorate(err, "LoadConfig: "+filename)
	}
	return file.Descriptors, nil
}

// Validate returns a Configuration error if any setting is invalid.
func (C *Config) Validate() error {
	if len(C.Temperatures) == 0 {
		return NewError(Configuration, "Config.Validate", "no temperatures given")
	}
	seen := make(map[float64]bool)
	for _, t := range C.Temperatures {
		if t <= 0 {
			return NewError(Configuration, "Config.Validate", "non-positive temperature %v", t)
		}
		if seen[t] {
			return NewError(Configuration, "Config.Validate", "temperature %v given twice", t)
		}
		seen[t] = true
	}
	if C.Equilibration < 0 {
		return NewError(Configuration, "Config.Validate", "negative equilibration time %v", C.Equilibration)
	}
	if len(C.BlockLengths) == 0 {
		return NewError(Configuration, "Config.Validate", "no block lengths given")
	}
	bl := make(map[float64]bool)
	for _, b := range C.BlockLengths {
		if b <= 0 {
			return NewError(Configuration, "Config.Validate", "non-positive block length %v", b)
		}
		if bl[b] {
			return NewError(Configuration, "Config.Validate", "block length %v given twice", b)
		}
		bl[b] = true
	}
	if C.CoreSurfaceK <= 0 {
		return NewError(Configuration, "Config.Validate", "non-positive core/surface k %d", C.CoreSurfaceK)
	}
	switch C.TrailingBlock {
	case TrailingDiscard, TrailingInclude:
	default:
		return NewError(Configuration, "Config.Validate", "unknown trailing block policy %q", C.TrailingBlock)
	}
	switch C.NeighborScheme {
	case GlobalRank:
	case SequenceWindow:
		if C.NeighborWindow < 0 {
			return NewError(Configuration, "Config.Validate", "negative neighbor window %d", C.NeighborWindow)
		}
	default:
		return NewError(Configuration, "Config.Validate", "unknown neighbor scheme %q", C.NeighborScheme)
	}
	if C.Cpus <= 0 {
		C.Cpus = runtime.NumCPU()
	}
	return nil
}

// FormatNumber renders a configuration number the way it appears in feature names:
// the shortest representation that reads back to the same float64 (2.5, 25, 0.1).
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
