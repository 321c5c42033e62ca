/*
 * vector.go, part of gomelt.
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

package features

import (
	"fmt"
	"math"
	"sort"

	melt "github.com/rmera/gomelt"
)

// Vector is the feature vector of one molecule: feature name to value.
type Vector map[string]float64

// Names returns the feature names, sorted.
func (V Vector) Names() []string {
	ret := make([]string, 0, len(V))
	for k := range V {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Select returns a new Vector with only the given features. All of them must be present.
func (V Vector) Select(names []string) (Vector, error) {
	ret := make(Vector, len(names))
	for _, n := range names {
		v, ok := V[n]
		if !ok {
			return nil, melt.NewError(melt.MissingInput, "Vector.Select", "feature %s was not computed", n)
		}
		ret[n] = v
	}
	return ret, nil
}

// Values returns the values of the given features, in the same order. All of them
// must be present.
func (V Vector) Values(names []string) ([]float64, error) {
	ret := make([]float64, len(names))
	for i, n := range names {
		v, ok := V[n]
		if !ok {
			return nil, melt.NewError(melt.MissingInput, "Vector.Values", "feature %s was not computed", n)
		}
		ret[i] = v
	}
	return ret, nil
}

// Assembler collects the features of one molecule. Once anything goes wrong, the
// assembler is spoiled: every later call is a no-op, and Vector returns the first error.
// An Assembler is not safe for concurrent use.
type Assembler struct {
	values Vector
	err    error
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{values: make(Vector)}
}

// Set adds the feature name with the value v. Setting the same name twice, or a
// non-finite value, spoils the assembler.
func (A *Assembler) Set(name string, v float64) error {
	if A.err != nil {
		return A.err
	}
	if _, ok := A.values[name]; ok {
		A.err = melt.NewError(melt.Configuration, "Assembler.Set", "feature %s produced twice", name)
		return A.err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		A.err = melt.NewError(melt.NumericInstability, "Assembler.Set", "feature %s is %v", name, v)
		return A.err
	}
	A.values[name] = v
	return nil
}

// Merge adds all the features in m, in name order.
func (A *Assembler) Merge(m map[string]float64) error {
	names := Vector(m).Names()
	for _, n := range names {
		if err := A.Set(n, m[n]); err != nil {
			return err
		}
	}
	return A.err
}

// Fail spoils the assembler with err, unless it is already spoiled, or err is nil.
func (A *Assembler) Fail(err error, caller string) error {
	if A.err == nil && err != nil {
		A.err = melt.ErrDecorate(err, caller)
	}
	return A.err
}

// Err returns the error that spoiled the assembler, if any.
func (A *Assembler) Err() error { return A.err }

// Len returns the number of features collected so far.
func (A *Assembler) Len() int { return len(A.values) }

// Vector returns the assembled feature vector. If requested is not empty, only the
// requested features are returned, and all of them must have been computed. No vector
// is ever returned together with an error.
func (A *Assembler) Vector(requested []string) (Vector, error) {
	if A.err != nil {
		return nil, A.err
	}
	if len(requested) == 0 {
		ret := make(Vector, len(A.values))
		for k, v := range A.values {
			ret[k] = v
		}
		return ret, nil
	}
	ret, err := A.values.Select(requested)
	if err != nil {
		return nil, melt.ErrDecorate(err, fmt.Sprintf("Assembler.Vector: %d features requested", len(requested)))
	}
	return ret, nil
}
