/*
 * options.go, part of gomelt.
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

package order

import (
	"runtime"

	melt "github.com/rmera/gomelt"
)

// Options for the order parameter engine.
type Options struct {
	cpus     int
	trailing melt.TrailingPolicy
}

// DefaultOptions returns an Options with the default values:
// as many goroutines as CPUs, and the trailing partial block discarded.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.trailing = melt.TrailingDiscard
	return ret
}

// Cpus returns the current number of goroutines to use when computing
// a residue profile, and sets it, if a valid value is given.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		O.cpus = cpus[0]
	}
	return ret
}

// Trailing returns the current policy for the incomplete block at the end
// of the production window, and sets it, if a valid value is given.
func (O *Options) Trailing(policy ...melt.TrailingPolicy) melt.TrailingPolicy {
	ret := O.trailing
	if len(policy) > 0 && (policy[0] == melt.TrailingDiscard || policy[0] == melt.TrailingInclude) {
		O.trailing = policy[0]
	}
	return ret
}
