/*
 * interfaces.go, part of gomelt.
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

import v3 "github.com/rmera/gomelt/v3"

// Traj is an interface for any bond-vector trajectory object.
// Each frame has one row per residue.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//reads the next frame into output, or discards it if output is nil.
	Next(output *v3.Matrix) error

	//Returns the number of vectors per frame
	Len() int
}

// Decorator is implemented by all the errors in this library. The Decorate method
// allows to add and retrieve call-chain information from the error, without changing
// its type or wrapping it.
type Decorator interface {
	Error() string
	Decorate(string) []string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	Decorator
	NormalLastFrameTermination()
}
