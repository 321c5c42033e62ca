/*
 * doc.go, part of gomelt.
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

/*Package melt is the main package of the gomelt library. It turns the
observables of a multi-temperature molecular dynamics run of one antibody into
a fixed, deterministically named set of scalar descriptors.

	**gomelt Capabilities**

    Reads GROMACS xvg time series against a declared schema per observable.

    Reads and writes compressed bond-vector trajectories (stf).

    Selects the production (post-equilibration) window of any time series
	using the sampling interval carried by the series itself.

    Computes block-averaged Lipari-Szabo order parameters (S²) for several
	block lengths at once, each (residue, temperature, block length) exactly once.

    Fits the temperature dependence (lambda) of the order parameters.

    Classifies residues into core and surface from per-residue SASA.

    Fits cross-temperature slopes of any per-temperature statistic.

    Assembles everything into one feature vector, or fails as a whole.

The root package contains the data model shared by all the other packages:
observables, time series, residues and regions, per-temperature bundles,
the production window selector, the run configuration and the errors.
*/
package melt
