/*
 * plotutils.go, part of gomelt.
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

package chemplot

import "sort"

//Some internal convenience functions.

// sortedKeys returns the keys of m in increasing order.
func sortedKeys[V any](m map[float64]V) []float64 {
	ret := make([]float64, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Float64s(ret)
	return ret
}
