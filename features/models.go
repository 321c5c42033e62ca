/*
 * models.go, part of gomelt.
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
	"sort"

	melt "github.com/rmera/gomelt"
)

// Models holds the exact features each of the thermostability models takes, in the
// order the model expects them.
var Models = map[string][]string{
	//aggregation temperature
	"tagg": {"rmsf_cdrs_mu_400", "gyr_cdrs_Rg_std_400", "all-temp_lamda_b=25_eq=20"},
	//melting temperature
	"tm": {"gyr_cdrs_Rg_std_350", "bonds_contacts_std_350", "rmsf_cdrl1_std_350"},
	//onset of melting
	"tmon": {"bonds_contacts_std_350", "all-temp-sasa_core_mean_k=20_eq=20", "all-temp-sasa_core_std_k=20_eq=20", "r-lamda_b=2.5_eq=20"},
}

// ModelNames returns the names of the known models, sorted.
func ModelNames() []string {
	ret := make([]string, 0, len(Models))
	for k := range Models {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Requested returns the union of the explicit feature list and the features of the
// given models, without repetitions, in first-seen order.
func Requested(explicit []string, models []string) ([]string, error) {
	seen := make(map[string]bool)
	ret := make([]string, 0, len(explicit))
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				ret = append(ret, n)
			}
		}
	}
	add(explicit)
	for _, m := range models {
		f, ok := Models[m]
		if !ok {
			return nil, melt.NewError(melt.Configuration, "features.Requested", "unknown model %q, known models are %v", m, ModelNames())
		}
		add(f)
	}
	return ret, nil
}
