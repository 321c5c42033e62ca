/*
 * window.go, part of gomelt.
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
	"math"
)

// frameTolerance absorbs floating point noise when a time is converted into a frame index.
const frameTolerance = 1e-6

// Window is the index range [Start, End) of the production part of a series.
type Window struct {
	Start int
	End   int
}

// Len returns the number of frames in the window.
func (W Window) Len() int { return W.End - W.Start }

func (W Window) String() string { return fmt.Sprintf("[%d, %d)", W.Start, W.End) }

// ProductionWindow returns the window covering the frames with time >= equilibration, for a
// series of the given number of frames that starts at time start and is sampled every
// interval. The window is always a suffix of the series, and always ends at the last frame.
func ProductionWindow(start, interval float64, frames int, equilibration float64) (Window, error) {
	if equilibration < 0 || math.IsNaN(equilibration) {
		return Window{}, NewError(Configuration, "ProductionWindow", "invalid equilibration time %v", equilibration)
	}
	if interval <= 0 {
		return Window{}, NewError(MalformedTimeSeries, "ProductionWindow", "non-positive sampling interval %v", interval)
	}
	end := start + float64(frames)*interval
	if frames <= 0 || equilibration >= end {
		return Window{}, NewError(InsufficientWindow, "ProductionWindow", "equilibration time %v ns not shorter than the series (%d frames up to %v ns)", equilibration, frames, end)
	}
	first := int(math.Ceil((equilibration-start)/interval - frameTolerance))
	if first < 0 {
		first = 0
	}
	if first >= frames {
		return Window{}, NewError(InsufficientWindow, "ProductionWindow", "no frame at or after %v ns", equilibration)
	}
	return Window{Start: first, End: frames}, nil
}

// Production returns the part of the series to be used for statistics, together with
// the window it spans. Windowed observables are cut to the frames at or after the
// equilibration time; full-series observables are returned whole.
func (T *TimeSeries) Production(equilibration float64) (*TimeSeries, Window, error) {
	if T.Observable.Policy == FullSeries {
		return T, Window{Start: 0, End: T.Len()}, nil
	}
	if !T.Observable.Kind.TimeIndexed() {
		return nil, Window{}, NewError(Configuration, "Production", "%s is a %s observable and can't be windowed in time", T.Observable.Name, T.Observable.Kind)
	}
	w, err := ProductionWindow(T.start, T.interval, T.Len(), equilibration)
	if err != nil {
		return nil, Window{}, ErrDecorate(err, fmt.Sprintf("Production: %s at %vK", T.Observable.Name, T.Observable.Temperature))
	}
	return T.Slice(w.Start, w.End), w, nil
}
