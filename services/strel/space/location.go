// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package space

import (
	"fmt"
	"math"
	"sort"
)

// Breakpoint is a spatial model that becomes valid at Time.
type Breakpoint[E any] struct {
	Time  float64
	Model SpatialModel[E]
}

// LocationService is the time-varying topology over a fixed set of
// locations. Breakpoints are ordered by strictly increasing time and every
// model has the same Size.
type LocationService[E any] interface {
	// Len returns the number of breakpoints.
	Len() int

	// At returns the k-th breakpoint.
	At(k int) Breakpoint[E]
}

// IsEmpty reports whether ls has no topology at all.
func IsEmpty[E any](ls LocationService[E]) bool { return ls == nil || ls.Len() == 0 }

// Locations returns the location count shared by every model of ls, or 0
// when ls is empty.
func Locations[E any](ls LocationService[E]) int {
	if IsEmpty(ls) {
		return 0
	}
	return ls.At(0).Model.Size()
}

// Static is a LocationService whose single model holds for all time.
type Static[E any] struct {
	model SpatialModel[E]
}

// NewStatic wraps one model.
func NewStatic[E any](model SpatialModel[E]) *Static[E] { return &Static[E]{model: model} }

// Len returns 1.
func (s *Static[E]) Len() int { return 1 }

// At returns the model with a breakpoint at -Inf.
func (s *Static[E]) At(int) Breakpoint[E] {
	return Breakpoint[E]{Time: math.Inf(-1), Model: s.model}
}

// Timeline is a LocationService built by appending breakpoints in order.
// Before its first breakpoint the first model applies.
type Timeline[E any] struct {
	breakpoints []Breakpoint[E]
}

// NewTimeline returns an empty timeline.
func NewTimeline[E any]() *Timeline[E] { return &Timeline[E]{} }

// Add appends a model valid from t onwards.
func (tl *Timeline[E]) Add(t float64, model SpatialModel[E]) error {
	if math.IsNaN(t) {
		return fmt.Errorf("%w: NaN topology time", ErrNonMonotoneTime)
	}
	if n := len(tl.breakpoints); n > 0 {
		last := tl.breakpoints[n-1]
		if t <= last.Time {
			return fmt.Errorf("%w: %g after %g", ErrNonMonotoneTime, t, last.Time)
		}
		if model.Size() != last.Model.Size() {
			return fmt.Errorf("%w: model at %g has %d locations, expected %d",
				ErrLocationMismatch, t, model.Size(), last.Model.Size())
		}
	}
	tl.breakpoints = append(tl.breakpoints, Breakpoint[E]{Time: t, Model: model})
	return nil
}

// Len returns the number of breakpoints.
func (tl *Timeline[E]) Len() int { return len(tl.breakpoints) }

// At returns the k-th breakpoint.
func (tl *Timeline[E]) At(k int) Breakpoint[E] { return tl.breakpoints[k] }

// ModelAt returns the model valid at t.
func (tl *Timeline[E]) ModelAt(t float64) (SpatialModel[E], bool) {
	if len(tl.breakpoints) == 0 {
		return nil, false
	}
	k := sort.Search(len(tl.breakpoints), func(k int) bool { return tl.breakpoints[k].Time > t }) - 1
	if k < 0 {
		k = 0
	}
	return tl.breakpoints[k].Model, true
}

var (
	_ LocationService[float64] = (*Static[float64])(nil)
	_ LocationService[float64] = (*Timeline[float64])(nil)
)
