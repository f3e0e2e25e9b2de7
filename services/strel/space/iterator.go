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

import "math"

// SpaceIterator walks the breakpoints of a LocationService in step with a
// signal timeline and keeps the DistanceStructure of the current topology.
//
// Invariant after Init or Advance(t): At(k).Time <= t < At(k+1).Time, or k
// is the last breakpoint. Times before the first breakpoint use the first
// model.
type SpaceIterator[E, A any] struct {
	ls       LocationService[E]
	fn       DistanceFunction[E, A]
	k        int
	current  *DistanceStructure[E, A]
	switches int
}

// NewSpaceIterator returns an iterator over a non-empty location service.
func NewSpaceIterator[E, A any](ls LocationService[E], fn DistanceFunction[E, A]) *SpaceIterator[E, A] {
	return &SpaceIterator[E, A]{ls: ls, fn: fn, k: -1}
}

// Init positions the iterator on the topology valid at t and builds its
// distance structure.
func (it *SpaceIterator[E, A]) Init(t float64) {
	it.k = 0
	for it.k+1 < it.ls.Len() && it.ls.At(it.k+1).Time <= t {
		it.k++
	}
	it.current = it.fn.Build(it.ls.At(it.k).Model)
}

// Advance moves to the topology valid at t. It reports whether the
// topology changed; the distance structure is rebuilt only in that case.
func (it *SpaceIterator[E, A]) Advance(t float64) bool {
	moved := false
	for it.k+1 < it.ls.Len() && it.ls.At(it.k+1).Time <= t {
		it.k++
		moved = true
	}
	if moved {
		it.current = it.fn.Build(it.ls.At(it.k).Model)
		it.switches++
	}
	return moved
}

// NextTime returns the time of the next topology breakpoint, +Inf if none.
func (it *SpaceIterator[E, A]) NextTime() float64 {
	if it.k+1 < it.ls.Len() {
		return it.ls.At(it.k + 1).Time
	}
	return math.Inf(1)
}

// Distances returns the distance structure of the current topology.
func (it *SpaceIterator[E, A]) Distances() *DistanceStructure[E, A] { return it.current }

// Switches returns how many topology breakpoints Advance crossed.
func (it *SpaceIterator[E, A]) Switches() int { return it.switches }
