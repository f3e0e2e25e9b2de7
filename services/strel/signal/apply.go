// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package signal

import "math"

// Apply maps every value of s through f. Breakpoints are kept as they are;
// callers that need a duplicate-free result call Compact afterwards.
func Apply[T, R any](s *Signal[T], f func(T) R) *Signal[R] {
	out := &Signal[R]{samples: make([]Sample[R], len(s.samples)), end: s.end}
	for k, sm := range s.samples {
		out.samples[k] = Sample[R]{Time: sm.Time, Value: f(sm.Value)}
	}
	return out
}

// ApplyBinary combines two signals pointwise over the union of their
// breakpoints. The result is defined on the intersection of both time
// domains and is empty when they do not overlap.
//
// Complexity: O(len(s1) + len(s2)).
func ApplyBinary[A, B, R any](s1 *Signal[A], s2 *Signal[B], f func(A, B) R) *Signal[R] {
	out := New[R]()
	if s1.IsEmpty() || s2.IsEmpty() {
		return out
	}
	start := math.Max(s1.Start(), s2.Start())
	end := math.Min(s1.End(), s2.End())
	if start > end {
		return out
	}

	c1, c2 := s1.Cursor(), s2.Cursor()
	c1.Seek(start)
	c2.Seek(start)
	t := start
	for {
		out.push(t, f(c1.Value(), c2.Value()))

		n1, n2 := math.Inf(1), math.Inf(1)
		if c1.HasNext() {
			n1 = s1.samples[c1.k+1].Time
		}
		if c2.HasNext() {
			n2 = s2.samples[c2.k+1].Time
		}
		t = math.Min(n1, n2)
		if t > end || math.IsInf(t, 1) {
			break
		}
		if n1 == t {
			c1.Next()
		}
		if n2 == t {
			c2.Next()
		}
	}
	out.end = end
	return out
}

// Pair holds the values of two signals at the same instant.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip merges two signals into a signal of pairs.
func Zip[A, B any](s1 *Signal[A], s2 *Signal[B]) *Signal[Pair[A, B]] {
	return ApplyBinary(s1, s2, func(a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} })
}
