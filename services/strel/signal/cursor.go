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

// Cursor walks the breakpoints of a signal in either direction.
type Cursor[T any] struct {
	s *Signal[T]
	k int
}

// Done reports whether the cursor moved past either end.
func (c *Cursor[T]) Done() bool { return c.k < 0 || c.k >= len(c.s.samples) }

// Time returns the time of the current breakpoint.
func (c *Cursor[T]) Time() float64 { return c.s.samples[c.k].Time }

// Value returns the value of the current breakpoint.
func (c *Cursor[T]) Value() T { return c.s.samples[c.k].Value }

// HasNext reports whether a breakpoint follows the current one.
func (c *Cursor[T]) HasNext() bool { return c.k+1 < len(c.s.samples) }

// NextTime returns the time at which the current value stops holding: the
// next breakpoint, or the signal end for the last one. +Inf when done.
func (c *Cursor[T]) NextTime() float64 {
	switch {
	case c.Done():
		return math.Inf(1)
	case c.HasNext():
		return c.s.samples[c.k+1].Time
	default:
		return c.s.end
	}
}

// Next moves forward one breakpoint.
func (c *Cursor[T]) Next() { c.k++ }

// Previous moves back one breakpoint.
func (c *Cursor[T]) Previous() { c.k-- }

// Last moves to the final breakpoint.
func (c *Cursor[T]) Last() { c.k = len(c.s.samples) - 1 }

// Seek moves to the breakpoint holding at t (the last one at or before t).
// The cursor is Done when t precedes the signal.
func (c *Cursor[T]) Seek(t float64) { c.k = c.s.index(t) }
