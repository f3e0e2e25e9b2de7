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

import (
	"fmt"
	"math"
	"sort"
)

// Sample is one breakpoint of a signal: Value holds from Time onwards.
type Sample[T any] struct {
	Time  float64 `json:"time" yaml:"time"`
	Value T       `json:"value" yaml:"value"`
}

// Signal is a piecewise-constant function from time to T.
//
// Invariants:
//   - samples[k].Time < samples[k+1].Time
//   - end >= samples[len-1].Time when the signal is not empty
type Signal[T any] struct {
	samples []Sample[T]
	end     float64
}

// New returns an empty signal.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// FromSamples builds a signal from ordered breakpoints and a declared end.
func FromSamples[T any](end float64, samples ...Sample[T]) (*Signal[T], error) {
	s := &Signal[T]{samples: make([]Sample[T], 0, len(samples))}
	for _, sm := range samples {
		if err := s.Append(sm.Time, sm.Value); err != nil {
			return nil, err
		}
	}
	if len(samples) > 0 {
		if err := s.EndAt(end); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds a breakpoint at t. t must be strictly after the previous
// breakpoint. The declared end is extended to t if it was earlier.
func (s *Signal[T]) Append(t float64, v T) error {
	if math.IsNaN(t) {
		return fmt.Errorf("%w: NaN breakpoint time", ErrNonMonotoneTime)
	}
	if n := len(s.samples); n > 0 && t <= s.samples[n-1].Time {
		return fmt.Errorf("%w: %g after %g", ErrNonMonotoneTime, t, s.samples[n-1].Time)
	}
	s.samples = append(s.samples, Sample[T]{Time: t, Value: v})
	if len(s.samples) == 1 || t > s.end {
		s.end = t
	}
	return nil
}

// EndAt declares the time up to which the last value holds.
func (s *Signal[T]) EndAt(t float64) error {
	if len(s.samples) == 0 {
		return ErrEmptySignal
	}
	if math.IsNaN(t) {
		return fmt.Errorf("%w: NaN end time", ErrNonMonotoneTime)
	}
	if last := s.samples[len(s.samples)-1].Time; t < last {
		return fmt.Errorf("%w: end %g before last breakpoint %g", ErrNonMonotoneTime, t, last)
	}
	s.end = t
	return nil
}

// push appends without validation. Callers guarantee monotone times.
func (s *Signal[T]) push(t float64, v T) {
	s.samples = append(s.samples, Sample[T]{Time: t, Value: v})
	if t > s.end || len(s.samples) == 1 {
		s.end = t
	}
}

// Len returns the number of breakpoints.
func (s *Signal[T]) Len() int { return len(s.samples) }

// IsEmpty reports whether the signal has no breakpoints.
func (s *Signal[T]) IsEmpty() bool { return len(s.samples) == 0 }

// Start returns the first breakpoint time. Zero for an empty signal.
func (s *Signal[T]) Start() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[0].Time
}

// End returns the declared end. Zero for an empty signal.
func (s *Signal[T]) End() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.end
}

// At returns the k-th breakpoint.
func (s *Signal[T]) At(k int) Sample[T] { return s.samples[k] }

// Samples returns a copy of the breakpoints.
func (s *Signal[T]) Samples() []Sample[T] {
	out := make([]Sample[T], len(s.samples))
	copy(out, s.samples)
	return out
}

// Times returns the breakpoint times.
func (s *Signal[T]) Times() []float64 {
	out := make([]float64, len(s.samples))
	for k, sm := range s.samples {
		out[k] = sm.Time
	}
	return out
}

// index returns the breakpoint holding at t, or -1 when t precedes the
// signal.
func (s *Signal[T]) index(t float64) int {
	return sort.Search(len(s.samples), func(k int) bool { return s.samples[k].Time > t }) - 1
}

// ValueAt returns the value holding at t. ok is false outside [Start, End].
func (s *Signal[T]) ValueAt(t float64) (v T, ok bool) {
	if len(s.samples) == 0 || t > s.end {
		return v, false
	}
	k := s.index(t)
	if k < 0 {
		return v, false
	}
	return s.samples[k].Value, true
}

// Compact drops breakpoints whose value equals the previous one.
func (s *Signal[T]) Compact(equal func(a, b T) bool) *Signal[T] {
	out := &Signal[T]{samples: make([]Sample[T], 0, len(s.samples)), end: s.end}
	for _, sm := range s.samples {
		if n := len(out.samples); n > 0 && equal(out.samples[n-1].Value, sm.Value) {
			continue
		}
		out.samples = append(out.samples, sm)
	}
	return out
}

// Shift returns the signal translated by dt in time.
func (s *Signal[T]) Shift(dt float64) *Signal[T] {
	out := &Signal[T]{samples: make([]Sample[T], len(s.samples)), end: s.end + dt}
	for k, sm := range s.samples {
		out.samples[k] = Sample[T]{Time: sm.Time + dt, Value: sm.Value}
	}
	return out
}

// Restrict returns the part of the signal on [from, to]. The result is
// empty when the range does not overlap the signal.
func (s *Signal[T]) Restrict(from, to float64) *Signal[T] {
	out := New[T]()
	if len(s.samples) == 0 {
		return out
	}
	if from < s.samples[0].Time {
		from = s.samples[0].Time
	}
	if to > s.end {
		to = s.end
	}
	if from > to {
		return out
	}
	k := s.index(from)
	out.push(from, s.samples[k].Value)
	for k++; k < len(s.samples) && s.samples[k].Time <= to; k++ {
		out.push(s.samples[k].Time, s.samples[k].Value)
	}
	out.end = to
	return out
}

// Cursor returns a cursor on the first breakpoint.
func (s *Signal[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{s: s}
}

func (s *Signal[T]) String() string {
	return fmt.Sprintf("Signal%v end=%g", s.samples, s.end)
}
