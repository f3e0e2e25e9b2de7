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

// SpatialTemporalSignal holds one signal per location. The location count
// is fixed at construction.
type SpatialTemporalSignal[T any] struct {
	signals []*Signal[T]
}

// NewSpatialTemporal returns n empty signals.
func NewSpatialTemporal[T any](n int) *SpatialTemporalSignal[T] {
	s := &SpatialTemporalSignal[T]{signals: make([]*Signal[T], n)}
	for i := range s.signals {
		s.signals[i] = New[T]()
	}
	return s
}

// FromSignals wraps existing per-location signals.
func FromSignals[T any](signals ...*Signal[T]) *SpatialTemporalSignal[T] {
	return &SpatialTemporalSignal[T]{signals: signals}
}

// Size returns the number of locations.
func (s *SpatialTemporalSignal[T]) Size() int { return len(s.signals) }

// Signal returns the signal at location i.
func (s *SpatialTemporalSignal[T]) Signal(i int) *Signal[T] { return s.signals[i] }

// Append adds a breakpoint at t to every location.
func (s *SpatialTemporalSignal[T]) Append(t float64, values []T) error {
	if len(values) != len(s.signals) {
		return fmt.Errorf("%w: %d values for %d locations", ErrLocationMismatch, len(values), len(s.signals))
	}
	for i, sig := range s.signals {
		if err := sig.Append(t, values[i]); err != nil {
			return fmt.Errorf("location %d: %w", i, err)
		}
	}
	return nil
}

// EndAt declares the same end for every location.
func (s *SpatialTemporalSignal[T]) EndAt(t float64) error {
	for i, sig := range s.signals {
		if err := sig.EndAt(t); err != nil {
			return fmt.Errorf("location %d: %w", i, err)
		}
	}
	return nil
}

// IsEmpty reports whether any location has no breakpoints.
func (s *SpatialTemporalSignal[T]) IsEmpty() bool {
	if len(s.signals) == 0 {
		return true
	}
	for _, sig := range s.signals {
		if sig.IsEmpty() {
			return true
		}
	}
	return false
}

// Start returns the latest start over locations.
func (s *SpatialTemporalSignal[T]) Start() float64 {
	start := math.Inf(-1)
	for _, sig := range s.signals {
		start = math.Max(start, sig.Start())
	}
	return start
}

// End returns the earliest end over locations.
func (s *SpatialTemporalSignal[T]) End() float64 {
	end := math.Inf(1)
	for _, sig := range s.signals {
		end = math.Min(end, sig.End())
	}
	return end
}

// Times returns the sorted union of breakpoint times on [Start, End].
func (s *SpatialTemporalSignal[T]) Times() []float64 {
	if s.IsEmpty() {
		return nil
	}
	start, end := s.Start(), s.End()
	seen := make(map[float64]struct{})
	times := []float64{start}
	seen[start] = struct{}{}
	for _, sig := range s.signals {
		for _, sm := range sig.samples {
			if sm.Time <= start || sm.Time > end {
				continue
			}
			if _, ok := seen[sm.Time]; !ok {
				seen[sm.Time] = struct{}{}
				times = append(times, sm.Time)
			}
		}
	}
	sort.Float64s(times)
	return times
}

// ValuesAt returns the value of every location at t.
func (s *SpatialTemporalSignal[T]) ValuesAt(t float64) ([]T, bool) {
	values := make([]T, len(s.signals))
	for i, sig := range s.signals {
		v, ok := sig.ValueAt(t)
		if !ok {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// Map applies f to the signal of every location.
func Map[T, R any](s *SpatialTemporalSignal[T], f func(*Signal[T]) *Signal[R]) *SpatialTemporalSignal[R] {
	out := &SpatialTemporalSignal[R]{signals: make([]*Signal[R], len(s.signals))}
	for i, sig := range s.signals {
		out.signals[i] = f(sig)
	}
	return out
}

// MapValues applies f to every value of every location.
func MapValues[T, R any](s *SpatialTemporalSignal[T], f func(T) R) *SpatialTemporalSignal[R] {
	return Map(s, func(sig *Signal[T]) *Signal[R] { return Apply(sig, f) })
}

// Map2 applies f to the signals of the same location in s1 and s2.
func Map2[A, B, R any](s1 *SpatialTemporalSignal[A], s2 *SpatialTemporalSignal[B], f func(*Signal[A], *Signal[B]) *Signal[R]) (*SpatialTemporalSignal[R], error) {
	if s1.Size() != s2.Size() {
		return nil, fmt.Errorf("%w: %d and %d", ErrLocationMismatch, s1.Size(), s2.Size())
	}
	out := &SpatialTemporalSignal[R]{signals: make([]*Signal[R], len(s1.signals))}
	for i := range s1.signals {
		out.signals[i] = f(s1.signals[i], s2.signals[i])
	}
	return out, nil
}
