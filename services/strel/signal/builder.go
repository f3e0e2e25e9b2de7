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

// Builder assembles a signal from breakpoints produced in increasing time
// order.
//
// When an equality is given, a breakpoint whose value equals the previous
// one is dropped. A breakpoint at the same time as the previous one
// replaces its value.
type Builder[T any] struct {
	out   *Signal[T]
	equal func(a, b T) bool
}

// NewBuilder returns an empty builder. equal may be nil.
func NewBuilder[T any](equal func(a, b T) bool) *Builder[T] {
	return &Builder[T]{out: New[T](), equal: equal}
}

// Add records that v holds from t onwards. t must not precede the last
// breakpoint added.
func (b *Builder[T]) Add(t float64, v T) {
	n := len(b.out.samples)
	if n > 0 && t <= b.out.samples[n-1].Time {
		b.out.samples = b.out.samples[:n-1]
		n--
	}
	if n > 0 && b.equal != nil && b.equal(b.out.samples[n-1].Value, v) {
		return
	}
	b.out.push(t, v)
}

// Build closes the signal at end and returns it. An empty builder yields
// an empty signal.
func (b *Builder[T]) Build(end float64) *Signal[T] {
	if n := len(b.out.samples); n > 0 && end > b.out.samples[n-1].Time {
		b.out.end = end
	}
	return b.out
}

// Fold accumulates s from its first breakpoint forward:
// out_k = step(s_k, out_{k-1}) with out_{-1} = seed.
func Fold[T, R any](s *Signal[T], seed R, step func(v T, prev R) R) *Signal[R] {
	out := &Signal[R]{samples: make([]Sample[R], len(s.samples)), end: s.end}
	acc := seed
	for k, sm := range s.samples {
		acc = step(sm.Value, acc)
		out.samples[k] = Sample[R]{Time: sm.Time, Value: acc}
	}
	return out
}

// FoldBack accumulates s from its last breakpoint backward:
// out_k = step(s_k, out_{k+1}) with out_m = seed.
func FoldBack[T, R any](s *Signal[T], seed R, step func(v T, next R) R) *Signal[R] {
	out := &Signal[R]{samples: make([]Sample[R], len(s.samples)), end: s.end}
	acc := seed
	for k := len(s.samples) - 1; k >= 0; k-- {
		acc = step(s.samples[k].Value, acc)
		out.samples[k] = Sample[R]{Time: s.samples[k].Time, Value: acc}
	}
	return out
}
