// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package temporal evaluates the temporal operators of STREL over
// piecewise-constant signals.
//
// Future operators (Eventually, Globally, Until) look at [t+a, t+b] and are
// defined on [start, end-b]. Past operators (Once, Historically, Since)
// look at [t-b, t-a] and are defined on [start+b, end]. A nil interval
// means [0, ∞). Results are compacted under the domain's equality.
//
// Bounded windows run in time linear in the number of breakpoints whatever
// the window width. They require a totally ordered truth domain.
package temporal

import (
	"github.com/AleutianAI/strel/services/strel/domain"
	"github.com/AleutianAI/strel/services/strel/signal"
)

// Eventually returns F[a,b] s: the disjunction of s over [t+a, t+b].
func Eventually[T any](dom domain.Domain[T], iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	return future("eventually", dom, dom.Disjunction, dom.Bottom(), iv, s)
}

// Globally returns G[a,b] s: the conjunction of s over [t+a, t+b].
func Globally[T any](dom domain.Domain[T], iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	return future("globally", dom, dom.Conjunction, dom.Top(), iv, s)
}

// Once returns O[a,b] s: the disjunction of s over [t-b, t-a].
func Once[T any](dom domain.Domain[T], iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	return past("once", dom, dom.Disjunction, dom.Bottom(), iv, s)
}

// Historically returns H[a,b] s: the conjunction of s over [t-b, t-a].
func Historically[T any](dom domain.Domain[T], iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	return past("historically", dom, dom.Conjunction, dom.Top(), iv, s)
}

// Until returns s1 U[a,b] s2.
//
// Description:
//
//	The unbounded part is the backward recurrence
//	acc_k = s2_k ∨ (s1_k ∧ acc_{k+1}) over the merged breakpoints of both
//	operands, seeded with Bottom. A bounded interval additionally requires
//	Eventually[a,b] s2, so the result is unbounded ∧ F[a,b] s2.
//
// Outputs:
//
//   - *signal.Signal[T]: Defined on the common domain of s1 and s2,
//     shortened by b for a bounded interval. Empty when that is empty.
func Until[T any](dom domain.Domain[T], iv *signal.Interval, s1, s2 *signal.Signal[T]) *signal.Signal[T] {
	zipped := signal.Zip(s1, s2)
	unbounded := signal.FoldBack(zipped, dom.Bottom(), func(p signal.Pair[T, T], next T) T {
		return dom.Disjunction(p.Second, dom.Conjunction(p.First, next))
	})
	if iv == nil {
		return unbounded.Compact(dom.Equal)
	}
	return signal.ApplyBinary(unbounded, Eventually(dom, iv, s2), dom.Conjunction).Compact(dom.Equal)
}

// Since returns s1 S[a,b] s2, the past mirror of Until:
// acc_k = s2_k ∨ (s1_k ∧ acc_{k-1}), conjoined with Once[a,b] s2 when
// bounded.
func Since[T any](dom domain.Domain[T], iv *signal.Interval, s1, s2 *signal.Signal[T]) *signal.Signal[T] {
	zipped := signal.Zip(s1, s2)
	unbounded := signal.Fold(zipped, dom.Bottom(), func(p signal.Pair[T, T], prev T) T {
		return dom.Disjunction(p.Second, dom.Conjunction(p.First, prev))
	})
	if iv == nil {
		return unbounded.Compact(dom.Equal)
	}
	return signal.ApplyBinary(unbounded, Once(dom, iv, s2), dom.Conjunction).Compact(dom.Equal)
}

func future[T any](name string, dom domain.Domain[T], op func(a, b T) T, identity T, iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	if s.IsEmpty() {
		return signal.New[T]()
	}
	scan := func() *signal.Signal[T] {
		return signal.FoldBack(s, identity, op)
	}
	switch {
	case iv == nil:
		return scan().Compact(dom.Equal)
	case !iv.IsBounded():
		return scan().Shift(-iv.Start).Restrict(s.Start(), s.End()-iv.Start).Compact(dom.Equal)
	}
	return slide(name, dom, op, s, futureWindow(s, *iv))
}

func past[T any](name string, dom domain.Domain[T], op func(a, b T) T, identity T, iv *signal.Interval, s *signal.Signal[T]) *signal.Signal[T] {
	if s.IsEmpty() {
		return signal.New[T]()
	}
	scan := func() *signal.Signal[T] {
		return signal.Fold(s, identity, op)
	}
	switch {
	case iv == nil:
		return scan().Compact(dom.Equal)
	case !iv.IsBounded():
		return scan().Shift(iv.Start).Restrict(s.Start()+iv.Start, s.End()).Compact(dom.Equal)
	}
	return slide(name, dom, op, s, pastWindow(s, *iv))
}
