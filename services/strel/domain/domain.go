// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package domain defines the value-level algebra the engine is generic over.
//
// Two families exist:
//
//   - Domain[T]: the truth domain of signals. Conjunction and Disjunction
//     form a bounded lattice with Bottom (identity of Disjunction) and Top
//     (identity of Conjunction). Negation maps the lattice onto its dual.
//   - DistanceDomain[A]: the domain distances are accumulated in. Sum must
//     be monotone and the weights must not admit improving cycles.
//
// Neither property is checked at runtime. A non-monotone domain or a
// negative-weight cycle makes the fixpoint loops in package space diverge
// or return wrong results.
//
// # Thread Safety
//
// All domains in this package are stateless values and safe for
// concurrent use.
package domain

// Domain is the truth algebra of a signal.
//
// The sliding-window operators in package temporal additionally require
// the lattice to be totally ordered: for any a, b exactly one of them is
// returned by Disjunction(a, b).
type Domain[T any] interface {
	// Bottom is the least element and the identity of Disjunction.
	Bottom() T

	// Top is the greatest element and the identity of Conjunction.
	Top() T

	Conjunction(a, b T) T
	Disjunction(a, b T) T
	Negation(a T) T

	// Equal reports whether a and b are the same lattice element. Fixpoint
	// loops stop re-queueing work when Equal holds.
	Equal(a, b T) bool
}

// DistanceDomain is the algebra distances are accumulated in.
type DistanceDomain[A any] interface {
	// Zero is the distance from a location to itself.
	Zero() A

	// Infinity is the distance between unreachable locations.
	Infinity() A

	Sum(a, b A) A
	Less(a, b A) bool
	LessOrEqual(a, b A) bool
	Equal(a, b A) bool
}

// Strict is implemented by domains whose Equal is approximate. Ordering
// decisions that must not drift, such as sliding-window dominance, use
// StrictEqual instead of Equal.
type Strict[T any] interface {
	StrictEqual(a, b T) bool
}

// StrictEqual returns the exact equality of dom: its StrictEqual when it
// has one, Equal otherwise.
func StrictEqual[T any](dom Domain[T]) func(a, b T) bool {
	if s, ok := dom.(Strict[T]); ok {
		return s.StrictEqual
	}
	return dom.Equal
}

// Implies returns the material implication a -> b in dom.
func Implies[T any](dom Domain[T], a, b T) T {
	return dom.Disjunction(dom.Negation(a), b)
}
