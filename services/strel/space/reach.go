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
	"github.com/AleutianAI/strel/services/strel/domain"
)

// reachEntry is the best value known for reaching an s2 location from a
// given location at a given accumulated distance.
type reachEntry[A, T any] struct {
	dist  A
	value T
}

// Reach evaluates s1 R[lower, upper] s2 at every location.
//
// Description:
//
//	Location i satisfies the formula when some path from i, of length
//	within the bounds, ends at a location where s2 holds and s1 holds at
//	every location strictly before the end of the path.
//
//	Every location starts with the entry (Zero, s2(i)). A worklist of
//	(location, distance, value) triples is propagated backwards along
//	incoming edges: crossing pred -> location with weight w yields
//	distance + w (dropped above Upper) and value s1(pred) ∧ value. The
//	candidate is merged into pred's entry at that distance with
//	disjunction and re-queued only when the merged value changed.
//
// Inputs:
//
//   - ds: Distance structure of the current topology. Only its model and
//     bounds are read.
//   - dom: Truth domain of s1 and s2.
//   - s1, s2: Per-location values. Both must have ds.Size() entries.
//
// Outputs:
//
//   - []T: Per-location satisfaction (or robustness) values.
//
// Complexity: O(E × D) worklist entries where D is the number of distinct
// distances below Upper. An Upper of Infinity switches to a value-only
// fixpoint, since walks around a cycle would otherwise produce new
// distances forever.
func Reach[E, A, T any](ds *DistanceStructure[E, A], dom domain.Domain[T], s1, s2 []T) []T {
	fn := ds.fn
	if fn.Domain.Less(fn.Upper, fn.Domain.Infinity()) {
		return boundedReach(ds.model, fn, dom, s1, s2)
	}
	return unboundedReach(ds.model, fn, dom, s1, s2)
}

// unboundedReach evaluates s1 R[lower, ∞) s2.
//
// With a zero lower bound the distance is irrelevant and the value at each
// location is the least solution of v(i) = s2(i) ∨ (s1(i) ∧ ∨ v(succ)).
// Otherwise a walk of length at least lower first reaches that length at a
// location within [lower, lower + maxWeight], from where the zero-bound
// solution applies, so the zero-bound values serve as the target of one
// bounded pass.
func unboundedReach[E, A, T any](model SpatialModel[E], fn DistanceFunction[E, A], dom domain.Domain[T], s1, s2 []T) []T {
	n := model.Size()
	dd := fn.Domain

	value := make([]T, n)
	copy(value, s2)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		queue = append(queue, i)
	}
	processed := 0
	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]
		processed++
		for _, e := range model.Previous(l) {
			v := dom.Disjunction(value[e.From], dom.Conjunction(s1[e.From], value[l]))
			if !dom.Equal(v, value[e.From]) {
				value[e.From] = v
				queue = append(queue, e.From)
			}
		}
	}
	fixpointRounds.WithLabelValues("reach_unbounded").Observe(float64(processed))

	if !dd.Less(dd.Zero(), fn.Lower) {
		return value
	}

	maxWeight := dd.Zero()
	for i := 0; i < n; i++ {
		for _, e := range model.Next(i) {
			if w := fn.Weight(e.Label); dd.Less(maxWeight, w) {
				maxWeight = w
			}
		}
	}
	window := fn
	window.Upper = dd.Sum(fn.Lower, maxWeight)
	return boundedReach(model, window, dom, s1, value)
}

// boundedReach is the distance-indexed worklist for a finite Upper.
func boundedReach[E, A, T any](model SpatialModel[E], fn DistanceFunction[E, A], dom domain.Domain[T], s1, s2 []T) []T {
	dd := fn.Domain
	n := model.Size()

	type item struct {
		loc   int
		dist  A
		value T
	}

	entries := make([][]reachEntry[A, T], n)
	queue := make([]item, 0, n)
	for i := 0; i < n; i++ {
		entries[i] = append(entries[i], reachEntry[A, T]{dist: dd.Zero(), value: s2[i]})
		queue = append(queue, item{loc: i, dist: dd.Zero(), value: s2[i]})
	}

	processed := 0
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		processed++

		for _, e := range model.Previous(it.loc) {
			d := dd.Sum(it.dist, fn.Weight(e.Label))
			if !dd.LessOrEqual(d, fn.Upper) {
				continue
			}
			candidate := dom.Conjunction(s1[e.From], it.value)
			if merged, changed := mergeReach(dom, dd, &entries[e.From], d, candidate); changed {
				queue = append(queue, item{loc: e.From, dist: d, value: merged})
			}
		}
	}
	fixpointRounds.WithLabelValues("reach").Observe(float64(processed))

	out := make([]T, n)
	for i := 0; i < n; i++ {
		acc := dom.Bottom()
		for _, en := range entries[i] {
			if fn.InBounds(en.dist) {
				acc = dom.Disjunction(acc, en.value)
			}
		}
		out[i] = acc
	}
	return out
}

// mergeReach folds value into the entry at distance d. It reports the new
// value and whether it differs from the previous one.
func mergeReach[A, T any](dom domain.Domain[T], dd domain.DistanceDomain[A], entries *[]reachEntry[A, T], d A, value T) (T, bool) {
	for k := range *entries {
		en := &(*entries)[k]
		if !dd.Equal(en.dist, d) {
			continue
		}
		merged := dom.Disjunction(en.value, value)
		if dom.Equal(merged, en.value) {
			return en.value, false
		}
		en.value = merged
		return merged, true
	}
	if dom.Equal(value, dom.Bottom()) {
		return value, false
	}
	*entries = append(*entries, reachEntry[A, T]{dist: d, value: value})
	return value, true
}
