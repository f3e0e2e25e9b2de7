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

// Escape evaluates E[lower, upper] s at every location.
//
// Description:
//
//	Location i satisfies the formula when some location j, whose distance
//	from i is within the bounds, can be reached from i along a path on
//	which s holds everywhere, both endpoints included.
//
//	reach[i][j] starts at s(i) on the diagonal and Bottom elsewhere. Each
//	layer pushes the rows of the current frontier to their predecessors:
//	reach[p][j] = reach[p][j] ∨ (s(p) ∧ reach[l][j]) for every edge p -> l.
//	Locations whose row changed form the next frontier. Values only grow
//	and the lattice restricted to the input values is finite, so the loop
//	terminates.
//
// Complexity: O(layers × E × N).
func Escape[E, A, T any](ds *DistanceStructure[E, A], dom domain.Domain[T], s []T) []T {
	model := ds.model
	n := model.Size()
	bottom := dom.Bottom()

	reach := make([][]T, n)
	for i := range reach {
		reach[i] = make([]T, n)
		for j := range reach[i] {
			reach[i][j] = bottom
		}
		reach[i][i] = s[i]
	}

	frontier := make([]int, n)
	for i := range frontier {
		frontier[i] = i
	}
	layers := 0
	for len(frontier) > 0 {
		layers++
		changed := make(map[int]struct{})
		for _, l := range frontier {
			for _, e := range model.Previous(l) {
				p := e.From
				for j := 0; j < n; j++ {
					if dom.Equal(reach[l][j], bottom) {
						continue
					}
					v := dom.Disjunction(reach[p][j], dom.Conjunction(s[p], reach[l][j]))
					if !dom.Equal(v, reach[p][j]) {
						reach[p][j] = v
						changed[p] = struct{}{}
					}
				}
			}
		}
		frontier = frontier[:0]
		for p := 0; p < n; p++ {
			if _, ok := changed[p]; ok {
				frontier = append(frontier, p)
			}
		}
	}
	fixpointRounds.WithLabelValues("escape").Observe(float64(layers))

	out := make([]T, n)
	for i := 0; i < n; i++ {
		acc := bottom
		for j := 0; j < n; j++ {
			if ds.CheckDistance(i, j) {
				acc = dom.Disjunction(acc, reach[i][j])
			}
		}
		out[i] = acc
	}
	return out
}
