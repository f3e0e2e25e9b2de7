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

// Somewhere returns, for every location i, the disjunction of values[j]
// over the locations j whose distance from i is within bounds.
//
// Complexity: O(N²) given the table.
func Somewhere[E, A, T any](ds *DistanceStructure[E, A], dom domain.Domain[T], values []T) []T {
	return aggregate(ds, values, dom.Bottom(), dom.Disjunction)
}

// Everywhere is the dual of Somewhere using conjunction.
func Everywhere[E, A, T any](ds *DistanceStructure[E, A], dom domain.Domain[T], values []T) []T {
	return aggregate(ds, values, dom.Top(), dom.Conjunction)
}

func aggregate[E, A, T any](ds *DistanceStructure[E, A], values []T, identity T, op func(a, b T) T) []T {
	n := ds.Size()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		acc := identity
		for j := 0; j < n; j++ {
			if ds.CheckDistance(i, j) {
				acc = op(acc, values[j])
			}
		}
		out[i] = acc
	}
	return out
}
