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

// DistanceFunction describes how edge labels become distances and which
// distances an operator accepts.
//
// Lower and Upper bound the accepted distances inclusively under
// Domain.LessOrEqual. Use Domain.Infinity() as Upper for an unbounded
// operator.
type DistanceFunction[E, A any] struct {
	Domain domain.DistanceDomain[A]
	Weight func(E) A
	Lower  A
	Upper  A
}

// InBounds reports whether Lower <= d <= Upper.
func (f DistanceFunction[E, A]) InBounds(d A) bool {
	return f.Domain.LessOrEqual(f.Lower, d) && f.Domain.LessOrEqual(d, f.Upper)
}

// Build computes the distance structure of model under f.
//
// Description:
//
//	Runs a label-correcting relaxation once per target location. The
//	target is seeded with Zero, then every worklist entry relaxes the
//	incoming edges of its location; strict improvements are pushed back.
//	The table is complete when Build returns and is never mutated again.
//
// Complexity: O(N × relaxations), at most O(N × N × E) for pathological
// weights and O(N × E) on unit weights.
func (f DistanceFunction[E, A]) Build(model SpatialModel[E]) *DistanceStructure[E, A] {
	n := model.Size()
	dom := f.Domain

	table := make([][]A, n)
	for i := range table {
		table[i] = make([]A, n)
		for j := range table[i] {
			table[i][j] = dom.Infinity()
		}
	}

	type entry struct {
		node int
		dist A
	}
	relaxations := 0
	queue := make([]entry, 0, n)
	for target := 0; target < n; target++ {
		table[target][target] = dom.Zero()
		queue = append(queue[:0], entry{node: target, dist: dom.Zero()})
		for len(queue) > 0 {
			e := queue[0]
			queue = queue[1:]
			relaxations++
			if dom.Less(table[e.node][target], e.dist) {
				continue // superseded by a shorter path
			}
			for _, in := range model.Previous(e.node) {
				d := dom.Sum(f.Weight(in.Label), e.dist)
				if dom.Less(d, table[in.From][target]) {
					table[in.From][target] = d
					queue = append(queue, entry{node: in.From, dist: d})
				}
			}
		}
	}

	distanceBuildsTotal.Inc()
	distanceRelaxations.Observe(float64(relaxations))

	return &DistanceStructure[E, A]{fn: f, model: model, table: table}
}

// DistanceStructure is the all-pairs distance table of one spatial model.
type DistanceStructure[E, A any] struct {
	fn    DistanceFunction[E, A]
	model SpatialModel[E]
	table [][]A
}

// Model returns the spatial model the table was built from.
func (d *DistanceStructure[E, A]) Model() SpatialModel[E] { return d.model }

// Function returns the distance function the table was built with.
func (d *DistanceStructure[E, A]) Function() DistanceFunction[E, A] { return d.fn }

// Size returns the number of locations.
func (d *DistanceStructure[E, A]) Size() int { return d.model.Size() }

// Distance returns the shortest distance from i to j: Zero when i == j and
// Infinity when j is unreachable from i.
func (d *DistanceStructure[E, A]) Distance(i, j int) A { return d.table[i][j] }

// CheckDistance reports whether Distance(i, j) lies within the bounds.
func (d *DistanceStructure[E, A]) CheckDistance(i, j int) bool {
	return d.fn.InBounds(d.table[i][j])
}
